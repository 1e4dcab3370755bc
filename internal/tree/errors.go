package tree

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the trimmed text for a new or edited task is empty.
var ErrEmptyInput = errors.New("empty input")

// ErrPathNotFound matches any PathNotFoundError via errors.Is.
var ErrPathNotFound = errors.New("path not found")

type PathNotFoundError struct {
	Path string
}

func (e PathNotFoundError) Error() string {
	if e.Path == "" {
		return "path not found: (empty)"
	}
	return fmt.Sprintf("path not found: %s", e.Path)
}

func (e PathNotFoundError) Is(target error) bool {
	return target == ErrPathNotFound
}

func errPathNotFound(path string) error {
	return PathNotFoundError{Path: path}
}
