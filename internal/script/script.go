// Package script reads batches of task commands from JSON and replays them
// against a session.
package script

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"tasktree/internal/session"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Script is a batch of commands.
type Script struct {
	Commands []session.Command `json:"commands"`
}

// ValidationError lists every schema violation found in a script.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid script: " + strings.Join(e.Problems, "; ")
}

// Parse validates r against the script schema and decodes it.
func Parse(r io.Reader) (*Script, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, &ValidationError{Problems: collectProblems(ve)}
		}
		return nil, err
	}

	var sc Script
	if err := json.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &sc, nil
}

func collectProblems(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}

// Result records how one command ended.
type Result struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Path    string `json:"path,omitempty"`
	Outcome string `json:"outcome"`
	Notice  string `json:"notice,omitempty"`
}

// Failed reports whether the command was rejected.
func (r Result) Failed() bool {
	return r.Notice != ""
}

// Run replays commands in order. Rejected commands are recorded and the run
// continues; only ctx cancellation stops it early.
func Run(ctx context.Context, s *session.Session, cmds []session.Command) ([]Result, error) {
	out := make([]Result, 0, len(cmds))
	for i, c := range cmds {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res := Result{Index: i, Op: c.Op, Path: c.Path}
		o, err := s.Dispatch(c, session.CommandInteraction(c))
		if err != nil {
			res.Outcome = "rejected"
			res.Notice = session.Notice(c.Op, err)
		} else {
			res.Outcome = o.String()
		}
		out = append(out, res)
	}
	return out, nil
}
