package tree

import (
	"strings"

	"github.com/google/uuid"
)

const nodeIDPrefix = "task-"

// newNodeID returns task-<8 hex chars>, retrying on the (unlikely) collision with an
// id already present in the forest.
func (s *Store) newNodeID() string {
	for {
		id := nodeIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}
