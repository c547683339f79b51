package ident

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces ids for freshly created entities and proposals. It is
// injected into the pipeline so output ids are deterministic under test.
type Generator interface {
	NewID() string
}

// UUID is the production generator.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.New().String()
}

// Sequence is a deterministic generator for tests: prefix-1, prefix-2, ...
type Sequence struct {
	Prefix string
	n      int
}

func (s *Sequence) NewID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}
