package graph

import (
	"github.com/pkg/errors"
)

var (
	// ErrGraphConstraintViolation is returned for any mutation that would
	// leave the graph inconsistent (dangling street endpoints, self loops,
	// duplicate streets, reused ids).
	ErrGraphConstraintViolation = errors.New("graph constraint violation")

	// ErrNotFound implies the given id is not present in the graph.
	ErrNotFound = errors.New("not found")
)
