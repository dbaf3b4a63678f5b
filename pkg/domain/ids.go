package domain

import (
	"bytes"

	"github.com/google/uuid"
)

// Typed identifiers. Each is a UUIDv7 so that identifiers issued later sort
// after identifiers issued earlier within one process.
//
// Invariant: a freshly issued ID is never uuid.Nil and never reused.
type (
	// TermID identifies a density term. Two terms with equal values but
	// different IDs are distinct contributions.
	TermID uuid.UUID
	// VariableID identifies a symbolic variable (parameter or placeholder).
	VariableID uuid.UUID
	// BatchID identifies a batch descriptor.
	BatchID uuid.UUID
)

func newV7() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewTermID issues a fresh term identifier.
func NewTermID() TermID { return TermID(newV7()) }

// NewVariableID issues a fresh variable identifier.
func NewVariableID() VariableID { return VariableID(newV7()) }

// NewBatchID issues a fresh batch identifier.
func NewBatchID() BatchID { return BatchID(newV7()) }

func (id TermID) String() string     { return uuid.UUID(id).String() }
func (id VariableID) String() string { return uuid.UUID(id).String() }
func (id BatchID) String() string    { return uuid.UUID(id).String() }

// Before orders term IDs by issue time.
func (id TermID) Before(other TermID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}
