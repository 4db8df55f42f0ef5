package app

import "github.com/google/uuid"

// Operation tracks a single CLI invocation. Its ID tags every log line the
// invocation writes so concurrent runs can be told apart in fpath.log.
type Operation struct {
	ID         string
	Name       string
	Parameters string
	Status     string // "success" or "error"
}

// NewOperation creates an operation with a fresh random ID.
func NewOperation(name, parameters string) *Operation {
	return &Operation{
		ID:         uuid.NewString(),
		Name:       name,
		Parameters: parameters,
		Status:     "success",
	}
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = "error"
}

// Failed returns true if Fail has been called.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
