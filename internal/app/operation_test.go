package app

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewOperation(t *testing.T) {
	tests := []struct {
		name       string
		operation  string
		parameters string
	}{
		{
			name:       "with parameters",
			operation:  "write",
			parameters: "/home/user/docs/a.json",
		},
		{
			name:       "empty parameters",
			operation:  "config list",
			parameters: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation(tt.operation, tt.parameters)

			if op.Name != tt.operation {
				t.Errorf("Name = %q, want %q", op.Name, tt.operation)
			}
			if op.Parameters != tt.parameters {
				t.Errorf("Parameters = %q, want %q", op.Parameters, tt.parameters)
			}
			if op.Status != "success" {
				t.Errorf("Status = %q, want %q", op.Status, "success")
			}
			if _, err := uuid.Parse(op.ID); err != nil {
				t.Errorf("ID = %q is not a UUID: %v", op.ID, err)
			}
		})
	}
}

func TestNewOperation_uniqueIDs(t *testing.T) {
	a := NewOperation("ls", "")
	b := NewOperation("ls", "")
	if a.ID == b.ID {
		t.Errorf("two operations share ID %q", a.ID)
	}
}

func TestOperation_Fail(t *testing.T) {
	op := NewOperation("mkdir", "/tmp/x")
	if op.Failed() {
		t.Fatal("new operation reports failure")
	}
	op.Fail()
	if !op.Failed() || op.Status != "error" {
		t.Errorf("after Fail: Status = %q, Failed() = %v", op.Status, op.Failed())
	}
}
