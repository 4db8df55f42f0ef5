package fpath

import (
	"errors"
	"fmt"
)

// Error codes carried by *Error. They are stable strings so callers and the
// CLI can report them without matching on messages.
const (
	CodeNotFound            = "PATH_NO_EXIST"
	CodeIsDirectory         = "PATH_IS_DIRECTORY"
	CodeIsFile              = "PATH_IS_FILE"
	CodeNotADirectory       = "PATH_NOT_DIRECTORY"
	CodeInvalidDeserializer = "INVALID_DESERIALIZER"
	CodeInvalidSerializer   = "INVALID_SERIALIZER"
	CodeAlreadyConfigured   = "ALREADY_CONFIGURED"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeStat                = "STAT_FAILED"
	CodeSameFile            = "SAME_FILE"
	CodeIO                  = "IO_FAILED"
)

// Error is the error type returned by every path operation.
// Two Errors match under errors.Is when their codes are equal, so the
// sentinels below can be used to classify a failure:
//
//	if errors.Is(err, fpath.ErrExpectFile) { ... }
type Error struct {
	Code    string
	Op      string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.fallbackMessage()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// fallbackMessage describes an Error built without a Message. Sentinels carry
// only a code.
func (e *Error) fallbackMessage() string {
	switch {
	case e.Op != "" && e.Path != "":
		return fmt.Sprintf("%s %s failed", e.Op, e.Path)
	case e.Op != "":
		return e.Op + " failed"
	default:
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is. They carry only a code.
var (
	ErrNotFound            = &Error{Code: CodeNotFound}
	ErrExpectFile          = &Error{Code: CodeIsDirectory}
	ErrExpectDirectory     = &Error{Code: CodeIsFile}
	ErrNotADirectory       = &Error{Code: CodeNotADirectory}
	ErrInvalidDeserializer = &Error{Code: CodeInvalidDeserializer}
	ErrInvalidSerializer   = &Error{Code: CodeInvalidSerializer}
	ErrAlreadyConfigured   = &Error{Code: CodeAlreadyConfigured}
	ErrInvalidArgument     = &Error{Code: CodeInvalidArgument}
	ErrStat                = &Error{Code: CodeStat}
	ErrSameFile            = &Error{Code: CodeSameFile}
)

// Code returns the code of the first *Error in err's chain, or "" if there is none.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func notFoundError(op, path string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Op:      op,
		Path:    path,
		Message: fmt.Sprintf("Cannot %s '%s'; it does not exist.", op, path),
	}
}

// expectFileError is returned when an operation needs a file and finds a directory.
func expectFileError(op, verb, path string) *Error {
	return &Error{
		Code:    CodeIsDirectory,
		Op:      op,
		Path:    path,
		Message: fmt.Sprintf("Cannot %s '%s'; it is a directory.", verb, path),
	}
}

// expectDirectoryError is returned when an operation needs a directory and finds a file.
func expectDirectoryError(op, verb, path string) *Error {
	return &Error{
		Code:    CodeIsFile,
		Op:      op,
		Path:    path,
		Message: fmt.Sprintf("Cannot %s '%s'; it is a file.", verb, path),
	}
}

func notADirectoryError(op, path string) *Error {
	return &Error{
		Code:    CodeNotADirectory,
		Op:      op,
		Path:    path,
		Message: fmt.Sprintf("Path \"%s\" already exists but is not a directory.", path),
	}
}

func invalidArgumentError(op, message string) *Error {
	return &Error{Code: CodeInvalidArgument, Op: op, Message: message}
}

func statError(path string, err error) *Error {
	return &Error{Code: CodeStat, Op: "stat", Path: path, Message: fmt.Sprintf("stat %s", path), Err: err}
}

func ioError(op, path string, err error) *Error {
	return &Error{Code: CodeIO, Op: op, Path: path, Message: fmt.Sprintf("%s %s", op, path), Err: err}
}
