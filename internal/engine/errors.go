package engine

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyCompleted Code = "ALREADY_COMPLETED"
	CodeIntegrityFault   Code = "INTEGRITY_FAULT"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
)

// Entity names the record an error refers to.
type Entity string

const (
	EntityUser Entity = "user"
	EntityTask Entity = "task"
)

// Error is the domain error returned by Service operations.
type Error struct {
	Code    Code
	Entity  Entity
	ID      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyCompleted = &Error{Code: CodeAlreadyCompleted, Message: "task already completed"}
	ErrIntegrityFault   = &Error{Code: CodeIntegrityFault, Message: "integrity fault"}
	ErrInvalidArgument  = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
)

// NotFound reports a missing user or task.
func NotFound(entity Entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// AlreadyCompleted reports a repeated completion of the same task.
func AlreadyCompleted(taskID string) *Error {
	return &Error{
		Code:    CodeAlreadyCompleted,
		Entity:  EntityTask,
		ID:      taskID,
		Message: fmt.Sprintf("task %s already completed", taskID),
	}
}

// IntegrityFault reports a task whose owning user does not exist.
func IntegrityFault(taskID, userID string) *Error {
	return &Error{
		Code:    CodeIntegrityFault,
		Entity:  EntityUser,
		ID:      userID,
		Message: fmt.Sprintf("user %s not found (owner of task %s)", userID, taskID),
	}
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{
		Code:    CodeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
