package command

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCommand is matched by every *InvalidCommandError
	ErrInvalidCommand = errors.New("invalid command")
	// ErrInvalidArgument reports an argument that could not be converted
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfBounds reports an argument outside its permitted range
	ErrOutOfBounds = errors.New("argument out of bounds")
	// ErrArgumentCount is matched by every *ArgumentCountError
	ErrArgumentCount = errors.New("wrong number of arguments")
	// ErrSchemaViolation reports arguments rejected by a command's schema
	ErrSchemaViolation = errors.New("arguments do not match schema")
)

// InvalidCommandError reports a command name no registered command matches
type InvalidCommandError struct {
	Name       string
	Suggestion string // Closest registered name, if any
}

func (e *InvalidCommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid command %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("invalid command %q", e.Name)
}

// Is makes errors.Is(err, ErrInvalidCommand) hold
func (e *InvalidCommandError) Is(target error) bool {
	return target == ErrInvalidCommand
}

// ArgumentCountError reports an argument vector of the wrong length
type ArgumentCountError struct {
	Expected int
	Received int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("expected %d arguments, received %d", e.Expected, e.Received)
}

// Is makes errors.Is(err, ErrArgumentCount) hold
func (e *ArgumentCountError) Is(target error) bool {
	return target == ErrArgumentCount
}

// SchemaError reports a schema validation failure for one command
type SchemaError struct {
	Command string
	Err     error // Underlying validator error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *SchemaError) Unwrap() []error {
	return []error{ErrSchemaViolation, e.Err}
}
