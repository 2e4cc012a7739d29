package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Predicate converts one raw argument into a typed value, rejecting
// arguments it cannot accept
type Predicate[T any] interface {
	Validate(arg string) (T, error)
}

// IntRange accepts decimal integers in [Min, Max]
type IntRange struct {
	Min int
	Max int
}

// Validate implements Predicate[int]
func (r IntRange) Validate(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: could not parse %q into a valid integer", ErrInvalidArgument, arg)
	}
	if n < r.Min || n > r.Max {
		return 0, fmt.Errorf("%w: integer %d was not within the bounds of %d and %d", ErrOutOfBounds, n, r.Min, r.Max)
	}
	return n, nil
}

// Bool accepts on/true/1 and off/false/0, case insensitively
type Bool struct{}

// Validate implements Predicate[bool]
func (Bool) Validate(arg string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: could not parse %q into on or off", ErrInvalidArgument, arg)
}

// ExpectArgs checks the argument count
func ExpectArgs(args []string, n int) error {
	if len(args) != n {
		return &ArgumentCountError{Expected: n, Received: len(args)}
	}
	return nil
}

// ValidateAll applies one predicate to every argument, in order
func ValidateAll[T any](p Predicate[T], args []string) ([]T, error) {
	result := make([]T, len(args))
	for i, arg := range args {
		v, err := p.Validate(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		result[i] = v
	}
	return result, nil
}
