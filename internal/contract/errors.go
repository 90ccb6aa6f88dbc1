package contract

import (
	"errors"
	"fmt"
)

// ErrorKind is the category of an engine failure.
type ErrorKind int

const (
	// KindMissingDependency - an upstream metric is unavailable; the resource is aborted
	KindMissingDependency ErrorKind = iota + 1
	// KindRepositoryAccess - repository data for one file could not be read; the file is skipped
	KindRepositoryAccess
	// KindConfiguration - a required option is missing or invalid; the project run is aborted
	KindConfiguration
	// KindInvariantViolation - an update would break the ledger taxonomy; the update is skipped
	KindInvariantViolation
)

// String returns the kind name used in reports and logs.
func (k ErrorKind) String() string {
	switch k {
	case KindMissingDependency:
		return "missing_dependency"
	case KindRepositoryAccess:
		return "repository_access"
	case KindConfiguration:
		return "configuration"
	case KindInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// EngineError is a typed failure carrying the resource it happened on.
type EngineError struct {
	Kind     ErrorKind
	Op       string
	Resource string
	Err      error
}

// Sentinels for errors.Is matching by kind.
var (
	ErrMissingDependency  = &EngineError{Kind: KindMissingDependency}
	ErrRepositoryAccess   = &EngineError{Kind: KindRepositoryAccess}
	ErrConfiguration      = &EngineError{Kind: KindConfiguration}
	ErrInvariantViolation = &EngineError{Kind: KindInvariantViolation}
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Resource != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Resource)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is matches any EngineError of the same kind.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewMissingDependencyError reports an unavailable upstream metric.
func NewMissingDependencyError(op, resource string, err error) error {
	return &EngineError{Kind: KindMissingDependency, Op: op, Resource: resource, Err: err}
}

// NewRepositoryAccessError reports a failed repository read.
func NewRepositoryAccessError(op, resource string, err error) error {
	return &EngineError{Kind: KindRepositoryAccess, Op: op, Resource: resource, Err: err}
}

// NewConfigurationError reports an invalid configuration value.
func NewConfigurationError(op string, err error) error {
	return &EngineError{Kind: KindConfiguration, Op: op, Err: err}
}

// NewInvariantViolation reports an update that breaks the ledger taxonomy.
func NewInvariantViolation(op, resource string, err error) error {
	return &EngineError{Kind: KindInvariantViolation, Op: op, Resource: resource, Err: err}
}

// KindOf returns the kind of the first EngineError in err's chain.
func KindOf(err error) ErrorKind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return 0
}
