package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which pool operation produced the error
type Phase string

const (
	PhaseAlloc     Phase = "alloc"     // slot allocation
	PhaseFree      Phase = "free"      // slot release
	PhaseConstruct Phase = "construct" // type-specific constructor
	PhaseLookup    Phase = "lookup"    // handle or name lookup
	PhaseName      Phase = "name"      // name table mutation
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseHost      Phase = "host"      // wasm host module
	PhaseScript    Phase = "script"    // lua bindings
)

// Kind categorizes the error
type Kind string

const (
	KindExhausted       Kind = "exhausted"
	KindNotFound        Kind = "not_found"
	KindDoubleFree      Kind = "double_free"
	KindNameConflict    Kind = "name_conflict"
	KindInvalidHandle   Kind = "invalid_handle"
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidData     Kind = "invalid_data"
	KindConstructFailed Kind = "construct_failed"
	KindRegistration    Kind = "registration"
)

// Sentinels for errors.Is. They carry no Phase, so they match any phase.
var (
	ErrExhausted     = &Error{Kind: KindExhausted}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrDoubleFree    = &Error{Kind: KindDoubleFree}
	ErrNameConflict  = &Error{Kind: KindNameConflict}
	ErrInvalidHandle = &Error{Kind: KindInvalidHandle}

	ErrConstructFailed = &Error{Kind: KindConstructFailed}
	ErrRegistration    = &Error{Kind: KindRegistration}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Pool   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Pool != "" {
		b.WriteString(" in ")
		b.WriteString(e.Pool)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Pool sets the resource kind the error belongs to
func (b *Builder) Pool(name string) *Builder {
	b.err.Pool = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Exhausted creates a capacity exhaustion error
func Exhausted(phase Phase, pool string, capacity uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindExhausted,
		Pool:   pool,
		Detail: fmt.Sprintf("all %d slots in use", capacity),
		Value:  capacity,
	}
}

// DoubleFree creates an error for releasing a slot that is not live
func DoubleFree(pool string, handle any) *Error {
	return &Error{
		Phase:  PhaseFree,
		Kind:   KindDoubleFree,
		Pool:   pool,
		Detail: fmt.Sprintf("handle %v is not live", handle),
		Value:  handle,
	}
}

// InvalidHandle creates an error for a handle that was never issued or is stale
func InvalidHandle(phase Phase, pool string, handle any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Pool:   pool,
		Detail: fmt.Sprintf("handle %v", handle),
		Value:  handle,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NameConflict creates an error for a name key that is already bound
func NameConflict(pool string, key uint32) *Error {
	return &Error{
		Phase:  PhaseName,
		Kind:   KindNameConflict,
		Pool:   pool,
		Detail: fmt.Sprintf("key %#08x already bound", key),
		Value:  key,
	}
}

// ConstructFailed wraps an error returned by a constructor hook
func ConstructFailed(pool string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindConstructFailed,
		Pool:   pool,
		Detail: "constructor rejected create info",
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(phase Phase, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s", name),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
