// Package errors provides structured error types for the resource-pool library.
//
// Errors are categorized by Phase (which operation failed) and Kind (error category).
// The Error type carries the pool name, the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAlloc, errors.KindExhausted).
//		Pool("texture").
//		Value(512).
//		Detail("all %d slots in use", 512).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Exhausted(errors.PhaseAlloc, "texture", 512)
//	err := errors.DoubleFree("mesh", h)
//
// Callers test for a category with the sentinels, regardless of phase:
//
//	if errors.Is(err, rperrors.ErrExhausted) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
