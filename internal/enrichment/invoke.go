package enrichment

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"campaign-enricher/internal/common/metrics"
)

// Outcome classifies a single guarded call.
type Outcome string

const (
	OutcomeOK      Outcome = metrics.OutcomeOK
	OutcomeEmpty   Outcome = metrics.OutcomeEmpty
	OutcomeError   Outcome = metrics.OutcomeError
	OutcomePanic   Outcome = metrics.OutcomePanic
	OutcomeTimeout Outcome = metrics.OutcomeTimeout
)

// ErrEmptyResult is reported when a call succeeds with a zero or nil value.
var ErrEmptyResult = errors.New("empty result")

// PanicError carries the value recovered from a panicking call.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Invoke runs fn under ctx and classifies the result. It returns once fn
// finishes or ctx is done, whichever comes first. Only an OutcomeOK call
// yields a non-zero value; every other outcome carries a non-nil error.
func Invoke[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, Outcome, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, contextOutcome(err), err
	}

	type result struct {
		value T
		err   error
	}
	// buffered so a call that outlives ctx can still finish and exit
	done := make(chan result, 1)

	go func() {
		var r result
		defer func() {
			if p := recover(); p != nil {
				r = result{err: &PanicError{Value: p}}
			}
			done <- r
		}()
		r.value, r.err = fn(ctx)
	}()

	select {
	case r := <-done:
		var panicErr *PanicError
		switch {
		case errors.As(r.err, &panicErr):
			return zero, OutcomePanic, r.err
		case r.err != nil:
			if errors.Is(r.err, context.DeadlineExceeded) {
				return zero, OutcomeTimeout, r.err
			}
			return zero, OutcomeError, r.err
		case isEmpty(r.value):
			return zero, OutcomeEmpty, ErrEmptyResult
		}
		return r.value, OutcomeOK, nil
	case <-ctx.Done():
		return zero, contextOutcome(ctx.Err()), ctx.Err()
	}
}

// Safely returns fn's value, or fallback when the call fails, panics, times
// out, or produces a zero or nil value.
func Safely[T any](ctx context.Context, fn func(context.Context) (T, error), fallback T) T {
	value, outcome, _ := Invoke(ctx, fn)
	if outcome != OutcomeOK {
		return fallback
	}
	return value
}

func contextOutcome(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	return OutcomeError
}

// isEmpty treats nil references and zero scalars as empty. An allocated but
// empty map or slice is a value.
func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}
