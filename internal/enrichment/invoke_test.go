package enrichment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestInvoke_Outcomes(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name        string
		fn          func(context.Context) (interface{}, error)
		wantOutcome Outcome
	}{
		{
			name:        "value",
			fn:          func(context.Context) (interface{}, error) { return map[string]interface{}{"a": 1}, nil },
			wantOutcome: OutcomeOK,
		},
		{
			name:        "empty map is a value",
			fn:          func(context.Context) (interface{}, error) { return map[string]interface{}{}, nil },
			wantOutcome: OutcomeOK,
		},
		{
			name:        "nil",
			fn:          func(context.Context) (interface{}, error) { return nil, nil },
			wantOutcome: OutcomeEmpty,
		},
		{
			name:        "nil map",
			fn:          func(context.Context) (interface{}, error) { return map[string]interface{}(nil), nil },
			wantOutcome: OutcomeEmpty,
		},
		{
			name:        "empty string",
			fn:          func(context.Context) (interface{}, error) { return "", nil },
			wantOutcome: OutcomeEmpty,
		},
		{
			name:        "zero",
			fn:          func(context.Context) (interface{}, error) { return 0, nil },
			wantOutcome: OutcomeEmpty,
		},
		{
			name:        "error",
			fn:          func(context.Context) (interface{}, error) { return map[string]interface{}{"a": 1}, errors.New("boom") },
			wantOutcome: OutcomeError,
		},
		{
			name:        "panic",
			fn:          func(context.Context) (interface{}, error) { panic("kaboom") },
			wantOutcome: OutcomePanic,
		},
		{
			name:        "deadline error from callee",
			fn:          func(context.Context) (interface{}, error) { return nil, context.DeadlineExceeded },
			wantOutcome: OutcomeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, outcome, err := Invoke(context.Background(), tt.fn)

			assert.Equal(t, tt.wantOutcome, outcome)
			if outcome == OutcomeOK {
				assert.NoError(t, err)
				assert.NotNil(t, value)
			} else {
				assert.Error(t, err)
				assert.Nil(t, value)
			}
		})
	}
}

func TestInvoke_PanicError(t *testing.T) {
	_, _, err := Invoke(context.Background(), func(context.Context) (int, error) {
		panic(errors.New("nil map write"))
	})

	var panicErr *PanicError
	assert.ErrorAs(t, err, &panicErr)
	assert.Contains(t, err.Error(), "nil map write")
}

func TestInvoke_Deadline(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, outcome, err := Invoke(ctx, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		time.Sleep(5 * time.Millisecond)
		return "late", nil
	})

	assert.Equal(t, OutcomeTimeout, outcome)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	// let the callee finish before the leak check
	time.Sleep(20 * time.Millisecond)
}

func TestInvoke_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, outcome, err := Invoke(ctx, func(context.Context) (int, error) {
		called = true
		return 1, nil
	})

	assert.False(t, called)
	assert.Equal(t, OutcomeError, outcome)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSafely(t *testing.T) {
	fallback := map[string]interface{}{}

	got := Safely(context.Background(), func(context.Context) (map[string]interface{}, error) {
		return map[string]interface{}{"ok": true}, nil
	}, fallback)
	assert.Equal(t, map[string]interface{}{"ok": true}, got)

	got = Safely(context.Background(), func(context.Context) (map[string]interface{}, error) {
		return nil, errors.New("down")
	}, fallback)
	assert.Equal(t, fallback, got)

	got = Safely(context.Background(), func(context.Context) (map[string]interface{}, error) {
		return nil, nil
	}, fallback)
	assert.Equal(t, fallback, got)

	n := Safely(context.Background(), func(context.Context) (int, error) {
		panic("bad")
	}, 7)
	assert.Equal(t, 7, n)
}
