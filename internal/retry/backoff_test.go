package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) *Backoff {
	return &Backoff{
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   1.5,
		MaxAttempts:  attempts,
	}
}

func TestBackoff_SuccessAfterRetries(t *testing.T) {
	calls := 0
	err := fastBackoff(5).Do(context.Background(), func(attempt int) error {
		calls++
		if attempt < 3 {
			return fmt.Errorf("wiki 503")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoff_PermanentError(t *testing.T) {
	calls := 0
	err := DefaultBackoff().Do(context.Background(), func(_ int) error {
		calls++
		return Permanent(fmt.Errorf("wiki 400"))
	})

	require.Error(t, err)
	assert.Equal(t, "wiki 400", err.Error())
	assert.Equal(t, 1, calls, "permanent error should stop after one call")
}

func TestBackoff_RetryableClassifier(t *testing.T) {
	fatal := errors.New("bad request")
	calls := 0
	b := fastBackoff(5)
	b.Retryable = func(err error) bool { return !errors.Is(err, fatal) }

	err := b.Do(context.Background(), func(_ int) error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestBackoff_MaxAttempts(t *testing.T) {
	calls := 0
	err := fastBackoff(3).Do(context.Background(), func(_ int) error {
		calls++
		return fmt.Errorf("always fails")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (3) exceeded")
	assert.Equal(t, 3, calls)
}

func TestBackoff_ContextCancelled(t *testing.T) {
	b := &Backoff{InitialDelay: 5 * time.Second, MaxAttempts: 100}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := b.Do(ctx, func(_ int) error { return fmt.Errorf("fail") })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBackoff_ZeroConfig(t *testing.T) {
	b := &Backoff{MaxAttempts: 2}
	calls := 0

	start := time.Now()
	_ = b.Do(context.Background(), func(_ int) error {
		calls++
		return fmt.Errorf("fail")
	})

	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond,
		"zero-value backoff should wait the default initial delay")
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))
	assert.True(t, IsPermanent(Permanent(fmt.Errorf("x"))))
	assert.False(t, IsPermanent(fmt.Errorf("x")))
	assert.False(t, IsPermanent(nil))
}

func TestJitter_Range(t *testing.T) {
	d := 100 * time.Millisecond
	lower := time.Duration(float64(d) * 0.74)
	upper := time.Duration(float64(d) * 1.26)
	for i := 0; i < 100; i++ {
		j := addJitter(d)
		if j < lower || j > upper {
			t.Errorf("jitter %v out of expected range [%v, %v]", j, lower, upper)
		}
	}
}
