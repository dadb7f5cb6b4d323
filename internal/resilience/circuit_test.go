package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = eris.New("boom")

func failing(ctx context.Context) (int, error) { return 0, errBoom }

func succeeding(ctx context.Context) (int, error) { return 42, nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{FailureThreshold: 3})

	for i := 0; i < 3; i++ {
		_, err := Call(context.Background(), b, failing)
		require.ErrorIs(t, err, errBoom)
	}

	assert.Equal(t, CircuitOpen, b.State())

	_, err := Call(context.Background(), b, succeeding)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{FailureThreshold: 3})

	for i := 0; i < 2; i++ {
		_, _ = Call(context.Background(), b, failing)
	}
	_, err := Call(context.Background(), b, succeeding)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _ = Call(context.Background(), b, failing)
	}
	assert.Equal(t, CircuitClosed, b.State())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	t.Parallel()

	now := time.Now()
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Second})
	b.nowFunc = func() time.Time { return now }

	_, err := Call(context.Background(), b, failing)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, CircuitOpen, b.State())

	// Before the reset timeout the probe is rejected.
	_, err = Call(context.Background(), b, succeeding)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	// After the timeout a probe is allowed; success closes the circuit.
	now = now.Add(11 * time.Second)
	val, err := Call(context.Background(), b, succeeding)
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, CircuitClosed, b.State())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	t.Parallel()

	now := time.Now()
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Second})
	b.nowFunc = func() time.Time { return now }

	_, _ = Call(context.Background(), b, failing)
	now = now.Add(11 * time.Second)

	_, err := Call(context.Background(), b, failing)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, CircuitOpen, b.State())
}

func TestBreaker_StateChangeCallback(t *testing.T) {
	t.Parallel()

	var transitions []string
	b := NewBreaker(BreakerConfig{
		FailureThreshold: 1,
		OnStateChange: func(from, to CircuitState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_, _ = Call(context.Background(), b, failing)
	b.Reset()

	assert.Equal(t, []string{"closed->open", "open->closed"}, transitions)
}
