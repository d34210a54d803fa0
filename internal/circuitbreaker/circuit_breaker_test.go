package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBoom = errors.New("boom")

func testConfig() Config {
	return Config{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          50 * time.Millisecond,
		FailureThreshold: 3,
		SuccessThreshold: 1,
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("test-open", testConfig(), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := b.Execute(ctx, func() error { return errBoom })
		require.ErrorIs(t, err, errBoom)
	}
	assert.Equal(t, StateOpen, b.State())

	err := b.Execute(ctx, func() error { return nil })
	assert.ErrorIs(t, err, ErrOpen)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := New("test-recover", testConfig(), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, func() error { return errBoom })
	}
	require.Equal(t, StateOpen, b.State())

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Execute(ctx, func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := New("test-reopen", testConfig(), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, func() error { return errBoom })
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	_ = b.Execute(ctx, func() error { return errBoom })
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerSuccessResetsFailureStreak(t *testing.T) {
	b := New("test-streak", testConfig(), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_ = b.Execute(ctx, func() error { return errBoom })
	}
	require.NoError(t, b.Execute(ctx, func() error { return nil }))

	for i := 0; i < 2; i++ {
		_ = b.Execute(ctx, func() error { return errBoom })
	}
	assert.Equal(t, StateClosed, b.State())
}
