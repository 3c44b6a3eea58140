package asyncx_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/storefront/pkg/asyncx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSettled_KeepsOrder(t *testing.T) {
	boom := errors.New("redis down")
	results := asyncx.AllSettled(context.Background(),
		func(context.Context) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return "db", nil
		},
		func(context.Context) (string, error) { return "", boom },
	)

	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.Equal(t, "db", results[0].Value)
	assert.ErrorIs(t, results[1].Err, boom)
}

func TestWithTimeout(t *testing.T) {
	v, err := asyncx.WithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = asyncx.WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return 0, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryWithBackoff(t *testing.T) {
	var calls atomic.Int32
	v, err := asyncx.RetryWithBackoff(context.Background(), asyncx.Backoff{Attempts: 3, InitialDelay: time.Millisecond},
		func(context.Context) (string, error) {
			if calls.Add(1) < 3 {
				return "", errors.New("temporary")
			}
			return "sent", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "sent", v)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad address")
	var calls atomic.Int32

	_, err := asyncx.RetryWithBackoff(context.Background(), asyncx.Backoff{
		Attempts:  5,
		Retryable: func(err error) bool { return !errors.Is(err, permanent) },
	}, func(context.Context) (struct{}, error) {
		calls.Add(1)
		return struct{}{}, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRetryWithBackoff_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := asyncx.RetryWithBackoff(ctx, asyncx.Backoff{Attempts: 3}, func(context.Context) (int, error) {
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
