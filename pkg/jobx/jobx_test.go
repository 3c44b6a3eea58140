package jobx_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/jobx"
	"github.com/Abraxas-365/storefront/pkg/jobx/jobxredis"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deliverPayload struct {
	Email string `json:"email"`
}

func newClient(t *testing.T, opts ...jobx.WorkerOption) *jobx.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	opts = append([]jobx.WorkerOption{
		jobx.WithQueues("mail"),
		jobx.WithPollInterval(10 * time.Millisecond),
		jobx.WithDequeueTimeout(20 * time.Millisecond),
		jobx.WithDefaultRetryDelay(0),
		jobx.WithShutdownTimeout(time.Second),
	}, opts...)
	return jobx.NewClient(jobxredis.NewRedisQueue(rdb), opts...)
}

func TestClient_ProcessesJob(t *testing.T) {
	client := newClient(t)

	got := make(chan string, 1)
	client.Register("otp.deliver", func(_ context.Context, job *jobx.JobInfo) error {
		p, err := jobx.DecodePayload[deliverPayload](job)
		if err != nil {
			return err
		}
		got <- p.Email
		return nil
	})

	job, err := jobx.NewJob("otp.deliver", "", deliverPayload{Email: "ana@shop.com"})
	require.NoError(t, err)
	id, err := client.Enqueue(context.Background(), job)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	select {
	case email := <-got:
		assert.Equal(t, "ana@shop.com", email)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}

	assert.Eventually(t, func() bool {
		info, err := client.GetJob(context.Background(), id)
		return err == nil && info.Status == jobx.JobStatusCompleted
	}, time.Second, 10*time.Millisecond)
}

func TestClient_RetriesThenFails(t *testing.T) {
	client := newClient(t, jobx.WithMaxRetries(3))

	var calls atomic.Int32
	client.Register("flaky", func(context.Context, *jobx.JobInfo) error {
		calls.Add(1)
		return errors.New("smtp down")
	})

	id, err := client.Enqueue(context.Background(), jobx.Job{Type: "flaky"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	// Retries are scored in whole seconds, so allow for the promotion lag.
	assert.Eventually(t, func() bool {
		info, err := client.GetJob(context.Background(), id)
		return err == nil && info.Status == jobx.JobStatusFailed
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_RecoversHandlerPanic(t *testing.T) {
	client := newClient(t, jobx.WithMaxRetries(1))
	client.Register("boom", func(context.Context, *jobx.JobInfo) error { panic("nil map") })

	id, err := client.Enqueue(context.Background(), jobx.Job{Type: "boom"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	assert.Eventually(t, func() bool {
		info, err := client.GetJob(context.Background(), id)
		return err == nil && info.Status == jobx.JobStatusFailed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClient_EnqueueRequiresType(t *testing.T) {
	client := newClient(t)

	_, err := client.Enqueue(context.Background(), jobx.Job{})

	assert.True(t, errx.HasCode(err, jobx.CodeInvalidJob))
}

func TestClient_StartTwice(t *testing.T) {
	client := newClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	require.Eventually(t, client.Running, time.Second, 10*time.Millisecond)

	err := client.Start(ctx)
	assert.True(t, errx.HasCode(err, jobx.CodeAlreadyRunning))
}
