package jobxredis_test

import (
	"context"
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

func setup(t *testing.T, opts ...jobxredis.Option) (*jobxredis.RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return jobxredis.NewRedisQueue(rdb, opts...), mr
}

func TestRedisQueue_EnqueueDequeueComplete(t *testing.T) {
	q, mr := setup(t, jobxredis.WithFinishedTTL(time.Hour))
	ctx := context.Background()

	id, err := q.Enqueue(ctx, jobx.Job{Type: "otp.deliver", Queue: "mail", Payload: []byte(`{"email":"a@b.com"}`), MaxRetries: 2})
	require.NoError(t, err)

	job, err := q.Dequeue(ctx, []string{"mail"}, 100*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, jobx.JobStatusActive, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(job.Payload))

	require.NoError(t, q.Complete(ctx, id, nil))

	got, err := q.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, jobx.JobStatusCompleted, got.Status)
	assert.Equal(t, time.Hour, mr.TTL("jobx:job:"+id))
}

func TestRedisQueue_DequeueTimeout(t *testing.T) {
	q, _ := setup(t)

	job, err := q.Dequeue(context.Background(), []string{"mail"}, 50*time.Millisecond)

	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestRedisQueue_FailRetriesUntilBudgetSpent(t *testing.T) {
	q, mr := setup(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, jobx.Job{Type: "otp.deliver", Queue: "mail", MaxRetries: 2})
	require.NoError(t, err)

	_, err = q.Dequeue(ctx, []string{"mail"}, 100*time.Millisecond)
	require.NoError(t, err)
	retry, err := q.Fail(ctx, id, "smtp down")
	require.NoError(t, err)
	assert.True(t, retry)

	require.NoError(t, q.Retry(ctx, id, 0))
	require.NoError(t, q.PromoteScheduled(ctx, []string{"mail"}))

	job, err := q.Dequeue(ctx, []string{"mail"}, 100*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, 2, job.Attempts)

	retry, err = q.Fail(ctx, id, "smtp down")
	require.NoError(t, err)
	assert.False(t, retry)

	got, err := q.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, jobx.JobStatusFailed, got.Status)
	assert.Equal(t, "smtp down", got.Error)
	assert.Positive(t, mr.TTL("jobx:job:"+id))
}

func TestRedisQueue_DelayedJobWaitsForClock(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	q, _ := setup(t, jobxredis.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := q.EnqueueDelayed(ctx, jobx.Job{Type: "t", Queue: "mail", MaxRetries: 1}, time.Minute)
	require.NoError(t, err)

	require.NoError(t, q.PromoteScheduled(ctx, []string{"mail"}))
	job, err := q.Dequeue(ctx, []string{"mail"}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, job)

	now = now.Add(2 * time.Minute)
	require.NoError(t, q.PromoteScheduled(ctx, []string{"mail"}))
	job, err = q.Dequeue(ctx, []string{"mail"}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.NotNil(t, job)
}

func TestRedisQueue_GetJobNotFound(t *testing.T) {
	q, _ := setup(t)

	_, err := q.GetJob(context.Background(), "nope")

	assert.True(t, errx.HasCode(err, jobxredis.ErrNotFound))
}

func TestRedisQueue_EnqueueWhenRedisDown(t *testing.T) {
	q, mr := setup(t)
	mr.Close()

	_, err := q.Enqueue(context.Background(), jobx.Job{Type: "t", Queue: "mail"})

	assert.True(t, errx.HasCode(err, jobxredis.ErrEnqueue))
	assert.True(t, errx.IsType(err, errx.TypeDependency))
}
