package loader

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/quakewatch/internal/models"
	"github.com/thesavant42/quakewatch/internal/observability"
)

type fakeFetcher struct {
	quakes []models.Earthquake
	block  bool // wait for ctx cancellation before returning
	calls  atomic.Int32
	gotCtx chan context.Context
}

func (f *fakeFetcher) FetchEarthquakes(ctx context.Context, rawURL string) []models.Earthquake {
	f.calls.Add(1)
	if f.gotCtx != nil {
		f.gotCtx <- ctx
	}
	if f.block {
		<-ctx.Done()
		return nil
	}
	return f.quakes
}

var reno = models.Earthquake{Magnitude: 4.5, Location: "10km SE of Reno", Time: 1583020800000, URL: "https://example.com/1"}

func waitWithTimeout(t *testing.T, task *Task) (Result, bool) {
	t.Helper()
	type out struct {
		res Result
		ok  bool
	}
	ch := make(chan out, 1)
	go func() {
		res, ok := task.Wait()
		ch <- out{res, ok}
	}()
	select {
	case o := <-ch:
		return o.res, o.ok
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
		return Result{}, false
	}
}

func TestStart_DeliversResult(t *testing.T) {
	f := &fakeFetcher{quakes: []models.Earthquake{reno}}
	l := New(f, nil, nil)

	res, ok := waitWithTimeout(t, l.Start(context.Background(), "https://example.com/query"))
	require.True(t, ok)
	assert.False(t, res.Absent())
	assert.Equal(t, []models.Earthquake{reno}, res.Earthquakes)
	assert.Equal(t, "https://example.com/query", res.URL)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestStart_EmptyURLIsAbsent(t *testing.T) {
	f := &fakeFetcher{quakes: []models.Earthquake{reno}}
	l := New(f, nil, nil)

	res, ok := waitWithTimeout(t, l.Start(context.Background(), ""))
	require.True(t, ok)
	assert.True(t, res.Absent())
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestStart_EmptyButPresent(t *testing.T) {
	f := &fakeFetcher{quakes: []models.Earthquake{}}
	res, ok := waitWithTimeout(t, New(f, nil, nil).Start(context.Background(), "https://example.com"))
	require.True(t, ok)
	assert.False(t, res.Absent())
	assert.Empty(t, res.Earthquakes)
}

func TestCancel_BeforeCompletion(t *testing.T) {
	f := &fakeFetcher{block: true, gotCtx: make(chan context.Context, 1)}
	task := New(f, nil, nil).Start(context.Background(), "https://example.com")

	fetchCtx := <-f.gotCtx
	task.Cancel()

	_, ok := waitWithTimeout(t, task)
	assert.False(t, ok)
	assert.True(t, task.Cancelled())

	select {
	case <-fetchCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("fetch context was not cancelled")
	}
}

func TestCancel_AfterCompletionDropsResult(t *testing.T) {
	f := &fakeFetcher{quakes: []models.Earthquake{reno}, gotCtx: make(chan context.Context, 1)}
	task := New(f, nil, nil).Start(context.Background(), "https://example.com")
	<-f.gotCtx

	// Give the goroutine time to push the result into the buffer
	require.Eventually(t, func() bool { return len(task.done) == 1 }, time.Second, time.Millisecond)

	task.Cancel()
	_, ok := waitWithTimeout(t, task)
	assert.False(t, ok)
}

func TestCancel_Idempotent(t *testing.T) {
	m := observability.NewMetricsForTesting()
	task := New(&fakeFetcher{}, nil, m).Start(context.Background(), "")

	task.Cancel()
	task.Cancel()
	task.Cancel()

	var metric dto.Metric
	require.NoError(t, m.LoadsCancelled.Write(&metric))
	assert.Equal(t, 1.0, metric.GetCounter().GetValue())
}

func TestStart_ParentContextCancel(t *testing.T) {
	f := &fakeFetcher{block: true}
	ctx, cancel := context.WithCancel(context.Background())
	task := New(f, nil, nil).Start(ctx, "https://example.com")

	cancel()
	_, ok := waitWithTimeout(t, task)
	assert.False(t, ok)
}

func TestStart_ParentCancelAfterResultBuffered(t *testing.T) {
	// The result is already waiting when the parent goes away; both select
	// cases are ready, so repeat to exercise either choice.
	for i := 0; i < 200; i++ {
		f := &fakeFetcher{quakes: []models.Earthquake{reno}}
		ctx, cancel := context.WithCancel(context.Background())
		task := New(f, nil, nil).Start(ctx, "https://example.com")
		require.Eventually(t, func() bool { return len(task.done) == 1 }, time.Second, time.Millisecond)

		cancel()
		res, ok := waitWithTimeout(t, task)
		require.False(t, ok, "iteration %d", i)
		require.Nil(t, res.Earthquakes)
	}
}

func TestWait_ReleasesContextAfterDelivery(t *testing.T) {
	f := &fakeFetcher{quakes: []models.Earthquake{reno}, gotCtx: make(chan context.Context, 1)}
	task := New(f, nil, nil).Start(context.Background(), "https://example.com")
	fetchCtx := <-f.gotCtx

	_, ok := waitWithTimeout(t, task)
	require.True(t, ok)
	assert.Error(t, fetchCtx.Err())
	assert.False(t, task.Cancelled())
}

func TestWait_SecondCallReturnsFalse(t *testing.T) {
	task := New(&fakeFetcher{quakes: []models.Earthquake{reno}}, nil, nil).Start(context.Background(), "https://example.com")

	res, ok := waitWithTimeout(t, task)
	require.True(t, ok)
	assert.Len(t, res.Earthquakes, 1)

	res, ok = waitWithTimeout(t, task)
	assert.False(t, ok)
	assert.Nil(t, res.Earthquakes)
}

func TestStart_IndependentCycles(t *testing.T) {
	f := &fakeFetcher{quakes: []models.Earthquake{reno}}
	m := observability.NewMetricsForTesting()
	l := New(f, nil, m)

	first := l.Start(context.Background(), "https://example.com/a")
	second := l.Start(context.Background(), "https://example.com/b")
	first.Cancel()

	res, ok := waitWithTimeout(t, second)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/b", res.URL)

	var metric dto.Metric
	require.NoError(t, m.LoadCycles.Write(&metric))
	assert.Equal(t, 2.0, metric.GetCounter().GetValue())
}
