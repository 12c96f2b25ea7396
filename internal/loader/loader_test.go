package loader

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallerywall/internal/decode"
	"gallerywall/internal/queue"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))))
	return buf.Bytes()
}

func popResult(t *testing.T, q *queue.Queue[Result]) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := q.Pop(ctx)
	require.NoError(t, err, "no result within the deadline")
	return res
}

func newLoader(t *testing.T) (*Loader, *queue.Queue[Request], *queue.Queue[Result], *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	requests := queue.New[Request](queue.DefaultCapacity)
	results := queue.New[Result](queue.DefaultCapacity)
	l := New(requests, results, decode.NewDecoder(0), log)
	l.Start(context.Background())
	t.Cleanup(l.Stop)
	return l, requests, results, hook
}

func TestFailureDoesNotBlockNextRequest(t *testing.T) {
	l, requests, results, hook := newLoader(t)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	good := filepath.Join(dir, "good.png")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(good, pngBytes(t), 0o644))

	require.True(t, requests.TryPush(Request{Path: bad, Target: TargetAuto}))
	require.True(t, requests.TryPush(Request{Path: good, Target: 4}))

	res := popResult(t, results)
	assert.Equal(t, good, res.Path)
	assert.Equal(t, 4, res.Target)
	assert.Equal(t, image.Rect(0, 0, 3, 2), res.Image.Bounds())

	assert.Equal(t, Stats{Decoded: 1, Failed: 1}, l.Stats())
	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["path"] == bad {
			warned = true
		}
	}
	assert.True(t, warned, "decode failure should be logged with its path")
}

func TestDecodesInMemoryData(t *testing.T) {
	_, requests, results, _ := newLoader(t)
	require.True(t, requests.TryPush(Request{Path: "camera", Data: pngBytes(t), Target: 7}))

	res := popResult(t, results)
	assert.Equal(t, "camera", res.Path)
	assert.Equal(t, 7, res.Target)
	require.NotNil(t, res.Info)
	assert.Equal(t, "png", res.Info.Format)
}

func TestResultsKeepDequeueOrder(t *testing.T) {
	_, requests, results, _ := newLoader(t)
	data := pngBytes(t)
	for _, name := range []string{"a", "b", "c"} {
		require.True(t, requests.TryPush(Request{Path: name, Data: data, Target: TargetAuto}))
	}
	for _, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, popResult(t, results).Path)
	}
}

func TestStopIsIdempotentAndJoins(t *testing.T) {
	requests := queue.New[Request](1)
	results := queue.New[Result](1)
	l := New(requests, results, decode.NewDecoder(0), nil)
	l.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		l.Stop()
		l.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestStopWithoutStart(t *testing.T) {
	l := New(queue.New[Request](1), queue.New[Result](1), decode.NewDecoder(0), nil)
	l.Stop()
	l.Start(context.Background()) // no goroutine is launched after Stop
	l.Stop()
}

func TestStopUnblocksFullResultQueue(t *testing.T) {
	requests := queue.New[Request](4)
	results := queue.New[Result](1)
	l := New(requests, results, decode.NewDecoder(0), nil)
	data := pngBytes(t)
	for i := 0; i < 3; i++ {
		require.True(t, requests.TryPush(Request{Path: "x", Data: data, Target: TargetAuto}))
	}
	l.Start(context.Background())

	require.Eventually(t, func() bool { return results.Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		l.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked on a full result queue")
	}
}
