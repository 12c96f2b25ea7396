// Package loader runs the background goroutine that decodes requested images and hands
// them back to the gallery through a bounded result queue.
package loader

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"gallerywall/internal/decode"
	"gallerywall/internal/queue"
)

// TargetAuto lets the gallery pick the cell for a result. Non-negative targets are cell indices.
const TargetAuto = -1

// Request asks for one image to be decoded. When Data is set it is decoded instead of
// reading Path from disk.
type Request struct {
	Path   string
	Data   []byte
	Target int
}

// Result is a decoded image ready to be inserted into the texture cache.
type Result struct {
	Path   string
	Target int
	Image  image.Image
	Info   *decode.Info
}

// ImageDecoder is the decoding backend used by the loader.
type ImageDecoder interface {
	DecodeFile(path string) (image.Image, *decode.Info, error)
	DecodeBytes(name string, data []byte) (image.Image, *decode.Info, error)
}

// Stats counts loader outcomes.
type Stats struct {
	Decoded uint64
	Failed  uint64
}

// Loader owns the single decode goroutine of a gallery.
type Loader struct {
	requests *queue.Queue[Request]
	results  *queue.Queue[Result]
	decoder  ImageDecoder
	log      logrus.FieldLogger

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	decoded atomic.Uint64
	failed  atomic.Uint64
}

// New creates a loader popping from requests and pushing to results.
func New(requests *queue.Queue[Request], results *queue.Queue[Result], decoder ImageDecoder, log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		requests: requests,
		results:  results,
		decoder:  decoder,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start launches the decode goroutine. Calling Start more than once has no effect.
func (l *Loader) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		ctx, l.cancel = context.WithCancel(ctx)
		go l.run(ctx)
	})
}

// Stop asks the goroutine to exit and waits for it. A decode in progress always completes first.
func (l *Loader) Stop() {
	l.stopOnce.Do(func() {
		l.startOnce.Do(func() {}) // a loader that was never started has nothing to wait for
		if l.cancel != nil {
			l.cancel()
			<-l.done
		}
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)
	l.log.Debug("loader started")
	for {
		req, err := l.requests.Pop(ctx)
		if err != nil {
			l.log.Debug("loader stopped")
			return
		}
		res, err := l.load(req)
		if err != nil {
			l.failed.Add(1)
			l.log.WithError(err).WithField("path", req.Path).Warn("failed to load image")
			continue
		}
		l.decoded.Add(1)
		if err := l.results.Push(ctx, res); err != nil {
			if !errors.Is(err, context.Canceled) {
				l.log.WithError(err).Warn("dropping decoded image")
			}
			return
		}
	}
}

func (l *Loader) load(req Request) (Result, error) {
	var (
		img  image.Image
		info *decode.Info
		err  error
	)
	if req.Data != nil {
		img, info, err = l.decoder.DecodeBytes(req.Path, req.Data)
	} else {
		img, info, err = l.decoder.DecodeFile(req.Path)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Path: req.Path, Target: req.Target, Image: img, Info: info}, nil
}

// Stats returns a snapshot of the loader counters.
func (l *Loader) Stats() Stats {
	return Stats{Decoded: l.decoded.Load(), Failed: l.failed.Load()}
}
