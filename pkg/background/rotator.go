package background

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the time between two images if no interval is configured.
const DefaultInterval = 5 * time.Second

// State is the state of a Rotator.
type State int

const (
	Idle State = iota
	Loading
	Displaying
	Stopped
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Displaying:
		return "displaying"
	case Stopped:
		return "stopped"
	}
	return "idle"
}

// Layer is one of the two stacked image layers.
// Exactly one of them is opaque while displaying.
type Layer struct {
	Image  Image
	Opaque bool
}

// Frame is a snapshot of a Rotator.
type Frame struct {
	State  State
	Index  int
	Layers [2]Layer
}

// FetchFunc fetches the images of a background set.
type FetchFunc func(ctx context.Context) ([]Image, error)

// ErrNoImages is returned by Start if the fetched background set is empty.
var ErrNoImages = errors.New("Background set is empty")

// Rotator cycles through a background set with two layers, cross-fading between them.
// The transparent layer always holds the image that's shown next, so there's no blank frame during a transition.
type Rotator struct {
	fetch    FetchFunc
	interval time.Duration
	logger   *zap.Logger

	lock   *sync.Mutex
	state  State
	images []Image
	index  int
	layers [2]Layer

	stop     chan struct{}
	stopOnce *sync.Once
}

// NewRotator creates a new Rotator in the Idle state.
// An interval <= 0 leads to DefaultInterval.
func NewRotator(fetch FetchFunc, interval time.Duration, logger *zap.Logger) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{
		fetch:    fetch,
		interval: interval,
		logger:   logger,
		lock:     &sync.Mutex{},
		stop:     make(chan struct{}),
		stopOnce: &sync.Once{},
	}
}

// Start fetches the background set once and shows its first image.
// On error or an empty set the Rotator goes back to Idle. There are no retries.
func (r *Rotator) Start(ctx context.Context) error {
	r.lock.Lock()
	if r.state != Idle {
		r.lock.Unlock()
		return nil
	}
	r.state = Loading
	r.lock.Unlock()

	images, err := r.fetch(ctx)
	if err == nil && len(images) == 0 {
		err = ErrNoImages
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state == Stopped {
		return nil
	}
	if err != nil {
		r.state = Idle
		return err
	}
	r.images = images
	r.index = 0
	r.layers[0] = Layer{Image: images[0], Opaque: true}
	r.layers[1] = Layer{Image: images[1%len(images)], Opaque: false}
	r.state = Displaying
	return nil
}

// Advance shows the next image: the transparent layer gets the next image and becomes opaque, the other one transparent.
// It's a no-op if the Rotator isn't displaying.
func (r *Rotator) Advance() {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state != Displaying {
		return
	}
	r.index = (r.index + 1) % len(r.images)
	next := 1
	if !r.layers[0].Opaque {
		next = 0
	}
	r.layers[next].Image = r.images[r.index]
	r.layers[next].Opaque = true
	r.layers[1-next].Opaque = false
}

// Frame returns a snapshot of the current state.
func (r *Rotator) Frame() Frame {
	r.lock.Lock()
	defer r.lock.Unlock()
	return Frame{
		State:  r.state,
		Index:  r.index,
		Layers: r.layers,
	}
}

// Run starts the Rotator and advances it every interval, until Stop is called or the context is canceled.
// onFrame is called with the first frame and after every advance. It can be nil.
func (r *Rotator) Run(ctx context.Context, onFrame func(Frame)) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	if r.Frame().State != Displaying {
		return nil
	}
	if onFrame != nil {
		onFrame(r.Frame())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Advance()
			if onFrame != nil {
				onFrame(r.Frame())
			}
		case <-r.stop:
			return nil
		case <-ctx.Done():
			r.Stop()
			return nil
		}
	}
}

// Stop stops the interval timer. The Rotator can't be started again afterwards.
// It's safe to call Stop multiple times.
func (r *Rotator) Stop() {
	r.stopOnce.Do(func() {
		r.lock.Lock()
		r.state = Stopped
		r.lock.Unlock()
		close(r.stop)
		r.logger.Debug("Stopped background rotation")
	})
}
