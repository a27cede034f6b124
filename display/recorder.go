package display

import "github.com/pthm-cable/lavafield/renderer"

// Recorder is an in-memory device. It keeps copies of the last Limit frames
// and replays queued events, one set per Poll.
type Recorder struct {
	Limit int // Frames kept (0 = keep none, only count)

	frames    []*renderer.Frame
	presented int
	queue     []Events
	closed    bool
}

// NewRecorder creates a recorder keeping up to limit frames.
func NewRecorder(limit int) *Recorder {
	return &Recorder{Limit: limit}
}

// Present stores a copy of the frame.
func (r *Recorder) Present(f *renderer.Frame) error {
	r.presented++
	if r.Limit <= 0 {
		return nil
	}
	var cp *renderer.Frame
	if len(r.frames) >= r.Limit {
		// Recycle the oldest copy
		cp = r.frames[0]
		copy(r.frames, r.frames[1:])
		r.frames = r.frames[:len(r.frames)-1]
	}
	if cp == nil || cp.W != f.W || cp.H != f.H {
		cp = renderer.NewFrame(f.W, f.H)
	}
	cp.CopyFrom(f)
	r.frames = append(r.frames, cp)
	return nil
}

// Queue schedules events for subsequent Polls.
func (r *Recorder) Queue(ev ...Events) {
	r.queue = append(r.queue, ev...)
}

// Poll returns the next queued events, if any.
func (r *Recorder) Poll() Events {
	if len(r.queue) == 0 {
		return Events{}
	}
	ev := r.queue[0]
	r.queue = r.queue[1:]
	return ev
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.closed = true
	return nil
}

// Frames returns the kept frames, oldest first.
func (r *Recorder) Frames() []*renderer.Frame { return r.frames }

// Last returns the most recent kept frame, or nil.
func (r *Recorder) Last() *renderer.Frame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// Presented returns how many frames were presented.
func (r *Recorder) Presented() int { return r.presented }

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool { return r.closed }
