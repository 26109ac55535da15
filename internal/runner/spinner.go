package runner

import "time"

// DefaultFrames are the spinner glyphs.
var DefaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a frame cycler advanced explicitly by its owner. The frame
// only changes once more than Delay has passed since the last change.
type Spinner struct {
	frames []string
	delay  time.Duration
	now    func() time.Time
	last   time.Time
	index  int
}

// NewSpinner creates a spinner. A nil now uses time.Now.
func NewSpinner(frames []string, delay time.Duration, now func() time.Time) *Spinner {
	if len(frames) == 0 {
		frames = DefaultFrames
	}
	if now == nil {
		now = time.Now
	}
	return &Spinner{frames: frames, delay: delay, now: now, last: now()}
}

// Next returns the current frame, moving on first if the delay has elapsed.
func (s *Spinner) Next() string {
	if t := s.now(); t.Sub(s.last) > s.delay {
		s.last = t
		s.index = (s.index + 1) % len(s.frames)
	}
	return s.frames[s.index]
}
