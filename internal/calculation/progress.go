package calculation

import "sync"

// Progress is reported at batch start, after every interval of trials and
// at batch end.
type Progress struct {
	Stage     string
	Completed int
	Total     int
}

// Fraction is Completed/Total in [0,1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

// Done reports whether the batch has finished.
func (p Progress) Done() bool { return p.Completed >= p.Total }

// ProgressFunc receives progress updates. Calls are serialised.
type ProgressFunc func(Progress)

// progressTracker counts finished trials and forwards checkpoints.
type progressTracker struct {
	mu        sync.Mutex
	fn        ProgressFunc
	stage     string
	total     int
	completed int
	interval  int
	lastSent  int
}

func newProgressTracker(fn ProgressFunc, stage string, total, interval int) *progressTracker {
	if interval <= 0 {
		interval = total
	}
	return &progressTracker{fn: fn, stage: stage, total: total, interval: interval}
}

func (t *progressTracker) start() {
	if t.fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fn(Progress{Stage: t.stage, Completed: 0, Total: t.total})
}

func (t *progressTracker) add(n int) {
	if t.fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed += n
	if t.completed < t.total && t.completed-t.lastSent >= t.interval {
		t.lastSent = t.completed
		t.fn(Progress{Stage: t.stage, Completed: t.completed, Total: t.total})
	}
}

func (t *progressTracker) finish() {
	if t.fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fn(Progress{Stage: t.stage, Completed: t.total, Total: t.total})
}
