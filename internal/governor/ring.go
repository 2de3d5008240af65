package governor

import "github.com/arbiterhq/arbiter/internal/model"

// decisionRing is a fixed-capacity FIFO of decisions. Once full, each
// push evicts the oldest entry.
type decisionRing struct {
	buf   []model.Decision
	start int
	n     int
}

func newDecisionRing(capacity int) *decisionRing {
	return &decisionRing{buf: make([]model.Decision, capacity)}
}

func (r *decisionRing) push(d model.Decision) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = d
		r.n++
		return
	}
	r.buf[r.start] = d
	r.start = (r.start + 1) % len(r.buf)
}

func (r *decisionRing) len() int { return r.n }

// items returns the retained decisions oldest-first.
func (r *decisionRing) items() []model.Decision {
	out := make([]model.Decision, 0, r.n)
	for i := 0; i < r.n; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

// tail returns the most recent n decisions oldest-first.
func (r *decisionRing) tail(n int) []model.Decision {
	if n <= 0 || n > r.n {
		n = r.n
	}
	out := make([]model.Decision, 0, n)
	for i := r.n - n; i < r.n; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}
