package engine

import "time"

// idGenerator issues strictly increasing entry ids. An id is the
// wall-clock UnixMilli at creation, clamped so a fresh id is never less
// than or equal to the last one issued. Two entries created within the
// same clock tick, or a clock stepping backwards, can never collide.
// The engine's mutex serializes all access.
type idGenerator struct {
	last int64
	now  func() time.Time
}

func newIDGenerator() *idGenerator {
	return &idGenerator{now: time.Now}
}

// Next returns a fresh id strictly greater than every id issued or seeded
// before it.
func (g *idGenerator) Next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Seed raises the floor so restored entries keep their persisted ids and
// newly created entries can never reuse one of them.
func (g *idGenerator) Seed(id int64) {
	if id > g.last {
		g.last = id
	}
}
