package utils

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out millisecond timestamp ids. Two calls in the same
// millisecond still get distinct, increasing ids.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns the next id as a number.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// NextString returns the next id in decimal form.
func (g *IDGenerator) NextString() string {
	return strconv.FormatInt(g.Next(), 10)
}

// RequestID returns a random id for correlating log lines.
func RequestID() string {
	return uuid.New().String()
}
