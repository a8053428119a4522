package mocks

import (
	"time"

	"github.com/zhuravskayyar/cardastica-server/internal/dependencies/clock"
)

var _ clock.Clock = (*MockClock)(nil)

// MockClock is a Clock whose time only moves when a test moves it. Liveness
// is a pure function of the clock, so advancing it past the TTL is how tests
// expire players deterministically.
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock frozen at the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set jumps the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
