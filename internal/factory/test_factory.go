package factory

import (
	"time"

	"github.com/zhuravskayyar/cardastica-server/internal/dependencies/mocks"
	"github.com/zhuravskayyar/cardastica-server/internal/gateway"
	"github.com/zhuravskayyar/cardastica-server/internal/services/presence"
	"github.com/zhuravskayyar/cardastica-server/internal/storage/memory"
	"github.com/zhuravskayyar/cardastica-server/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// MockClock drives TTL expiry in tests
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with a mocked clock and
// in-memory storage
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, presence.DefaultConfig(), gateway.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
