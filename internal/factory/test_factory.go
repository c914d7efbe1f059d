package factory

import (
	"time"

	"github.com/mcoot/dominoes-go/internal/config"
	"github.com/mcoot/dominoes-go/internal/dependencies/mocks"
	"github.com/mcoot/dominoes-go/internal/services/auth"
	"github.com/mcoot/dominoes-go/internal/storage/memory"
	"github.com/mcoot/dominoes-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The mock random source deals the same hands every time.
func NewTestApp() *TestApp {
	return NewTestAppWithRules(config.DefaultConfig().Rules)
}

// NewTestAppWithRules is NewTestApp with custom rule settings
func NewTestAppWithRules(rules config.RulesConfig) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), rules, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
