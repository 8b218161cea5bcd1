package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"eventbot/internal/event"
)

// MockCompleter is a mock implementation of the completion service
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CreateEvent(ctx context.Context, text string, now time.Time) (event.Record, error) {
	args := m.Called(ctx, text, now)
	return args.Get(0).(event.Record), args.Error(1)
}

func (m *MockCompleter) EditEvent(ctx context.Context, current event.Record, instruction string, now time.Time) (event.Record, error) {
	args := m.Called(ctx, current, instruction, now)
	return args.Get(0).(event.Record), args.Error(1)
}
