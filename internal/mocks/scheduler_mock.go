package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eventbot/internal/event"
)

// MockScheduler is a mock implementation of the scheduling backend
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) CreateEvent(ctx context.Context, guildID string, ev event.Valid) error {
	args := m.Called(ctx, guildID, ev)
	return args.Error(0)
}

// MockMirror is a mock implementation of the calendar mirror
type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) MirrorEvent(ctx context.Context, ev event.Valid) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockNotifier is a mock implementation of the publish notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyPublished(ctx context.Context, ev event.Valid) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
