package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MockTransport simulates the chat platform for testing: an in-memory channel
// of messages with reply links, editable and deletable by ID.
type MockTransport struct {
	mu       sync.Mutex
	nextID   int
	messages map[string]*MockMessage
	order    []string

	failSend   bool
	failEdit   bool
	failDelete bool
}

// MockMessage represents a chat message in the mock
type MockMessage struct {
	ID          string
	ChannelID   string
	Content     string
	ReplyTo     string
	HasControls bool
	Deleted     bool
	Edits       int
}

// NewMockTransport creates a new mock chat transport
func NewMockTransport() *MockTransport {
	return &MockTransport{messages: map[string]*MockMessage{}}
}

// Seed inserts a pre-existing message and returns its ID.
func (m *MockTransport) Seed(channelID, replyTo, content string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add(channelID, replyTo, content, false)
}

func (m *MockTransport) add(channelID, replyTo, content string, controls bool) string {
	m.nextID++
	id := fmt.Sprintf("msg-%d", m.nextID)
	m.messages[id] = &MockMessage{
		ID:          id,
		ChannelID:   channelID,
		Content:     content,
		ReplyTo:     replyTo,
		HasControls: controls,
	}
	m.order = append(m.order, id)
	return id
}

// SetFailSend makes Send, Reply and ReplyDraft fail
func (m *MockTransport) SetFailSend(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSend = fail
}

// SetFailEdit makes Edit fail
func (m *MockTransport) SetFailEdit(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failEdit = fail
}

// SetFailDelete makes Delete fail
func (m *MockTransport) SetFailDelete(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDelete = fail
}

// Send posts a plain channel message
func (m *MockTransport) Send(ctx context.Context, channelID, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return "", fmt.Errorf("send failed")
	}
	return m.add(channelID, "", content, false), nil
}

// Reply posts a message replying to another
func (m *MockTransport) Reply(ctx context.Context, channelID, replyToID, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return "", fmt.Errorf("reply failed")
	}
	return m.add(channelID, replyToID, content, false), nil
}

// ReplyDraft posts a reply carrying draft action controls
func (m *MockTransport) ReplyDraft(ctx context.Context, channelID, replyToID, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return "", fmt.Errorf("reply failed")
	}
	return m.add(channelID, replyToID, content, true), nil
}

// Edit replaces a message body in place
func (m *MockTransport) Edit(ctx context.Context, channelID, messageID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEdit {
		return fmt.Errorf("edit failed")
	}
	msg, ok := m.messages[messageID]
	if !ok || msg.Deleted {
		return fmt.Errorf("message not found: %s", messageID)
	}
	msg.Content = content
	msg.Edits++
	return nil
}

// Delete removes a message
func (m *MockTransport) Delete(ctx context.Context, channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete {
		return fmt.Errorf("delete failed")
	}
	msg, ok := m.messages[messageID]
	if !ok || msg.Deleted {
		return fmt.Errorf("message not found: %s", messageID)
	}
	msg.Deleted = true
	return nil
}

// Parent returns the message the given message replies to
func (m *MockTransport) Parent(ctx context.Context, channelID, messageID string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[messageID]
	if !ok || msg.Deleted {
		return "", "", fmt.Errorf("message not found: %s", messageID)
	}
	if msg.ReplyTo == "" {
		return "", "", nil
	}
	parent, ok := m.messages[msg.ReplyTo]
	if !ok || parent.Deleted {
		return "", "", nil
	}
	return parent.ID, parent.Content, nil
}

// Message returns a message by ID, deleted or not
func (m *MockTransport) Message(id string) *MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		copied := *msg
		return &copied
	}
	return nil
}

// Live returns all non-deleted messages in post order
func (m *MockTransport) Live() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockMessage
	for _, id := range m.order {
		if msg := m.messages[id]; !msg.Deleted {
			out = append(out, *msg)
		}
	}
	return out
}
