package mocks

import (
	"sync"

	"github.com/you/accountsvc/domain"
)

// SentMessage records a single Send call
type SentMessage struct {
	Recipient string
	Subject   string
	TextBody  string
	HTMLBody  string
	Priority  domain.NotificationPriority
}

// MockNotificationService implements domain.NotificationService for testing.
// Sends are recorded so tests can assert on dispatched messages; Sent is
// mutex-guarded because real dispatch happens off the request goroutine.
type MockNotificationService struct {
	SendFunc func(recipient, subject, textBody, htmlBody string, priority domain.NotificationPriority) error

	mu   sync.Mutex
	sent []SentMessage
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// Send records the message and delegates to SendFunc when set
func (m *MockNotificationService) Send(recipient, subject, textBody, htmlBody string, priority domain.NotificationPriority) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{
		Recipient: recipient,
		Subject:   subject,
		TextBody:  textBody,
		HTMLBody:  htmlBody,
		Priority:  priority,
	})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(recipient, subject, textBody, htmlBody, priority)
	}
	// Default behavior: success
	return nil
}

// Sent returns a copy of the recorded messages
func (m *MockNotificationService) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
