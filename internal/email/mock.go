package email

import "context"

// MockSender implements Sender for tests. Sent messages are recorded.
type MockSender struct {
	SendFunc func(ctx context.Context, msg *Message) (string, error)
	Sent     []*Message
}

var _ Sender = (*MockSender)(nil)

func (m *MockSender) Send(ctx context.Context, msg *Message) (string, error) {
	m.Sent = append(m.Sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return "mock-message-id", nil
}
