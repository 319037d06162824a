package communication

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATS subjects for downstream consumers (indexers, bots, dashboards).
const (
	SubjectTokens = "agentpump.tokens"
	SubjectTrades = "agentpump.trades"
)

// Messenger encapsulates a NATS connection.
type Messenger struct {
	NC *nats.Conn
}

// NewMessenger creates a new instance of Messenger.
func NewMessenger(url string) (*Messenger, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Messenger{NC: nc}, nil
}

// PublishGlobal publishes a message to a global subject.
func (m *Messenger) PublishGlobal(subject string, message []byte) error {
	return m.NC.Publish(subject, message)
}

// PublishPrivate sends a message directly to a specific agent.
func (m *Messenger) PublishPrivate(agentID string, message []byte) error {
	subject := fmt.Sprintf("agent.%s.private", agentID)
	return m.NC.Publish(subject, message)
}

// SubscribeGlobal subscribes to a global topic.
func (m *Messenger) SubscribeGlobal(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	return m.NC.Subscribe(subject, handler)
}

// SubscribePrivate subscribes to private messages for an agent.
func (m *Messenger) SubscribePrivate(agentID string, handler nats.MsgHandler) (*nats.Subscription, error) {
	subject := fmt.Sprintf("agent.%s.private", agentID)
	return m.NC.Subscribe(subject, handler)
}

// Close drains the connection.
func (m *Messenger) Close() {
	if m.NC != nil {
		m.NC.Close()
	}
}
