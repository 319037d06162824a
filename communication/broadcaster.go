package communication

import (
	"encoding/json"
	"log"

	"github.com/ayazwx/agent-pump/core"
)

// Broadcaster turns ledger events into websocket broadcasts and NATS
// messages. A nil Messenger means websocket only.
type Broadcaster struct {
	Messenger *Messenger
}

func NewBroadcaster(m *Messenger) *Broadcaster {
	return &Broadcaster{Messenger: m}
}

func (b *Broadcaster) TokenCreated(token core.Token) {
	BroadcastEvent(EventTokenCreated, token)
	b.publish(SubjectTokens, token)
}

func (b *Broadcaster) TradeExecuted(trade core.Trade, token core.Token) {
	BroadcastEvent(EventTradeExecuted, map[string]interface{}{
		"trade": trade,
		"token": token,
	})
	b.publish(SubjectTrades, trade)
}

func (b *Broadcaster) TokenGraduated(token core.Token) {
	log.Printf("🎓 %s (%s) graduated at market cap %s", token.Name, token.Ticker, token.MarketCap.StringFixed(0))
	BroadcastEvent(EventTokenGraduated, token)
	b.publish(SubjectTokens, token)
}

func (b *Broadcaster) AgentRegistered(agent core.Agent) {
	BroadcastEvent(EventAgentRegistered, agent)
}

func (b *Broadcaster) publish(subject string, v interface{}) {
	if b.Messenger == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshal %s event: %v", subject, err)
		return
	}
	if err := b.Messenger.PublishGlobal(subject, data); err != nil {
		log.Printf("publish %s: %v", subject, err)
	}
}
