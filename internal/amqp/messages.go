package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage announces that a ledger row was committed locally.
// It carries only the entity name and id; the worker fetches the full row
// from the local store before mirroring it.
type LedgerEventMessage struct {
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(entity, id string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Entity:    entity,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
