package amqp

import (
	"encoding/json"

	"github.com/dukerupert/cointrack/internal/events"
)

// LedgerMessage is the body published for every ledger or membership event.
type LedgerMessage struct {
	Version int          `json:"version"`
	Event   events.Event `json:"event"`
}

const messageVersion = 1

func NewLedgerMessage(e events.Event) *LedgerMessage {
	return &LedgerMessage{Version: messageVersion, Event: e}
}

func (m *LedgerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerMessageFromJSON(data []byte) (*LedgerMessage, error) {
	var m LedgerMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
