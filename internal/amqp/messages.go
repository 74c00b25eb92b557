package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage announces that a mutation was committed. It carries
// only the revision and entry count; consumers read the full ledger from
// the shared store, so a lost message is recovered by the next one.
type LedgerChangedMessage struct {
	Revision   int64     `json:"revision"`
	EntryCount int       `json:"entryCount"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage creates a change message for the given revision
func NewLedgerChangedMessage(revision int64, entryCount int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Revision:   revision,
		EntryCount: entryCount,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
