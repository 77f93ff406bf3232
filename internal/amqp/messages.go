package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	KindSync   = "sync"
	KindDelete = "delete"
)

// SyncMessage asks the worker to mirror one transaction to the spreadsheet
// export, or to remove it. It carries only the id; the worker reads the full
// record from storage so the queue never holds stale data.
type SyncMessage struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transactionId"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewSyncMessage creates a message requesting an export of the transaction.
func NewSyncMessage(transactionID string) *SyncMessage {
	return &SyncMessage{
		Kind:          KindSync,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// NewDeleteMessage creates a message requesting removal from the export.
func NewDeleteMessage(transactionID string) *SyncMessage {
	return &SyncMessage{
		Kind:          KindDelete,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncMessageFromJSON parses and validates a message from JSON bytes.
func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind != KindSync && msg.Kind != KindDelete {
		return nil, fmt.Errorf("unknown message kind %q", msg.Kind)
	}
	if msg.TransactionID == "" {
		return nil, fmt.Errorf("message missing transaction id")
	}
	return &msg, nil
}
