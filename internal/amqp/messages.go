package amqp

import (
	"encoding/json"
	"time"
)

// ReportSyncMessage asks the export worker to refresh the report tab for one
// month. It carries only the month key; the worker loads the ledger itself so
// a stale message can never overwrite newer data.
type ReportSyncMessage struct {
	Month     string    `json:"month"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportSyncMessage creates a sync message for the given month key (YYYY-MM)
func NewReportSyncMessage(month, reason string) *ReportSyncMessage {
	return &ReportSyncMessage{
		Month:     month,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportSyncMessageFromJSON creates a message from JSON bytes
func ReportSyncMessageFromJSON(data []byte) (*ReportSyncMessage, error) {
	var msg ReportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
