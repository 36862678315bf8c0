// Package storage persists the whole AppData document under a single
// fixed key. Three backends share the contract: an in-process memory
// store, a SQLite documents table, and a Redis key.
package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"edupay/internal/core"
)

// DocumentKey is the fixed namespace the document lives under, shared
// by every backend.
const DocumentKey = "edupay_data_v1"

// Store is the persistent store collaborator. Load returns the
// zero-value default document when nothing has been saved yet; Save
// resynchronizes the whole document after every mutation.
type Store interface {
	Load(ctx context.Context) (core.AppData, error)
	Save(ctx context.Context, data core.AppData) error
	Close() error
}

// decodeDocument unmarshals a stored document, merging onto defaults
// so fields added after the data was written come back zero-valued
// rather than missing. Corrupt JSON is recovered locally: the default
// document is returned and the corruption only surfaces as a log line.
func decodeDocument(ctx context.Context, raw []byte) core.AppData {
	data := core.DefaultData()
	if len(raw) == 0 {
		return data
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.WarnContext(ctx, "Stored document is corrupt, falling back to defaults",
			"key", DocumentKey, "error", err)
		return core.DefaultData()
	}
	if data.Students == nil {
		data.Students = []core.Student{}
	}
	if data.Payments == nil {
		data.Payments = []core.Payment{}
	}
	if data.SheetNo == 0 {
		data.SheetNo = core.MinSheetNo
	}
	return data
}

func encodeDocument(data core.AppData) ([]byte, error) {
	return json.Marshal(data)
}
