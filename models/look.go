package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SavedLook is a durable favorite: a source image, the selection that
// produced it and the generated result. Created on explicit save, deleted on
// explicit delete, otherwise immutable.
type SavedLook struct {
	ID          string            `bson:"_id" json:"id"`
	UserID      string            `bson:"user_id" json:"user_id"`
	ResultURL   string            `bson:"result_url" json:"result_url"`
	OriginalURL string            `bson:"original_url" json:"original_url"`
	Selections  CurrentSelection  `bson:"selections" json:"selections"`
	Thumbnails  map[string]string `bson:"thumbnails,omitempty" json:"thumbnails,omitempty"`
	Timestamp   int64             `bson:"timestamp" json:"timestamp"` // unix millis, list sort key
	Gender      Gender            `bson:"gender" json:"gender"`
}

// NewLookID derives a look id from the creation time plus a random suffix.
// The time alone is not unique here: unlike a per-browser store, one server
// saves for many users, and a same-millisecond collision would silently
// overwrite another user's record.
func NewLookID(t time.Time) string {
	return fmt.Sprintf("look_%d_%s", t.UnixMilli(), uuid.NewString()[:8])
}
