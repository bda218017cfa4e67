package gallery

import "github.com/elhabassi/portfolio-api/internal/domain/catalog"

// EventType identifies a committed catalog mutation
type EventType string

const (
	EventPhotoUploaded   EventType = "photo_uploaded"
	EventPhotoDeleted    EventType = "photo_deleted"
	EventBuiltinsCleared EventType = "builtins_cleared"
	EventPhotoPurchased  EventType = "photo_purchased"
	EventLanguageChanged EventType = "language_changed"
	EventAdminChanged    EventType = "admin_changed"
)

// Event is pushed to subscribers after a mutation has been persisted and
// committed. Consumers holding a selected-photo reference must drop it when a
// matching photo_deleted event arrives.
type Event struct {
	Type     EventType        `json:"type"`
	PhotoID  string           `json:"photo_id,omitempty"`
	Photo    *catalog.Photo   `json:"photo,omitempty"`
	Language catalog.Language `json:"language,omitempty"`
	Admin    *bool            `json:"admin,omitempty"`
}
