package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/elhabassi/portfolio-api/internal/domain/catalog"
	"github.com/elhabassi/portfolio-api/internal/pkg/kvstore"
)

// Storage keys for the persisted collections. The names are carried over from
// the first release so existing data keeps working.
const (
	keyCustomPhotos    = "el_habassi_custom_photos"
	keyDeletedDefaults = "el_habassi_deleted_defaults"
	keyPurchases       = "el_habassi_purchases"
	keyAdminAuth       = "el_habassi_admin_auth"
	keyLanguage        = "el_habassi_lang"
)

// Store owns the five persisted collections and is the only write surface for
// them. Every mutation follows the same discipline: compute the new value,
// persist it, and only then commit it in memory. A failed write leaves the
// previous state intact. Subscribers are notified after each commit.
type Store struct {
	mu sync.RWMutex
	kv kvstore.KV

	custom    []catalog.Photo
	deleted   map[string]struct{}
	purchased map[string]struct{}
	admin     bool
	lang      catalog.Language

	subs map[chan Event]struct{}
}

// NewStore creates a store over the given key-value backend. Call Hydrate
// before serving.
func NewStore(kv kvstore.KV) *Store {
	return &Store{
		kv:        kv,
		deleted:   make(map[string]struct{}),
		purchased: make(map[string]struct{}),
		lang:      catalog.DefaultLanguage,
		subs:      make(map[chan Event]struct{}),
	}
}

// Hydrate reads each persisted collection independently. A missing key
// hydrates to the collection's empty default; a corrupted value is dropped
// with a warning and never aborts hydration of the other collections.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.custom = s.loadCustomPhotos(ctx)
	s.deleted = s.loadIDSet(ctx, keyDeletedDefaults)
	s.purchased = s.loadIDSet(ctx, keyPurchases)
	s.admin = s.loadAdminFlag(ctx)
	s.lang = s.loadLanguage(ctx)

	log.Info().
		Int("custom_photos", len(s.custom)).
		Int("deleted_builtins", len(s.deleted)).
		Int("purchases", len(s.purchased)).
		Bool("admin", s.admin).
		Str("language", string(s.lang)).
		Msg("Catalog state hydrated")
}

func (s *Store) loadCustomPhotos(ctx context.Context) []catalog.Photo {
	data, err := s.kv.Get(ctx, keyCustomPhotos)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Warn().Err(err).Str("key", keyCustomPhotos).Msg("Failed to read custom photos, starting empty")
		}
		return nil
	}

	// Entries are decoded one by one so a single corrupted record does not
	// discard the whole collection.
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Str("key", keyCustomPhotos).Msg("Corrupted custom photos collection, starting empty")
		return nil
	}

	photos := make([]catalog.Photo, 0, len(raw))
	for _, entry := range raw {
		var p catalog.Photo
		if err := json.Unmarshal(entry, &p); err != nil {
			log.Warn().Err(err).Msg("Dropping unreadable custom photo record")
			continue
		}
		if !p.Coords.Valid() {
			log.Warn().Str("id", p.ID).Msg("Dropping custom photo with invalid coordinates")
			continue
		}
		// Records written before the origin tag existed carry only the ID prefix
		p.Origin = catalog.OriginCustom
		photos = append(photos, p)
	}
	return photos
}

func (s *Store) loadIDSet(ctx context.Context, key string) map[string]struct{} {
	set := make(map[string]struct{})

	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("Failed to read ID set, starting empty")
		}
		return set
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Corrupted ID set, starting empty")
		return set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s *Store) loadAdminFlag(ctx context.Context) bool {
	data, err := s.kv.Get(ctx, keyAdminAuth)
	if err != nil {
		return false
	}
	// The flag is the literal string "true"; anything else means false
	return strings.Trim(strings.TrimSpace(string(data)), `"`) == "true"
}

func (s *Store) loadLanguage(ctx context.Context) catalog.Language {
	data, err := s.kv.Get(ctx, keyLanguage)
	if err != nil {
		return catalog.DefaultLanguage
	}
	lang := catalog.Language(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if !lang.Valid() {
		log.Warn().Str("value", string(data)).Msg("Unknown persisted language, using default")
		return catalog.DefaultLanguage
	}
	return lang
}

// --- Accessors ---

// CustomPhotos returns a copy of the uploaded photos, newest first
func (s *Store) CustomPhotos() []catalog.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Photo, len(s.custom))
	copy(out, s.custom)
	return out
}

// DeletedBuiltinIDs returns a copy of the soft-deleted built-in photo IDs
func (s *Store) DeletedBuiltinIDs() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.deleted))
	for id := range s.deleted {
		out[id] = struct{}{}
	}
	return out
}

// Catalog returns the composed catalog: custom photos first, then built-in
// photos minus soft deletions
func (s *Store) Catalog() []catalog.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Compose(s.custom, s.deleted)
}

// CatalogForCity returns the composed catalog filtered to one city, or the
// whole catalog for the "all" sentinel
func (s *Store) CatalogForCity(cityName string) []catalog.Photo {
	return catalog.FilterByCity(s.Catalog(), cityName)
}

// PhotosForCity returns the map view's photo set for one city
func (s *Store) PhotosForCity(city *catalog.City) []catalog.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.PhotosForCity(city, s.custom, s.deleted)
}

// PhotoByID finds a photo in the composed catalog
func (s *Store) PhotoByID(id string) (*catalog.Photo, bool) {
	for _, p := range s.Catalog() {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}

// IsPurchased reports whether the photo has been purchased
func (s *Store) IsPurchased(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.purchased[id]
	return ok
}

// PurchasedIDs returns the purchased photo IDs, sorted
func (s *Store) PurchasedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.purchased)
}

// IsAdmin reports the persisted admin session flag
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// Language returns the active site language
func (s *Store) Language() catalog.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// --- Mutations ---

// NewCustomID generates an upload ID. The "custom-" prefix is kept for wire
// compatibility with existing persisted records; provenance is carried by the
// explicit origin tag, not the prefix.
func NewCustomID(now time.Time) string {
	return fmt.Sprintf("custom-%d", now.UnixMilli())
}

// Upload validates and prepends a custom photo, persisting the collection
// before committing. On a failed write the in-memory state is untouched and
// ErrStorageQuotaExceeded is surfaced.
func (s *Store) Upload(ctx context.Context, photo catalog.Photo) error {
	if !photo.Coords.Valid() {
		return ErrGeolocationInvalid
	}
	photo.Origin = catalog.OriginCustom

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]catalog.Photo, 0, len(s.custom)+1)
	updated = append(updated, photo)
	updated = append(updated, s.custom...)

	if err := s.persistCustom(ctx, updated); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageQuotaExceeded, err)
	}
	s.custom = updated

	s.notify(Event{Type: EventPhotoUploaded, PhotoID: photo.ID, Photo: &photo})
	return nil
}

// DeletePhoto removes a custom photo outright, or soft-deletes a built-in one
// by masking its ID. Built-in photos never leave the static catalog.
func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.custom {
		if s.custom[i].ID != id {
			continue
		}
		updated := make([]catalog.Photo, 0, len(s.custom)-1)
		updated = append(updated, s.custom[:i]...)
		updated = append(updated, s.custom[i+1:]...)

		if err := s.persistCustom(ctx, updated); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageQuotaExceeded, err)
		}
		s.custom = updated

		s.notify(Event{Type: EventPhotoDeleted, PhotoID: id})
		return nil
	}

	if !isBuiltinID(id) {
		return ErrPhotoNotFound
	}

	updated := cloneSet(s.deleted)
	updated[id] = struct{}{}

	if err := s.persistIDSet(ctx, keyDeletedDefaults, updated); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageQuotaExceeded, err)
	}
	s.deleted = updated

	s.notify(Event{Type: EventPhotoDeleted, PhotoID: id})
	return nil
}

// ClearBuiltins soft-deletes every built-in photo in one batch with a single
// persisted write. There is no undo through the API.
func (s *Store) ClearBuiltins(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := cloneSet(s.deleted)
	for _, id := range catalog.BuiltinPhotoIDs() {
		updated[id] = struct{}{}
	}

	if err := s.persistIDSet(ctx, keyDeletedDefaults, updated); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageQuotaExceeded, err)
	}
	s.deleted = updated

	s.notify(Event{Type: EventBuiltinsCleared})
	return nil
}

// Purchase adds the photo ID to the purchased set. Purchasing an
// already-purchased photo is a no-op.
func (s *Store) Purchase(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.purchased[id]; ok {
		return nil
	}

	updated := cloneSet(s.purchased)
	updated[id] = struct{}{}

	if err := s.persistIDSet(ctx, keyPurchases, updated); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageQuotaExceeded, err)
	}
	s.purchased = updated

	s.notify(Event{Type: EventPhotoPurchased, PhotoID: id})
	return nil
}

// SetAdmin persists the admin session flag: the literal "true" when set, key
// removed when cleared.
func (s *Store) SetAdmin(ctx context.Context, admin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if admin {
		if err := s.kv.Set(ctx, keyAdminAuth, []byte("true")); err != nil {
			return err
		}
	} else {
		if err := s.kv.Delete(ctx, keyAdminAuth); err != nil {
			return err
		}
	}
	s.admin = admin

	s.notify(Event{Type: EventAdminChanged, Admin: &admin})
	return nil
}

// SetLanguage switches the site language and persists the preference
func (s *Store) SetLanguage(ctx context.Context, lang catalog.Language) error {
	if !lang.Valid() {
		return ErrUnsupportedLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, keyLanguage, []byte(lang)); err != nil {
		return err
	}
	s.lang = lang

	s.notify(Event{Type: EventLanguageChanged, Language: lang})
	return nil
}

// --- Subscriptions ---

// Subscribe registers a change-notification channel. The channel is buffered;
// a slow consumer loses events rather than blocking mutations.
func (s *Store) Subscribe() chan Event {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a previously registered channel
func (s *Store) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
	close(ch)
}

// notify fans an event out to subscribers. Callers must hold s.mu.
func (s *Store) notify(e Event) {
	for ch := range s.subs {
		select {
		case ch <- e:
		default:
			log.Warn().Str("type", string(e.Type)).Msg("Dropping change event for slow subscriber")
		}
	}
}

// --- Persistence helpers ---

func (s *Store) persistCustom(ctx context.Context, photos []catalog.Photo) error {
	data, err := json.Marshal(photos)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyCustomPhotos, data)
}

func (s *Store) persistIDSet(ctx context.Context, key string, set map[string]struct{}) error {
	data, err := json.Marshal(sortedIDs(set))
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, data)
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cloneSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set)+1)
	for id := range set {
		out[id] = struct{}{}
	}
	return out
}

func isBuiltinID(id string) bool {
	for _, builtin := range catalog.BuiltinPhotoIDs() {
		if builtin == id {
			return true
		}
	}
	return false
}
