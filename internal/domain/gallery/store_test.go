package gallery

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/elhabassi/portfolio-api/internal/domain/catalog"
	"github.com/elhabassi/portfolio-api/internal/pkg/kvstore"
)

// memoryKV is an in-memory kvstore.KV for tests. failOn makes writes to one
// key fail to exercise the persist-before-commit rollback.
type memoryKV struct {
	data   map[string][]byte
	failOn string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	return v, nil
}

func (m *memoryKV) Set(ctx context.Context, key string, value []byte) error {
	if key == m.failOn {
		return errors.New("disk full")
	}
	m.data[key] = value
	return nil
}

func (m *memoryKV) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func testPhoto(id string) catalog.Photo {
	return catalog.Photo{
		ID:           id,
		URL:          "data:image/jpeg;base64,xxxx",
		Title:        "Test " + id,
		LocationName: "Marrakech",
		Coords:       catalog.Coords{31.63, -7.99},
		CreatedAt:    time.Now(),
	}
}

func hydratedStore(t *testing.T, kv kvstore.KV) *Store {
	t.Helper()
	s := NewStore(kv)
	s.Hydrate(context.Background())
	return s
}

func TestStore_UploadPrependsAndPersists(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)
	ctx := context.Background()

	if err := s.Upload(ctx, testPhoto("custom-1")); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	if err := s.Upload(ctx, testPhoto("custom-2")); err != nil {
		t.Fatalf("second upload failed: %v", err)
	}

	got := s.CustomPhotos()
	if len(got) != 2 || got[0].ID != "custom-2" || got[1].ID != "custom-1" {
		t.Fatalf("expected newest-first order [custom-2 custom-1], got %v", got)
	}

	// A fresh store over the same backend sees the same photos
	restored := hydratedStore(t, kv)
	if len(restored.CustomPhotos()) != 2 {
		t.Fatalf("expected 2 photos after rehydration, got %d", len(restored.CustomPhotos()))
	}
}

func TestStore_UploadRejectsInvalidCoords(t *testing.T) {
	s := hydratedStore(t, newMemoryKV())

	p := testPhoto("custom-1")
	p.Coords = catalog.Coords{31.63}

	if err := s.Upload(context.Background(), p); !errors.Is(err, ErrGeolocationInvalid) {
		t.Fatalf("expected ErrGeolocationInvalid, got %v", err)
	}
	if len(s.CustomPhotos()) != 0 {
		t.Fatal("rejected upload must not change state")
	}
}

func TestStore_FailedPersistLeavesStateUntouched(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)
	ctx := context.Background()

	if err := s.Upload(ctx, testPhoto("custom-1")); err != nil {
		t.Fatalf("setup upload failed: %v", err)
	}

	before := s.CustomPhotos()
	persisted := append([]byte(nil), kv.data[keyCustomPhotos]...)

	kv.failOn = keyCustomPhotos
	err := s.Upload(ctx, testPhoto("custom-2"))
	if !errors.Is(err, ErrStorageQuotaExceeded) {
		t.Fatalf("expected ErrStorageQuotaExceeded, got %v", err)
	}

	if !reflect.DeepEqual(s.CustomPhotos(), before) {
		t.Fatal("failed write mutated in-memory state")
	}
	if string(kv.data[keyCustomPhotos]) != string(persisted) {
		t.Fatal("failed write mutated persisted state")
	}

	// The store stays usable once the backend recovers
	kv.failOn = ""
	if err := s.Upload(ctx, testPhoto("custom-2")); err != nil {
		t.Fatalf("upload after recovery failed: %v", err)
	}
}

func TestStore_DeleteCustomRemovesOutright(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)
	ctx := context.Background()

	if err := s.Upload(ctx, testPhoto("custom-1")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if err := s.DeletePhoto(ctx, "custom-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if len(s.CustomPhotos()) != 0 {
		t.Fatal("custom photo still present after delete")
	}
	if len(s.DeletedBuiltinIDs()) != 0 {
		t.Fatal("deleting a custom photo must not touch the soft-delete set")
	}
}

func TestStore_DeleteBuiltinIsSoft(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)
	ctx := context.Background()

	if err := s.DeletePhoto(ctx, "m1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	for _, p := range s.Catalog() {
		if p.ID == "m1" {
			t.Fatal("soft-deleted built-in still in the catalog")
		}
	}

	// Soft deletion survives a restart; the static catalog itself does not shrink
	restored := hydratedStore(t, kv)
	if _, ok := restored.DeletedBuiltinIDs()["m1"]; !ok {
		t.Fatal("soft deletion lost on rehydration")
	}
	if _, ok := restored.PhotoByID("m2"); !ok {
		t.Fatal("unrelated built-in missing after rehydration")
	}
}

func TestStore_DeleteUnknownID(t *testing.T) {
	s := hydratedStore(t, newMemoryKV())

	if err := s.DeletePhoto(context.Background(), "nope"); !errors.Is(err, ErrPhotoNotFound) {
		t.Fatalf("expected ErrPhotoNotFound, got %v", err)
	}
}

func TestStore_ClearBuiltins(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)

	if err := s.ClearBuiltins(context.Background()); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	for _, p := range s.Catalog() {
		if !p.IsCustom() {
			t.Fatalf("built-in %s survived the batch clear", p.ID)
		}
	}
	if len(s.DeletedBuiltinIDs()) != len(catalog.BuiltinPhotoIDs()) {
		t.Fatalf("expected %d soft-deleted IDs, got %d", len(catalog.BuiltinPhotoIDs()), len(s.DeletedBuiltinIDs()))
	}
}

func TestStore_PurchaseIsIdempotent(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)
	ctx := context.Background()

	if err := s.Purchase(ctx, "m1"); err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	first := append([]byte(nil), kv.data[keyPurchases]...)

	// Second purchase is a no-op even if the backend would now fail
	kv.failOn = keyPurchases
	if err := s.Purchase(ctx, "m1"); err != nil {
		t.Fatalf("repeat purchase must be a no-op, got %v", err)
	}

	if got := s.PurchasedIDs(); len(got) != 1 || got[0] != "m1" {
		t.Fatalf("expected purchases [m1], got %v", got)
	}
	if string(kv.data[keyPurchases]) != string(first) {
		t.Fatal("repeat purchase rewrote the persisted set")
	}
	if !s.IsPurchased("m1") {
		t.Fatal("IsPurchased lost the purchase")
	}
}

func TestStore_PurchaseSurvivesDeletion(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)
	ctx := context.Background()

	if err := s.Purchase(ctx, "m1"); err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if err := s.DeletePhoto(ctx, "m1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if !s.IsPurchased("m1") {
		t.Fatal("purchase record must outlive the photo")
	}
}

func TestStore_AdminFlagRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)
	ctx := context.Background()

	if err := s.SetAdmin(ctx, true); err != nil {
		t.Fatalf("set admin failed: %v", err)
	}
	if string(kv.data[keyAdminAuth]) != "true" {
		t.Fatalf("admin flag must persist as the literal \"true\", got %q", kv.data[keyAdminAuth])
	}

	if !hydratedStore(t, kv).IsAdmin() {
		t.Fatal("admin flag lost on rehydration")
	}

	if err := s.SetAdmin(ctx, false); err != nil {
		t.Fatalf("clear admin failed: %v", err)
	}
	if _, ok := kv.data[keyAdminAuth]; ok {
		t.Fatal("clearing the admin flag must remove the key")
	}
	if hydratedStore(t, kv).IsAdmin() {
		t.Fatal("cleared admin flag came back on rehydration")
	}
}

func TestStore_LanguageRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	s := hydratedStore(t, kv)
	ctx := context.Background()

	if s.Language() != catalog.DefaultLanguage {
		t.Fatalf("expected default language %s, got %s", catalog.DefaultLanguage, s.Language())
	}

	if err := s.SetLanguage(ctx, catalog.LangFR); err != nil {
		t.Fatalf("set language failed: %v", err)
	}
	if got := hydratedStore(t, kv).Language(); got != catalog.LangFR {
		t.Fatalf("expected fr after rehydration, got %s", got)
	}

	if err := s.SetLanguage(ctx, "de"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestStore_HydrateIsolatesCorruptedCollections(t *testing.T) {
	kv := newMemoryKV()
	kv.data[keyCustomPhotos] = []byte("{not json")
	kv.data[keyPurchases] = []byte(`["m1","c1"]`)
	kv.data[keyLanguage] = []byte("klingon")
	kv.data[keyAdminAuth] = []byte("true")

	s := hydratedStore(t, kv)

	if len(s.CustomPhotos()) != 0 {
		t.Fatal("corrupted photo collection must hydrate empty")
	}
	if got := s.PurchasedIDs(); len(got) != 2 {
		t.Fatalf("healthy purchases collection lost, got %v", got)
	}
	if s.Language() != catalog.DefaultLanguage {
		t.Fatalf("unknown language must fall back to default, got %s", s.Language())
	}
	if !s.IsAdmin() {
		t.Fatal("healthy admin flag lost")
	}
}

func TestStore_HydrateDropsBadRecordsKeepsGood(t *testing.T) {
	good := testPhoto("custom-1")
	kv := newMemoryKV()
	kv.data[keyCustomPhotos] = []byte(fmt.Sprintf(
		`[{"id":%q,"title":%q,"locationName":%q,"coords":[31.63,-7.99]},{"id":"custom-2","coords":[1]},42]`,
		good.ID, good.Title, good.LocationName,
	))

	s := hydratedStore(t, kv)

	got := s.CustomPhotos()
	if len(got) != 1 || got[0].ID != "custom-1" {
		t.Fatalf("expected only the readable record, got %v", got)
	}
	if got[0].Origin != catalog.OriginCustom {
		t.Fatal("hydrated record missing the custom origin tag")
	}
}

func TestStore_SubscribersSeeCommittedMutations(t *testing.T) {
	s := hydratedStore(t, newMemoryKV())
	ctx := context.Background()

	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	if err := s.Upload(ctx, testPhoto("custom-1")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if err := s.SetLanguage(ctx, catalog.LangEN); err != nil {
		t.Fatalf("set language failed: %v", err)
	}

	e := <-ch
	if e.Type != EventPhotoUploaded || e.PhotoID != "custom-1" {
		t.Fatalf("expected photo_uploaded for custom-1, got %+v", e)
	}
	e = <-ch
	if e.Type != EventLanguageChanged || e.Language != catalog.LangEN {
		t.Fatalf("expected language_changed to en, got %+v", e)
	}
}

func TestStore_NoEventOnFailedMutation(t *testing.T) {
	kv := newMemoryKV()
	kv.failOn = keyCustomPhotos
	s := hydratedStore(t, kv)

	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	if err := s.Upload(context.Background(), testPhoto("custom-1")); err == nil {
		t.Fatal("expected upload to fail")
	}

	select {
	case e := <-ch:
		t.Fatalf("failed mutation must not notify, got %+v", e)
	default:
	}
}

func TestNewCustomID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	if got := NewCustomID(now); got != "custom-1700000000000" {
		t.Fatalf("expected custom-1700000000000, got %s", got)
	}
}
