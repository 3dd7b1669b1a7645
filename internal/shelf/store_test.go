package shelf

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/pocketshelf/internal/kv"
	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// flakyStorage wraps Memory and fails reads or writes on demand.
type flakyStorage struct {
	*kv.Memory
	failSet bool
	failGet bool
	sets    int
}

var errDiskFull = errors.New("quota exceeded")

func (f *flakyStorage) Get(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("read failed")
	}
	return f.Memory.Get(key)
}

func (f *flakyStorage) Set(key, value string) error {
	f.sets++
	if f.failSet {
		return errDiskFull
	}
	return f.Memory.Set(key, value)
}

func newFlaky() *flakyStorage {
	return &flakyStorage{Memory: kv.NewMemory()}
}

// tickingClock returns a clock that advances one minute per call.
func tickingClock() func() time.Time {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

// setupStore creates a Store over fresh memory storage with a ticking clock.
func setupStore(t *testing.T) (*Store, *flakyStorage) {
	t.Helper()
	storage := newFlaky()
	s := New(storage, WithClock(tickingClock()))
	require.NoError(t, s.Load())
	return s, storage
}

func storedItems(t *testing.T, storage types.Storage) []types.Item {
	t.Helper()
	raw, ok, err := storage.Get(types.ItemsKey)
	require.NoError(t, err)
	require.True(t, ok, "items key must be stored")
	var items []types.Item
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestNewStoreDefaults(t *testing.T) {
	s := New(kv.NewMemory())
	assert.Empty(t, s.Items())
	assert.Equal(t, types.DefaultPreferences(), s.Preferences())
	assert.NoError(t, s.SaveErr())
}

func TestAddItem(t *testing.T) {
	s, storage := setupStore(t)

	first, err := s.AddItem(types.Draft{Title: "  Atomic Habits ", Author: " James Clear "})
	require.NoError(t, err)
	second, err := s.AddItem(types.Draft{Title: "Deep Work", Author: "Cal Newport", Link: "https://example.com", Notes: "focus"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Atomic Habits", first.Title, "title is trimmed")
	assert.Equal(t, "James Clear", first.Author)
	assert.Equal(t, types.StatusBacklog, first.Status)
	assert.False(t, first.Favorite)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "new items are prepended")
	assert.Equal(t, first.ID, items[1].ID)

	assert.Equal(t, items, storedItems(t, storage), "collection persisted on every add")
}

func TestAddItemRejectsEmptyTitle(t *testing.T) {
	s, storage := setupStore(t)

	_, err := s.AddItem(types.Draft{Title: "   ", Author: "Nobody"})
	assert.ErrorIs(t, err, types.ErrInvalidTitle)
	assert.Empty(t, s.Items())
	assert.Zero(t, storage.sets, "nothing written")
}

func TestAddItemUsesInjectedIDs(t *testing.T) {
	n := 0
	s := New(kv.NewMemory(), WithIDGenerator(func() string {
		n++
		return "id-" + string(rune('0'+n))
	}))

	it, err := s.AddItem(types.Draft{Title: "One"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", it.ID)
}

func TestUpdateStatus(t *testing.T) {
	s, storage := setupStore(t)
	it, err := s.AddItem(types.Draft{Title: "Deep Work"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		status  types.Status
		wantErr error
		want    types.Status
	}{
		{name: "backlog to reading", id: it.ID, status: types.StatusReading, want: types.StatusReading},
		{name: "reading to completed", id: it.ID, status: types.StatusCompleted, want: types.StatusCompleted},
		{name: "completed back to backlog", id: it.ID, status: types.StatusBacklog, want: types.StatusBacklog},
		{name: "unknown status", id: it.ID, status: "archived", wantErr: types.ErrInvalidStatus, want: types.StatusBacklog},
		{name: "unknown id", id: "missing", status: types.StatusReading, wantErr: types.ErrNotFound, want: types.StatusBacklog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdateStatus(tt.id, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			got, err := s.Item(it.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.want, storedItems(t, storage)[0].Status)
		})
	}
}

func TestUpdateStatusKeepsCreatedAt(t *testing.T) {
	s, _ := setupStore(t)
	it, err := s.AddItem(types.Draft{Title: "Deep Work"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatus(it.ID, types.StatusReading))
	_, err = s.ToggleFavorite(it.ID)
	require.NoError(t, err)

	got, err := s.Item(it.ID)
	require.NoError(t, err)
	assert.True(t, it.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, it.ID, got.ID)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	s, storage := setupStore(t)
	a, err := s.AddItem(types.Draft{Title: "A"})
	require.NoError(t, err)
	b, err := s.AddItem(types.Draft{Title: "B"})
	require.NoError(t, err)

	require.NoError(t, s.RemoveItem(a.ID))
	after := s.Items()
	require.Len(t, after, 1)
	assert.Equal(t, b.ID, after[0].ID)

	writes := storage.sets
	err = s.RemoveItem(a.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, after, s.Items(), "second remove leaves the collection unchanged")
	assert.Equal(t, writes, storage.sets, "second remove writes nothing")
	assert.Equal(t, after, storedItems(t, storage))
}

func TestRemoveItemDoesNotAliasCopies(t *testing.T) {
	s, _ := setupStore(t)
	for _, title := range []string{"A", "B", "C"} {
		_, err := s.AddItem(types.Draft{Title: title})
		require.NoError(t, err)
	}
	before := s.Items()
	require.NoError(t, s.RemoveItem(before[1].ID))

	assert.Equal(t, "B", before[1].Title, "earlier snapshots are not rewritten")
	assert.Len(t, s.Items(), 2)
}

func TestToggleFavorite(t *testing.T) {
	s, storage := setupStore(t)
	it, err := s.AddItem(types.Draft{Title: "Deep Work"})
	require.NoError(t, err)

	fav, err := s.ToggleFavorite(it.ID)
	require.NoError(t, err)
	assert.True(t, fav)
	assert.True(t, storedItems(t, storage)[0].Favorite)

	fav, err = s.ToggleFavorite(it.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	got, err := s.Item(it.ID)
	require.NoError(t, err)
	assert.False(t, got.Favorite, "two toggles restore the original value")

	_, err = s.ToggleFavorite("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSetPreferences(t *testing.T) {
	s, storage := setupStore(t)

	alpha := types.SortAlpha
	prefs, err := s.SetPreferences(types.PreferencesPatch{Sort: &alpha})
	require.NoError(t, err)
	assert.Equal(t, types.Preferences{Sort: types.SortAlpha, Filter: types.FilterAll}, prefs)

	reading := types.FilterReading
	prefs, err = s.SetPreferences(types.PreferencesPatch{Filter: &reading})
	require.NoError(t, err)
	assert.Equal(t, types.Preferences{Sort: types.SortAlpha, Filter: types.FilterReading}, prefs)

	raw, ok, err := storage.Get(types.PrefsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"sort":"alpha","filter":"reading"}`, raw)

	bad := types.Filter("archived")
	prefs, err = s.SetPreferences(types.PreferencesPatch{Filter: &bad})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
	assert.Equal(t, types.Preferences{Sort: types.SortAlpha, Filter: types.FilterReading}, prefs)
	assert.Equal(t, prefs, s.Preferences())
}

func TestRoundTrip(t *testing.T) {
	storage := kv.NewMemory()
	s := New(storage, WithClock(tickingClock()))
	require.NoError(t, s.Load())

	a, err := s.AddItem(types.Draft{Title: "Atomic Habits", Author: "James Clear", Notes: "habits"})
	require.NoError(t, err)
	_, err = s.AddItem(types.Draft{Title: "Deep Work", Author: "Cal Newport", Link: "https://calnewport.com"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(a.ID, types.StatusCompleted))
	_, err = s.ToggleFavorite(a.ID)
	require.NoError(t, err)
	fav := types.SortFavorite
	_, err = s.SetPreferences(types.PreferencesPatch{Sort: &fav})
	require.NoError(t, err)

	reloaded := New(storage)
	require.NoError(t, reloaded.Load())

	assert.Equal(t, s.Items(), reloaded.Items())
	assert.Equal(t, s.Preferences(), reloaded.Preferences())
}

func TestSaveWritesBothKeys(t *testing.T) {
	storage := kv.NewMemory()
	s := New(storage)

	require.NoError(t, s.Save())

	raw, ok, err := storage.Get(types.ItemsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)

	raw, ok, err = storage.Get(types.PrefsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"sort":"recent","filter":"all"}`, raw)
}

func TestLoadCorruptedValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "corrupted items", key: types.ItemsKey},
		{name: "corrupted preferences", key: types.PrefsKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := kv.NewMemory()
			require.NoError(t, storage.Set(tt.key, `{not json`))

			core, logs := observer.New(zapcore.WarnLevel)
			s := New(storage, WithLogger(zap.New(core)))
			require.NoError(t, s.Load())

			assert.Empty(t, s.Items())
			assert.Equal(t, types.DefaultPreferences(), s.Preferences())

			_, ok, err := storage.Get(tt.key)
			require.NoError(t, err)
			assert.False(t, ok, "bad value is cleared from storage")

			entries := logs.FilterMessage("discarding unreadable stored value").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.key, entries[0].ContextMap()["key"])
		})
	}
}

func TestLoadCorruptedItemsKeepsPreferences(t *testing.T) {
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(types.ItemsKey, `[{"id":1}]`))
	require.NoError(t, storage.Set(types.PrefsKey, `{"sort":"alpha","filter":"completed"}`))

	s := New(storage)
	require.NoError(t, s.Load())

	assert.Empty(t, s.Items())
	assert.Equal(t, types.Preferences{Sort: types.SortAlpha, Filter: types.FilterCompleted}, s.Preferences())
	_, ok, _ := storage.Get(types.PrefsKey)
	assert.True(t, ok)
}

func TestLoadMergesPreferencesOntoDefaults(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   types.Preferences
	}{
		{
			name:   "missing filter falls back",
			stored: `{"sort":"alpha"}`,
			want:   types.Preferences{Sort: types.SortAlpha, Filter: types.FilterAll},
		},
		{
			name:   "missing sort falls back",
			stored: `{"filter":"reading"}`,
			want:   types.Preferences{Sort: types.SortRecent, Filter: types.FilterReading},
		},
		{
			name:   "unknown sort value falls back",
			stored: `{"sort":"oldest","filter":"reading"}`,
			want:   types.Preferences{Sort: types.SortRecent, Filter: types.FilterReading},
		},
		{
			name:   "extra fields ignored",
			stored: `{"sort":"favorite","filter":"all","theme":"dark"}`,
			want:   types.Preferences{Sort: types.SortFavorite, Filter: types.FilterAll},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := kv.NewMemory()
			require.NoError(t, storage.Set(types.PrefsKey, tt.stored))

			s := New(storage)
			require.NoError(t, s.Load())
			assert.Equal(t, tt.want, s.Preferences())
		})
	}
}

func TestLoadDoesNotWriteBack(t *testing.T) {
	storage := newFlaky()
	require.NoError(t, storage.Memory.Set(types.ItemsKey, `[]`))
	require.NoError(t, storage.Memory.Set(types.PrefsKey, `{"sort":"alpha","filter":"all"}`))

	s := New(storage)
	require.NoError(t, s.Load())
	assert.Zero(t, storage.sets)
}

func TestLoadWebClientRecords(t *testing.T) {
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(types.ItemsKey, `[
		{"title":"Deep Work","author":"Cal Newport","link":"","notes":"","id":"b","createdAt":"2024-05-02T10:00:00.000Z","status":"reading","favorite":true},
		{"title":"Atomic Habits","author":"James Clear","link":"","notes":"","id":"a","createdAt":"2024-05-01T10:00:00.000Z","status":"backlog"}
	]`))

	s := New(storage)
	require.NoError(t, s.Load())

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.True(t, items[0].Favorite)
	assert.False(t, items[1].Favorite, "absent favorite is false")
	assert.Equal(t, types.StatusReading, items[0].Status)
}

func TestLoadKeepsItemsWithLooseTimestamps(t *testing.T) {
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(types.ItemsKey, `[
		{"title":"Deep Work","id":"b","createdAt":"2024-05-02T10:00:00.000Z","status":"reading"},
		{"title":"Atomic Habits","id":"a","createdAt":"2024-03-01","status":"backlog"},
		{"title":"Walden","id":"c","createdAt":"someday","status":"completed"}
	]`))

	s := New(storage)
	require.NoError(t, s.Load())

	items := s.Items()
	require.Len(t, items, 3, "one odd timestamp must not drop the collection")
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), items[1].CreatedAt)
	assert.True(t, items[2].CreatedAt.IsZero())

	_, ok, err := storage.Get(types.ItemsKey)
	require.NoError(t, err)
	assert.True(t, ok, "stored items are kept")

	got := titles(DerivedView(items, types.DefaultPreferences(), ""))
	assert.Equal(t, []string{"Deep Work", "Atomic Habits", "Walden"}, got)
}

func TestAddItemStoresMillisecondTimestamps(t *testing.T) {
	storage := kv.NewMemory()
	at := time.Date(2024, 3, 1, 8, 12, 12, 791741107, time.UTC)
	s := New(storage, WithClock(func() time.Time { return at }))

	it, err := s.AddItem(types.Draft{Title: "Deep Work"})
	require.NoError(t, err)
	assert.Equal(t, at.Truncate(time.Millisecond), it.CreatedAt)

	raw, ok, err := storage.Get(types.ItemsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"createdAt":"2024-03-01T08:12:12.791Z"`)
}

func TestLoadReadFailure(t *testing.T) {
	storage := newFlaky()
	storage.failGet = true

	s := New(storage)
	err := s.Load()
	assert.Error(t, err)
	assert.Empty(t, s.Items())
	assert.Equal(t, types.DefaultPreferences(), s.Preferences())
}

func TestWriteFailureIsReported(t *testing.T) {
	storage := newFlaky()
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(storage, WithLogger(zap.New(core)))
	require.NoError(t, s.Load())

	storage.failSet = true
	it, err := s.AddItem(types.Draft{Title: "Deep Work"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotSaved)
	assert.ErrorIs(t, err, errDiskFull)
	assert.True(t, IsNotSaved(err))

	assert.Equal(t, "Deep Work", it.Title, "the item is still returned")
	assert.Len(t, s.Items(), 1, "the mutation is kept in memory")
	assert.ErrorIs(t, s.SaveErr(), types.ErrNotSaved)
	assert.Equal(t, 1, logs.FilterMessage("write to storage failed").Len())

	storage.failSet = false
	require.NoError(t, s.UpdateStatus(it.ID, types.StatusReading))
	assert.NoError(t, s.SaveErr(), "a later successful write clears the condition")
	assert.Len(t, storedItems(t, storage), 1)
}

func TestResolveID(t *testing.T) {
	ids := []string{"0190abcd-1111", "0190abcd-2222", "0190ffff-3333"}
	n := 0
	s := New(kv.NewMemory(), WithIDGenerator(func() string {
		id := ids[n]
		n++
		return id
	}))
	for _, title := range []string{"A", "B", "C"} {
		_, err := s.AddItem(types.Draft{Title: title})
		require.NoError(t, err)
	}

	tests := []struct {
		prefix  string
		want    string
		wantErr error
	}{
		{prefix: "0190abcd-2222", want: "0190abcd-2222"},
		{prefix: "0190ffff", want: "0190ffff-3333"},
		{prefix: "0190abcd", wantErr: types.ErrAmbiguousID},
		{prefix: "dead", wantErr: types.ErrNotFound},
		{prefix: " ", wantErr: types.ErrInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := s.ResolveID(tt.prefix)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
