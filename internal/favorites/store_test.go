package favorites

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ngmaloney/city-weather-terminal/internal/database"
	"github.com/ngmaloney/city-weather-terminal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBackend struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryBackend) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data, nil
}

func (m *memoryBackend) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func newTestStore(t *testing.T, backend Backend) *Store {
	t.Helper()
	return New(backend, logging.Discard())
}

func TestStore_ToggleScenario(t *testing.T) {
	backend := &memoryBackend{}
	s := newTestStore(t, backend)

	assert.False(t, s.IsFavorite("Mumbai"))

	assert.True(t, s.Toggle("Mumbai"))
	assert.Equal(t, []string{"Mumbai"}, s.List())
	assert.JSONEq(t, `["Mumbai"]`, string(backend.data))

	assert.False(t, s.Toggle("Mumbai"))
	assert.Empty(t, s.List())
	assert.JSONEq(t, `[]`, string(backend.data))
}

func TestStore_ToggleTwiceIsIdentity(t *testing.T) {
	start := []string{"Delhi", "Pune"}
	names := []string{"Mumbai", "Delhi", "Pune", "", "São Paulo", "delhi"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			backend := &memoryBackend{data: []byte(`["Delhi","Pune"]`)}
			s := newTestStore(t, backend)
			require.Equal(t, start, s.List())

			s.Toggle(name)
			s.Toggle(name)

			assert.ElementsMatch(t, start, s.List())
			assert.Equal(t, s.IsFavorite(name), contains(start, name))
		})
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func TestStore_PersistedRoundTrip(t *testing.T) {
	sets := [][]string{
		{},
		{"Mumbai"},
		{"Mumbai", "Delhi", "Bengaluru"},
		{"Zürich", "N'Djamena", "Washington, D.C."},
	}

	for _, set := range sets {
		backend := &memoryBackend{}
		s := newTestStore(t, backend)
		for _, name := range set {
			s.Toggle(name)
		}
		// Force a write for the empty set too
		s.Toggle("tmp")
		s.Toggle("tmp")

		reloaded := newTestStore(t, backend)
		assert.Equal(t, len(set), len(reloaded.List()))
		assert.ElementsMatch(t, set, reloaded.List())
	}
}

func TestStore_LoadFailsOpen(t *testing.T) {
	tests := []struct {
		name    string
		backend *memoryBackend
	}{
		{"missing value", &memoryBackend{}},
		{"not json", &memoryBackend{data: []byte("not json")}},
		{"json object", &memoryBackend{data: []byte(`{"a":1}`)}},
		{"backend error", &memoryBackend{loadErr: errors.New("disk gone")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, tt.backend)
			assert.Empty(t, s.List())
		})
	}
}

func TestStore_LoadDropsDuplicates(t *testing.T) {
	s := newTestStore(t, &memoryBackend{data: []byte(`["Pune","Delhi","Pune"]`)})
	assert.Equal(t, []string{"Pune", "Delhi"}, s.List())
}

func TestStore_SaveFailureIsIgnored(t *testing.T) {
	backend := &memoryBackend{saveErr: errors.New("read-only")}
	s := newTestStore(t, backend)

	assert.True(t, s.Toggle("Mumbai"))
	assert.True(t, s.IsFavorite("Mumbai"), "in-memory state still changes")
	assert.Equal(t, 1, backend.saves)
}

func TestStore_Subscribe(t *testing.T) {
	s := newTestStore(t, &memoryBackend{})

	var got [][]string
	unsubscribe := s.Subscribe(func(names []string) {
		got = append(got, names)
	})

	s.Toggle("Mumbai")
	s.Toggle("Delhi")
	unsubscribe()
	s.Toggle("Pune")

	require.Len(t, got, 2)
	assert.Equal(t, []string{"Mumbai"}, got[0])
	assert.Equal(t, []string{"Mumbai", "Delhi"}, got[1])
}

func TestStore_ListIsACopy(t *testing.T) {
	s := newTestStore(t, &memoryBackend{})
	s.Toggle("Mumbai")

	list := s.List()
	list[0] = "changed"

	assert.Equal(t, []string{"Mumbai"}, s.List())
}

func TestStore_ConcurrentToggles(t *testing.T) {
	s := newTestStore(t, &memoryBackend{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle("Mumbai")
		}()
	}
	wg.Wait()

	// An even number of toggles leaves the city out
	assert.False(t, s.IsFavorite("Mumbai"))
}

func TestSQLiteBackend_RoundTrip(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "fav.db"))
	require.NoError(t, err)
	defer db.Close()

	backend := NewSQLiteBackend(db)

	data, err := backend.Load()
	require.NoError(t, err)
	assert.Nil(t, data, "nothing stored yet")

	s := newTestStore(t, backend)
	s.Toggle("Mumbai")
	s.Toggle("Delhi")

	reloaded := newTestStore(t, NewSQLiteBackend(db))
	assert.Equal(t, []string{"Mumbai", "Delhi"}, reloaded.List())

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM app_state").Scan(&rows))
	assert.Equal(t, 1, rows, "favorites live under a single key")
}

func TestSQLiteBackend_SaveWithoutSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, NewSQLiteBackend(db).Save([]byte(`[]`)))
}

func TestBoltBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fav.bolt")

	backend, err := OpenBolt(path)
	require.NoError(t, err)

	data, err := backend.Load()
	require.NoError(t, err)
	assert.Nil(t, data)

	s := newTestStore(t, backend)
	s.Toggle("Mumbai")
	require.NoError(t, backend.Close())

	backend, err = OpenBolt(path)
	require.NoError(t, err)
	defer backend.Close()

	reloaded := newTestStore(t, backend)
	assert.Equal(t, []string{"Mumbai"}, reloaded.List())
}
