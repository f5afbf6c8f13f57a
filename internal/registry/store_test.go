package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minedex/minedex/internal/domain"
	"github.com/minedex/minedex/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "db.json"), logger.Nop())
	// Sequential ids so rapid test creations never collide.
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	require.NoError(t, s.Init())
	return s
}

func portJSON(t *testing.T, raw string) domain.Port {
	t.Helper()
	var body struct {
		Port domain.Port `json:"port"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"port":`+raw+`}`), &body))
	return body.Port
}

func TestInitCreatesEmptyDocument(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	data, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"servers":[]}`, string(data))
}

func TestCreateValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create(CreateInput{Name: "  ", Host: "play.example"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = s.Create(CreateInput{Name: "Alpha", Host: ""})
	assert.ErrorIs(t, err, ErrHostRequired)

	// Failed creations must leave the collection untouched.
	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateDefaults(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Create(CreateInput{
		Name: "  Alpha  ",
		Host: " alpha.example ",
		Port: portJSON(t, `"not-a-number"`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Alpha", entry.Name)
	assert.Equal(t, "alpha.example", entry.Host)
	assert.Equal(t, domain.DefaultPort, entry.Port)
	assert.Equal(t, "", entry.Description)
	assert.Equal(t, "", entry.Contact)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Nil(t, entry.UpdatedAt)
}

func TestCreateUniqueIDs(t *testing.T) {
	s := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		entry, err := s.Create(CreateInput{Name: "srv", Host: "h.example"})
		require.NoError(t, err)
		assert.False(t, seen[entry.ID], "duplicate id %s", entry.ID)
		seen[entry.ID] = true
	}
}

func TestUpdatePartialSemantics(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create(CreateInput{
		Name:        "Alpha",
		Host:        "alpha.example",
		Port:        portJSON(t, `25566`),
		Description: "survival server",
		Contact:     "admin@alpha.example",
	})
	require.NoError(t, err)

	empty := ""
	blank := "   "
	updated, err := s.Update(created.ID, UpdateInput{
		Name:        &blank,  // blank name must be ignored, never cleared
		Description: &empty,  // explicit empty description must stick
	})
	require.NoError(t, err)

	assert.Equal(t, "Alpha", updated.Name)
	assert.Equal(t, "alpha.example", updated.Host)
	assert.Equal(t, 25566, updated.Port)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, "admin@alpha.example", updated.Contact)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdatePortSemantics(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create(CreateInput{Name: "Beta", Host: "beta.example", Port: portJSON(t, `25570`)})
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "absent keeps current", raw: "", want: 25570},
		{name: "zero keeps current", raw: "0", want: 25570},
		{name: "junk string resets to default", raw: `"garbage"`, want: domain.DefaultPort},
		{name: "number replaces", raw: "25571", want: 25571},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := UpdateInput{}
			if tt.raw != "" {
				in.Port = portJSON(t, tt.raw)
			}
			updated, err := s.Update(created.ID, in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, updated.Port)

			// Reset for the next case.
			_, err = s.Update(created.ID, UpdateInput{Port: portJSON(t, "25570")})
			require.NoError(t, err)
		})
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update("missing", UpdateInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Create(CreateInput{Name: "A", Host: "a.example"})
	require.NoError(t, err)
	_, err = s.Create(CreateInput{Name: "B", Host: "b.example"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(a.ID))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].Name)

	err = s.Delete("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err = s.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1, "failed delete must not shrink the collection")
}

func TestGet(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create(CreateInput{Name: "Alpha", Host: "alpha.example"})
	require.NoError(t, err)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateSurfacesPersistFailure(t *testing.T) {
	s := newTestStore(t)

	// Point the document at a directory: the rewrite cannot succeed there,
	// even when the tests run as root.
	s.path = t.TempDir()

	entry, err := s.Create(CreateInput{Name: "Alpha", Host: "alpha.example"})
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, ErrPersist)
}

func TestListDegradesOnCorruptDocument(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o644))

	entries, err := s.List()
	assert.Error(t, err, "read failure must be reported")
	assert.NotNil(t, entries)
	assert.Empty(t, entries, "read failure must degrade to an empty list")
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	created, err := s.Create(CreateInput{
		Name:        "Alpha",
		Host:        "alpha.example",
		Port:        portJSON(t, "25567"),
		Description: "creative",
		Contact:     "ops@alpha.example",
	})
	require.NoError(t, err)

	// A second store over the same file must see field-for-field the same entry.
	reopened := New(s.path, logger.Nop())
	entries, err := reopened.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, *created, entries[0])
}
