package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/minedex/minedex/internal/domain"
	"github.com/minedex/minedex/internal/logger"
)

// document is the single persisted unit: the whole registry is read and
// rewritten as one JSON file on every mutation.
type document struct {
	Servers []domain.ServerEntry `json:"servers"`
}

// Store owns the registry document. Mutations follow a full
// read-modify-rewrite cycle with no locking: concurrent writers race and the
// loser's change is silently dropped (last-write-wins over the whole
// document). Accepted for a low-write-rate directory; callers needing strict
// consistency must serialize writes themselves.
type Store struct {
	path  string
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

// New creates a store backed by the JSON document at path.
func New(path string, log logger.Logger) *Store {
	return &Store{
		path: path,
		log:  log,
		now:  time.Now,
		newID: func() string {
			// Millisecond clock ids, like the original deployment's data.
			// Collisions are not expected at directory write rates.
			return strconv.FormatInt(time.Now().UnixMilli(), 10)
		},
	}
}

// Init creates the data directory and an empty document when none exists yet.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat registry document: %w", err)
	}
	if err := s.write(document{Servers: []domain.ServerEntry{}}); err != nil {
		return err
	}
	s.log.Info("registry document initialized", logger.String("path", s.path))
	return nil
}

// List returns all entries in insertion order. A read failure degrades to an
// empty list; the error is returned alongside for reporting only and must
// never fail the caller.
func (s *Store) List() ([]domain.ServerEntry, error) {
	doc, err := s.read()
	if err != nil {
		return []domain.ServerEntry{}, err
	}
	if doc.Servers == nil {
		return []domain.ServerEntry{}, nil
	}
	return doc.Servers, nil
}

// Get returns the entry with the given id, or ErrNotFound.
func (s *Store) Get(id string) (*domain.ServerEntry, error) {
	doc, err := s.read()
	if err != nil {
		s.log.Warn("registry read failed during lookup", logger.Error(err))
	}
	for i := range doc.Servers {
		if doc.Servers[i].ID == id {
			entry := doc.Servers[i]
			return &entry, nil
		}
	}
	return nil, ErrNotFound
}

// CreateInput carries the fields of a registration request.
type CreateInput struct {
	Name        string
	Host        string
	Port        domain.Port
	Description string
	Contact     string
}

// Create validates, assigns an id and createdAt, appends the entry and
// rewrites the document.
func (s *Store) Create(in CreateInput) (*domain.ServerEntry, error) {
	name := strings.TrimSpace(in.Name)
	host := strings.TrimSpace(in.Host)
	if name == "" {
		return nil, ErrNameRequired
	}
	if host == "" {
		return nil, ErrHostRequired
	}

	doc, err := s.read()
	if err != nil {
		// Unreadable document: start over from empty rather than refuse
		// registrations. The rewrite below replaces whatever was on disk.
		s.log.Warn("registry unreadable, starting from an empty document", logger.Error(err))
	}

	entry := domain.ServerEntry{
		ID:          s.newID(),
		Name:        name,
		Host:        host,
		Port:        in.Port.Value(),
		Description: strings.TrimSpace(in.Description),
		Contact:     strings.TrimSpace(in.Contact),
		CreatedAt:   s.now(),
	}
	doc.Servers = append(doc.Servers, entry)

	if err := s.write(doc); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateInput carries a partial update. Nil pointers mean "field not
// submitted". Name and host are additionally ignored when submitted blank:
// an update can never clear them. Description and contact are applied
// whenever present, explicitly empty included.
type UpdateInput struct {
	Name        *string
	Host        *string
	Port        domain.Port
	Description *string
	Contact     *string
}

// Update applies the submitted fields to the entry with the given id, stamps
// updatedAt and rewrites the document.
func (s *Store) Update(id string, in UpdateInput) (*domain.ServerEntry, error) {
	doc, err := s.read()
	if err != nil {
		s.log.Warn("registry read failed during update", logger.Error(err))
	}

	idx := -1
	for i := range doc.Servers {
		if doc.Servers[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}

	entry := &doc.Servers[idx]
	if in.Name != nil {
		if v := strings.TrimSpace(*in.Name); v != "" {
			entry.Name = v
		}
	}
	if in.Host != nil {
		if v := strings.TrimSpace(*in.Host); v != "" {
			entry.Host = v
		}
	}
	if in.Port.Provided() && in.Port.Usable() {
		entry.Port = in.Port.Value()
	}
	if in.Description != nil {
		entry.Description = strings.TrimSpace(*in.Description)
	}
	if in.Contact != nil {
		entry.Contact = strings.TrimSpace(*in.Contact)
	}
	updated := s.now()
	entry.UpdatedAt = &updated

	if err := s.write(doc); err != nil {
		return nil, err
	}
	out := *entry
	return &out, nil
}

// Delete removes the entry with the given id and rewrites the document.
func (s *Store) Delete(id string) error {
	doc, err := s.read()
	if err != nil {
		s.log.Warn("registry read failed during delete", logger.Error(err))
	}

	kept := make([]domain.ServerEntry, 0, len(doc.Servers))
	for _, entry := range doc.Servers {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(doc.Servers) {
		return ErrNotFound
	}
	doc.Servers = kept

	return s.write(doc)
}

// read loads the whole document. Missing or corrupt files yield an empty
// document plus the error; read failures are never fatal.
func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, fmt.Errorf("read registry document: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("parse registry document: %w", err)
	}
	return doc, nil
}

// write rewrites the whole document in place.
func (s *Store) write(doc document) error {
	if doc.Servers == nil {
		doc.Servers = []domain.ServerEntry{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersist, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
