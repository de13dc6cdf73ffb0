package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	appErrors "github.com/unclebandit/contacts-backend/internal/errors"
	"github.com/unclebandit/contacts-backend/internal/model"
)

const contactsKey = "contacts"

// JSONFileRepository keeps the contact collection in a single JSON document
// of the form {"contacts": [...]}. Other top-level keys are preserved.
// Every operation reloads the document first if another writer (the seeder,
// a hand edit) replaced or changed the file since it was last read.
type JSONFileRepository struct {
	Path string

	mu       sync.Mutex
	contacts []model.Contact
	other    map[string]json.RawMessage
	loaded   fs.FileInfo
}

// OpenJSONFile loads the document at path, creating it when missing.
func OpenJSONFile(path string) (*JSONFileRepository, error) {
	r := &JSONFileRepository{Path: path}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.syncLocked(); err != nil {
		return nil, err
	}
	return r, nil
}

// syncLocked reloads the document when the file on disk is not the one
// last read or written. A missing file is created empty. Callers hold r.mu.
func (r *JSONFileRepository) syncLocked() error {
	info, err := os.Stat(r.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.contacts, r.other = nil, map[string]json.RawMessage{}
		return r.flush()
	case err != nil:
		return fmt.Errorf("stat %s: %w", r.Path, err)
	}
	if r.loaded != nil && os.SameFile(r.loaded, info) &&
		r.loaded.ModTime().Equal(info.ModTime()) && r.loaded.Size() == info.Size() {
		return nil
	}
	return r.load()
}

func (r *JSONFileRepository) load() error {
	f, err := os.Open(r.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", r.Path, err)
	}
	defer f.Close()

	// stat the open file so the recorded info matches what is decoded
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", r.Path, err)
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", r.Path, err)
	}

	other := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &other); err != nil {
		return fmt.Errorf("decode %s: %w", r.Path, err)
	}
	var contacts []model.Contact
	if list, ok := other[contactsKey]; ok {
		if err := json.Unmarshal(list, &contacts); err != nil {
			return fmt.Errorf("decode %s: %w", r.Path, err)
		}
		delete(other, contactsKey)
	}

	r.contacts, r.other, r.loaded = contacts, other, info
	return nil
}

func (r *JSONFileRepository) List(_ context.Context) ([]model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.syncLocked(); err != nil {
		return nil, err
	}

	out := make([]model.Contact, len(r.contacts))
	copy(out, r.contacts)
	return out, nil
}

func (r *JSONFileRepository) GetByID(_ context.Context, id int) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.syncLocked(); err != nil {
		return nil, err
	}

	i := r.indexOf(id)
	if i < 0 {
		return nil, appErrors.NewContactNotFound(id)
	}
	c := r.contacts[i]
	return &c, nil
}

func (r *JSONFileRepository) Create(_ context.Context, c *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.syncLocked(); err != nil {
		return err
	}

	next := 1
	for _, existing := range r.contacts {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	c.ID = next
	r.contacts = append(r.contacts, *c)

	if err := r.flush(); err != nil {
		r.contacts = r.contacts[:len(r.contacts)-1]
		return err
	}
	return nil
}

func (r *JSONFileRepository) Update(_ context.Context, c *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.syncLocked(); err != nil {
		return err
	}

	i := r.indexOf(c.ID)
	if i < 0 {
		return appErrors.NewContactNotFound(c.ID)
	}
	prev := r.contacts[i]
	r.contacts[i] = *c

	if err := r.flush(); err != nil {
		r.contacts[i] = prev
		return err
	}
	return nil
}

func (r *JSONFileRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.syncLocked(); err != nil {
		return err
	}

	i := r.indexOf(id)
	if i < 0 {
		return appErrors.NewContactNotFound(id)
	}
	prev := r.contacts
	next := make([]model.Contact, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	r.contacts = next

	if err := r.flush(); err != nil {
		r.contacts = prev
		return err
	}
	return nil
}

// Ping reports whether the document is still readable.
func (r *JSONFileRepository) Ping(_ context.Context) error {
	_, err := os.Stat(r.Path)
	return err
}

func (r *JSONFileRepository) indexOf(id int) int {
	for i, c := range r.contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// flush rewrites the document atomically. Callers hold r.mu.
func (r *JSONFileRepository) flush() error {
	doc := make(map[string]any, len(r.other)+1)
	for k, v := range r.other {
		doc[k] = v
	}
	contacts := r.contacts
	if contacts == nil {
		contacts = []model.Contact{}
	}
	doc[contactsKey] = contacts

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.Path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.Path), ".contacts-*.json")
	if err != nil {
		return fmt.Errorf("write %s: %w", r.Path, err)
	}
	if _, err := tmp.Write(append(body, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", r.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", r.Path, err)
	}
	if err := os.Rename(tmp.Name(), r.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", r.Path, err)
	}

	info, err := os.Stat(r.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", r.Path, err)
	}
	r.loaded = info
	return nil
}

var _ ContactRepositoryInterface = (*JSONFileRepository)(nil)
