// Package notes stores free-text annotations about characters.
//
// Notes are msgpack-encoded records in a [kv.Store], grouped by character
// id so that listing a character's notes is a single prefix scan. A
// reverse index by note id keeps point lookups cheap.
package notes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/schwiftylabs/portal/pkg/kv"
)

// ErrNotFound is returned when a note id does not exist.
var ErrNotFound = errors.New("notes: note not found")

// Note is a free-text annotation attached to a character.
type Note struct {
	// ID is the unique note identifier (a UUID).
	ID string `json:"id" msgpack:"id"`

	// CharacterID is the id of the character this note is about.
	CharacterID int `json:"character_id" msgpack:"character_id"`

	// CharacterName is the character's name at the time the note was
	// written. Kept denormalized so notes render without an API lookup.
	CharacterName string `json:"character_name" msgpack:"character_name"`

	// Text is the note content.
	Text string `json:"note" msgpack:"note"`

	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
	UpdatedAt time.Time `json:"updated_at" msgpack:"updated_at"`
}

// Store persists notes in a key-value store.
type Store struct {
	kv     kv.Store
	prefix kv.Key

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix. Default is "note".
func WithPrefix(prefix ...string) Option {
	return func(s *Store) {
		s.prefix = kv.Key(prefix)
	}
}

// New creates a note store on top of store. The store's lifecycle is the
// caller's; Close it when done.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		prefix: kv.Key{"note"},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new note and returns it with its generated id and
// timestamps filled in.
func (s *Store) Create(ctx context.Context, characterID int, characterName, text string) (*Note, error) {
	now := s.now().UTC()
	n := &Note{
		ID:            uuid.New().String(),
		CharacterID:   characterID,
		CharacterName: characterName,
		Text:          text,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	data, err := msgpack.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("notes: encode note: %w", err)
	}

	// Record and reverse index land together or not at all.
	entries := []kv.Entry{
		{Key: noteKey(s.prefix, characterID, n.ID), Value: data},
		{Key: idKey(s.prefix, n.ID), Value: []byte(strconv.Itoa(characterID))},
	}
	if err := s.kv.BatchSet(ctx, entries); err != nil {
		return nil, fmt.Errorf("notes: store note: %w", err)
	}
	return n, nil
}

// Get returns a note by id.
func (s *Store) Get(ctx context.Context, noteID string) (*Note, error) {
	characterID, err := s.resolve(ctx, noteID)
	if err != nil {
		return nil, err
	}

	data, err := s.kv.Get(ctx, noteKey(s.prefix, characterID, noteID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("notes: load note %s: %w", noteID, err)
	}

	var n Note
	if err := msgpack.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("notes: decode note %s: %w", noteID, err)
	}
	return &n, nil
}

// ListByCharacter returns all notes for a character, newest first.
func (s *Store) ListByCharacter(ctx context.Context, characterID int) ([]Note, error) {
	var out []Note
	for entry, err := range s.kv.List(ctx, characterPrefix(s.prefix, characterID)) {
		if err != nil {
			return nil, fmt.Errorf("notes: list notes for character %d: %w", characterID, err)
		}
		var n Note
		if err := msgpack.Unmarshal(entry.Value, &n); err != nil {
			continue // skip malformed entries
		}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces a note's text and bumps UpdatedAt. The creation
// timestamp is preserved.
func (s *Store) Update(ctx context.Context, noteID, text string) (*Note, error) {
	n, err := s.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}

	n.Text = text
	n.UpdatedAt = s.now().UTC()

	data, err := msgpack.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("notes: encode note: %w", err)
	}
	if err := s.kv.Set(ctx, noteKey(s.prefix, n.CharacterID, n.ID), data); err != nil {
		return nil, fmt.Errorf("notes: store note: %w", err)
	}
	return n, nil
}

// Delete removes a note by id.
func (s *Store) Delete(ctx context.Context, noteID string) error {
	characterID, err := s.resolve(ctx, noteID)
	if err != nil {
		return err
	}

	keys := []kv.Key{
		noteKey(s.prefix, characterID, noteID),
		idKey(s.prefix, noteID),
	}
	if err := s.kv.BatchDelete(ctx, keys); err != nil {
		return fmt.Errorf("notes: delete note %s: %w", noteID, err)
	}
	return nil
}

// resolve maps a note id to its character id via the reverse index.
func (s *Store) resolve(ctx context.Context, noteID string) (int, error) {
	raw, err := s.kv.Get(ctx, idKey(s.prefix, noteID))
	if errors.Is(err, kv.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("notes: resolve note %s: %w", noteID, err)
	}
	characterID, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("notes: corrupt id index for note %s: %w", noteID, err)
	}
	return characterID, nil
}
