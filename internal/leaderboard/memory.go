package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SeedEntries are shown while the local store is still empty. They are
// never written back.
var SeedEntries = []Entry{
	{Username: "DOG", Score: 4200},
	{Username: "PEP", Score: 3100},
	{Username: "WIF", Score: 2500},
	{Username: "BNK", Score: 1200},
	{Username: "MOO", Score: 650},
}

// MemoryStore keeps entries in process, optionally mirrored to a JSON file
// so scores survive a restart. A write that cannot be saved to the file is
// undone in memory as well.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
	path    string
}

// NewMemoryStore loads path when it exists. An empty path keeps everything in memory.
func NewMemoryStore(path string) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*Entry),
		path:    path,
	}
	if path != "" {
		if err := s.load(); err != nil {
			log.Warn().Err(err).Str("component", "leaderboard").Str("path", path).Msg("ignoring unreadable local leaderboard")
		}
	}
	return s
}

func (s *MemoryStore) FetchTop(ctx context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		seeds := append([]Entry(nil), SeedEntries...)
		Rank(seeds)
		return truncate(seeds, n), nil
	}
	list := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		list = append(list, *e)
	}
	Rank(list)
	return truncate(list, n), nil
}

func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[username]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, score int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			prev := *e
			e.Score = score
			e.UpdatedAt = at
			if err := s.save(); err != nil {
				*e = prev
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("entry %s not found", id)
}

func (s *MemoryStore) Insert(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[e.Username]; exists {
		return fmt.Errorf("entry for %s already exists", e.Username)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.entries[e.Username] = &e
	if err := s.save(); err != nil {
		delete(s.entries, e.Username)
		return err
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading local leaderboard: %w", err)
	}
	var list []Entry
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("decoding local leaderboard: %w", err)
	}
	for i := range list {
		e := list[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		s.entries[e.Username] = &e
	}
	return nil
}

func (s *MemoryStore) save() error {
	if s.path == "" {
		return nil
	}
	list := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		list = append(list, *e)
	}
	Rank(list)
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding local leaderboard: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("writing local leaderboard: %w", err)
	}
	return os.Rename(tmp, s.path)
}
