// Package reactionrole implements self-assignable roles: an administrator
// posts an embed, the bot seeds it with one reaction per configured emoji,
// and members toggle the paired role by adding or removing that reaction.
package reactionrole

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Pair binds one emoji on the message to one role.
type Pair struct {
	Emoji  string `json:"emoji"`
	RoleID string `json:"roleId"`
}

// EmbedMeta is the last-rendered embed content, kept so the dashboard can
// pre-fill the edit form. The live message is authoritative after manual
// edits elsewhere.
type EmbedMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Footer      string `json:"footer"`
}

// Config is one managed reaction-role message, keyed in the store by the
// ID of the posted message.
type Config struct {
	ChannelID   string    `json:"channelId"`
	ChannelName string    `json:"channelName"`
	Pairs       []Pair    `json:"pairs"`
	Embed       EmbedMeta `json:"embed"`
}

// Store holds every reaction-role config, backed by a single JSON file.
// The file layout (message ID -> config) matches what earlier versions of
// the bot wrote, so an existing reactionroles.json loads unchanged.
// Mutations persist the whole map before returning.
type Store struct {
	mu    sync.Mutex
	path  string
	items map[string]Config
}

// Open reads the backing file. A missing file is an empty store; a file
// that cannot be parsed or that contains invalid records is a startup
// error.
func Open(path string) (*Store, error) {
	s := &Store{path: path, items: make(map[string]Config)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read reaction roles %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.items); err != nil {
		return nil, fmt.Errorf("parse reaction roles %s: %w", path, err)
	}
	for id, cfg := range s.items {
		if err := validate(id, cfg); err != nil {
			return nil, fmt.Errorf("reaction roles %s: %w", path, err)
		}
	}
	return s, nil
}

func validate(messageID string, cfg Config) error {
	if messageID == "" {
		return errors.New("entry with empty message id")
	}
	if cfg.ChannelID == "" {
		return fmt.Errorf("entry %s: missing channelId", messageID)
	}
	if len(cfg.Pairs) == 0 {
		return fmt.Errorf("entry %s: no emoji/role pairs", messageID)
	}
	for n, p := range cfg.Pairs {
		if p.Emoji == "" || p.RoleID == "" {
			return fmt.Errorf("entry %s: pair %d incomplete", messageID, n)
		}
	}
	return nil
}

// Get returns the config for a message, if it is managed.
func (s *Store) Get(messageID string) (Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.items[messageID]
	return cfg, ok
}

// Upsert stores a config and persists the store.
func (s *Store) Upsert(messageID string, cfg Config) error {
	if err := validate(messageID, cfg); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.items[messageID]
	s.items[messageID] = cfg
	if err := s.persist(); err != nil {
		if had {
			s.items[messageID] = prev
		} else {
			delete(s.items, messageID)
		}
		return err
	}
	return nil
}

// Remove drops a config and persists the store. Removing an unknown
// message is a no-op.
func (s *Store) Remove(messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.items[messageID]
	if !had {
		return nil
	}
	delete(s.items, messageID)
	if err := s.persist(); err != nil {
		s.items[messageID] = prev
		return err
	}
	return nil
}

// All returns a copy of every config keyed by message ID.
func (s *Store) All() map[string]Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Config, len(s.items))
	for id, cfg := range s.items {
		out[id] = cfg
	}
	return out
}

// MessageIDs returns the managed message IDs in stable order.
func (s *Store) MessageIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// persist writes the whole map to the backing file. Caller holds s.mu.
// Write-then-rename keeps a crash from truncating the previous file.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
