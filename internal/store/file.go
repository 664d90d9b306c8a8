package store

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/micahreeves/what-time/internal/clock"
	"github.com/micahreeves/what-time/internal/domain"
)

const stateVersion = 1

// envelope is the on-disk frame: a version for schema evolution and a
// CRC over the payload bytes so a damaged file is detected on load
// instead of being silently reinterpreted.
type envelope struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	Payload  json.RawMessage `json:"payload"`
}

type payload struct {
	Users map[string]userRow   `json:"users"`
	Chats map[string][]zoneRow `json:"chats,omitempty"`
}

type userRow struct {
	TZ        string `json:"tz"`
	UpdatedAt int64  `json:"updated_at"` // unix seconds, UTC
}

type zoneRow struct {
	Name string `json:"name"`
	TZ   string `json:"tz"`
}

// FileStore keeps all state in memory and mirrors every mutation to a
// single JSON file via write-temp-then-rename, so a crash mid-write
// never leaves a truncated or mixed store behind.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	clk   clock.Clock
	users map[domain.Identity]domain.Record
	chats map[string][]domain.NamedZone
}

// OpenFile loads (or initializes) the store at dir/whattime.json.
// An unreadable or checksum-failing file yields ErrCorruptStore; the
// caller decides whether to abort startup, the store never discards
// existing data on its own.
func OpenFile(dir string, clk clock.Clock) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	s := &FileStore{
		path:  filepath.Join(dir, "whattime.json"),
		clk:   clk,
		users: make(map[domain.Identity]domain.Record),
		chats: make(map[string][]domain.NamedZone),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil // first run
	}
	if err != nil {
		return errors.Wrap(err, "read state file")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
	}
	if env.Version != stateVersion {
		return fmt.Errorf("%w: unsupported version %d", domain.ErrCorruptStore, env.Version)
	}
	if sum := checksum(env.Payload); sum != env.Checksum {
		return fmt.Errorf("%w: checksum mismatch (have %s, want %s)", domain.ErrCorruptStore, sum, env.Checksum)
	}

	var p payload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
	}

	for id, row := range p.Users {
		s.users[domain.Identity(id)] = domain.Record{
			Identity:  domain.Identity(id),
			TZ:        row.TZ,
			UpdatedAt: time.Unix(row.UpdatedAt, 0).UTC(),
		}
	}
	for chatID, rows := range p.Chats {
		zones := make([]domain.NamedZone, 0, len(rows))
		for _, r := range rows {
			zones = append(zones, domain.NamedZone{Name: r.Name, TZ: r.TZ})
		}
		s.chats[chatID] = zones
	}
	return nil
}

// persistLocked writes the given state to disk atomically. Only after
// the rename succeeds does the caller commit the state to memory, so a
// failed write leaves both disk and memory at the prior state.
func (s *FileStore) persistLocked(users map[domain.Identity]domain.Record, chats map[string][]domain.NamedZone) error {
	p := payload{
		Users: make(map[string]userRow, len(users)),
		Chats: make(map[string][]zoneRow, len(chats)),
	}
	for id, rec := range users {
		p.Users[string(id)] = userRow{TZ: rec.TZ, UpdatedAt: rec.UpdatedAt.Unix()}
	}
	for chatID, zones := range chats {
		if len(zones) == 0 {
			continue
		}
		rows := make([]zoneRow, 0, len(zones))
		for _, z := range zones {
			rows = append(rows, zoneRow{Name: z.Name, TZ: z.TZ})
		}
		p.Chats[chatID] = rows
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	out, err := json.Marshal(envelope{
		Version:  stateVersion,
		Checksum: checksum(body),
		Payload:  body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "whattime-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func checksum(b []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(b))
}

func (s *FileStore) Get(_ context.Context, identity domain.Identity) (*domain.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[identity]
	if !ok {
		return nil, false, nil
	}
	out := rec
	return &out, true, nil
}

func (s *FileStore) Set(_ context.Context, identity domain.Identity, tz string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := domain.Record{
		Identity:  identity,
		TZ:        tz,
		UpdatedAt: s.clk.Now().UTC(),
	}
	staged := cloneUsers(s.users)
	staged[identity] = rec

	if err := s.persistLocked(staged, s.chats); err != nil {
		return nil, err
	}
	s.users = staged
	out := rec
	return &out, nil
}

func (s *FileStore) Clear(_ context.Context, identity domain.Identity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[identity]; !ok {
		return false, nil
	}
	staged := cloneUsers(s.users)
	delete(staged, identity)

	if err := s.persistLocked(staged, s.chats); err != nil {
		return false, err
	}
	s.users = staged
	return true, nil
}

func (s *FileStore) All(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Record, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out, nil
}

func (s *FileStore) ChatZones(_ context.Context, chatID string) ([]domain.NamedZone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.NamedZone(nil), s.chats[chatID]...), nil
}

func (s *FileStore) PutChatZone(_ context.Context, chatID, name, tz string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := append([]domain.NamedZone(nil), s.chats[chatID]...)
	replaced := false
	for i := range zones {
		if zones[i].Name == name {
			zones[i].TZ = tz
			replaced = true
			break
		}
	}
	if !replaced {
		if len(zones) >= domain.MaxChatZones {
			return domain.ErrZoneLimit
		}
		zones = append(zones, domain.NamedZone{Name: name, TZ: tz})
		sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
	}

	staged := cloneChats(s.chats)
	staged[chatID] = zones
	if err := s.persistLocked(s.users, staged); err != nil {
		return err
	}
	s.chats = staged
	return nil
}

func (s *FileStore) RemoveChatZone(_ context.Context, chatID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := s.chats[chatID]
	idx := -1
	for i := range zones {
		if zones[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	next := append([]domain.NamedZone(nil), zones[:idx]...)
	next = append(next, zones[idx+1:]...)
	staged := cloneChats(s.chats)
	if len(next) == 0 {
		delete(staged, chatID)
	} else {
		staged[chatID] = next
	}
	if err := s.persistLocked(s.users, staged); err != nil {
		return false, err
	}
	s.chats = staged
	return true, nil
}

func (s *FileStore) ClearChatZones(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chatID]; !ok {
		return nil
	}
	staged := cloneChats(s.chats)
	delete(staged, chatID)
	if err := s.persistLocked(s.users, staged); err != nil {
		return err
	}
	s.chats = staged
	return nil
}

func (s *FileStore) Close() error { return nil }

func cloneUsers(m map[domain.Identity]domain.Record) map[domain.Identity]domain.Record {
	out := make(map[domain.Identity]domain.Record, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneChats(m map[string][]domain.NamedZone) map[string][]domain.NamedZone {
	out := make(map[string][]domain.NamedZone, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
