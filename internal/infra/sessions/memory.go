package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/wizard"
)

type memoryEntry struct {
	data      []byte
	version   int64
	expiresAt time.Time
}

// MemoryStore хранит сессии в памяти процесса.
// Сессии хранятся в сериализованном виде, поэтому вызывающий код никогда не делит с хранилищем указатели.
type MemoryStore struct {
	mu           sync.Mutex
	entries      map[string]memoryEntry
	timeProvider TimeProvider
}

// NewMemoryStore создает хранилище сессий в памяти
func NewMemoryStore(timeProvider TimeProvider) *MemoryStore {
	if timeProvider == nil {
		timeProvider = RealTimeProvider{}
	}
	return &MemoryStore{
		entries:      make(map[string]memoryEntry),
		timeProvider: timeProvider,
	}
}

// Create сохраняет новую сессию
func (s *MemoryStore) Create(ctx context.Context, session *wizard.Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[session.ID]; ok && !s.expired(entry) {
		return ErrSessionExists
	}
	s.entries[session.ID] = memoryEntry{data: data, version: session.Version, expiresAt: session.ExpiresAt}
	return nil
}

// Get возвращает копию сессии
func (s *MemoryStore) Get(ctx context.Context, id string) (*wizard.Session, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && s.expired(entry) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return decode(entry.data)
}

// Save перезаписывает сессию, если её версия не изменилась с момента чтения.
// При успехе версия сессии увеличивается на единицу.
func (s *MemoryStore) Save(ctx context.Context, session *wizard.Session) error {
	expected := session.Version
	next := *session
	next.Version = expected + 1

	data, err := encode(&next)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[session.ID]
	if !ok || s.expired(entry) {
		delete(s.entries, session.ID)
		return ErrSessionNotFound
	}
	if entry.version != expected {
		return ErrVersionConflict
	}

	s.entries[session.ID] = memoryEntry{data: data, version: next.Version, expiresAt: next.ExpiresAt}
	session.Version = next.Version
	return nil
}

// Delete удаляет сессию
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Len возвращает количество хранимых сессий, включая еще не вычищенные истекшие
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Cleanup удаляет истекшие сессии и возвращает их количество
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run периодически вычищает истекшие сессии, пока не отменен ctx
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !s.timeProvider.Now().Before(entry.expiresAt)
}
