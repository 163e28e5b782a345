package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
)

var _ domain.Store = (*Store)(nil)

// Store keeps every user's analyses in process memory.
// One RWMutex guards the whole map; it is held only for the map operation.
type Store struct {
	mu      sync.RWMutex
	history map[string][]domain.Analysis
	// users in first-insertion order, so FindByID scans deterministically
	users []string
}

func NewStore() *Store {
	return &Store{history: make(map[string][]domain.Analysis)}
}

// Record appends a to userID's history, creating it if absent.
func (s *Store) Record(_ context.Context, userID string, a domain.Analysis) error {
	a = a.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.history[userID]; !ok {
		s.users = append(s.users, userID)
	}
	s.history[userID] = append(s.history[userID], a)
	return nil
}

// History returns a copy of userID's analyses in insertion order.
func (s *Store) History(_ context.Context, userID string) ([]domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.history[userID]
	out := make([]domain.Analysis, 0, len(list))
	for _, a := range list {
		out = append(out, a.Clone())
	}
	return out, nil
}

// FindByID scans users in first-insertion order and returns the first match.
func (s *Store) FindByID(_ context.Context, id domain.AnalysisID) (domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		for _, a := range s.history[user] {
			if a.ResumeID == id {
				return a.Clone(), nil
			}
		}
	}
	return domain.Analysis{}, domain.ErrNotFound
}

// Len returns the total number of analyses across all users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, list := range s.history {
		n += len(list)
	}
	return n
}
