// Package memory holds mutex-guarded implementations of the repository
// interfaces. They honor the same conditional-update contract as the
// Postgres repositories and back the tests and database-less runs.
package memory

import (
	"strings"
	"sync"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
)

// Store is the shared in-memory data set.
type Store struct {
	mu          sync.RWMutex
	grievances  map[string]*domain.Grievance
	history     map[string][]domain.GrievanceHistory
	petitioners map[string]*domain.Petitioner
	officials   map[string]*domain.Official
	admins      map[string]*domain.Admin
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		grievances:  make(map[string]*domain.Grievance),
		history:     make(map[string][]domain.GrievanceHistory),
		petitioners: make(map[string]*domain.Petitioner),
		officials:   make(map[string]*domain.Official),
		admins:      make(map[string]*domain.Admin),
	}
}

// Grievances returns the grievance repository view of the store.
func (s *Store) Grievances() repository.GrievanceRepository { return &grievanceRepository{s: s} }

// History returns the grievance history repository view of the store.
func (s *Store) History() repository.GrievanceHistoryRepository {
	return &historyRepository{s: s}
}

// Petitioners returns the petitioner repository view of the store.
func (s *Store) Petitioners() repository.PetitionerRepository {
	return &petitionerRepository{s: s}
}

// Officials returns the official repository view of the store.
func (s *Store) Officials() repository.OfficialRepository { return &officialRepository{s: s} }

// Admins returns the admin repository view of the store.
func (s *Store) Admins() repository.AdminRepository { return &adminRepository{s: s} }

func copyPrefs(prefs map[string]any) map[string]any {
	out := make(map[string]any, len(prefs))
	for k, v := range prefs {
		out[k] = v
	}
	return out
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
