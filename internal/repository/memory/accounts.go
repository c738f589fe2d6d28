package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
)

type historyRepository struct {
	s *Store
}

func (r *historyRepository) Create(_ context.Context, h *domain.GrievanceHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.history[h.GrievanceID] = append(r.s.history[h.GrievanceID], *h)
	return nil
}

func (r *historyRepository) ListByGrievance(_ context.Context, grievanceID string) ([]domain.GrievanceHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entries := r.s.history[grievanceID]
	out := make([]domain.GrievanceHistory, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type petitionerRepository struct {
	s *Store
}

func clonePetitioner(p *domain.Petitioner) *domain.Petitioner {
	out := *p
	out.Preferences = copyPrefs(p.Preferences)
	return &out
}

func (r *petitionerRepository) Create(_ context.Context, p *domain.Petitioner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.petitioners {
		if existing.ID == p.ID || sameEmail(existing.Email, p.Email) {
			return repository.ErrDuplicate
		}
	}
	r.s.petitioners[p.ID] = clonePetitioner(p)
	return nil
}

func (r *petitionerRepository) Update(_ context.Context, p *domain.Petitioner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.petitioners[p.ID]; !ok {
		return repository.ErrNoRows
	}
	for _, existing := range r.s.petitioners {
		if existing.ID != p.ID && sameEmail(existing.Email, p.Email) {
			return repository.ErrDuplicate
		}
	}
	r.s.petitioners[p.ID] = clonePetitioner(p)
	return nil
}

func (r *petitionerRepository) GetByID(_ context.Context, id string) (*domain.Petitioner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.petitioners[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return clonePetitioner(p), nil
}

func (r *petitionerRepository) GetByEmail(_ context.Context, email string) (*domain.Petitioner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.petitioners {
		if sameEmail(p.Email, email) {
			return clonePetitioner(p), nil
		}
	}
	return nil, repository.ErrNoRows
}

type officialRepository struct {
	s *Store
}

func cloneOfficial(o *domain.Official) *domain.Official {
	out := *o
	out.Preferences = copyPrefs(o.Preferences)
	return &out
}

func (r *officialRepository) Create(_ context.Context, o *domain.Official) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.officials {
		if existing.ID == o.ID || sameEmail(existing.Email, o.Email) {
			return repository.ErrDuplicate
		}
		if existing.Department == o.Department && existing.EmployeeID == o.EmployeeID {
			return repository.ErrDuplicate
		}
	}
	r.s.officials[o.ID] = cloneOfficial(o)
	return nil
}

func (r *officialRepository) Update(_ context.Context, o *domain.Official) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.officials[o.ID]
	if !ok {
		return repository.ErrNoRows
	}
	for _, existing := range r.s.officials {
		if existing.ID != o.ID && sameEmail(existing.Email, o.Email) {
			return repository.ErrDuplicate
		}
	}
	updated := cloneOfficial(o)
	updated.Department = current.Department
	updated.EmployeeID = current.EmployeeID
	r.s.officials[o.ID] = updated
	return nil
}

func (r *officialRepository) GetByID(_ context.Context, id string) (*domain.Official, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.officials[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return cloneOfficial(o), nil
}

func (r *officialRepository) GetByEmail(_ context.Context, email string) (*domain.Official, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.officials {
		if sameEmail(o.Email, email) {
			return cloneOfficial(o), nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *officialRepository) ListByDepartment(_ context.Context, department domain.Department) ([]domain.Official, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Official
	for _, o := range r.s.officials {
		if o.Department == department {
			result = append(result, *cloneOfficial(o))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EmployeeID != result[j].EmployeeID {
			return result[i].EmployeeID < result[j].EmployeeID
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type adminRepository struct {
	s *Store
}

func cloneAdmin(a *domain.Admin) *domain.Admin {
	out := *a
	out.Preferences = copyPrefs(a.Preferences)
	return &out
}

func (r *adminRepository) Create(_ context.Context, a *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.admins {
		if existing.ID == a.ID || existing.AdminID == a.AdminID || sameEmail(existing.Email, a.Email) {
			return repository.ErrDuplicate
		}
	}
	r.s.admins[a.ID] = cloneAdmin(a)
	return nil
}

func (r *adminRepository) Update(_ context.Context, a *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.admins[a.ID]; !ok {
		return repository.ErrNoRows
	}
	for _, existing := range r.s.admins {
		if existing.ID != a.ID && sameEmail(existing.Email, a.Email) {
			return repository.ErrDuplicate
		}
	}
	r.s.admins[a.ID] = cloneAdmin(a)
	return nil
}

func (r *adminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.admins[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return cloneAdmin(a), nil
}

func (r *adminRepository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.admins {
		if sameEmail(a.Email, email) {
			return cloneAdmin(a), nil
		}
	}
	return nil, repository.ErrNoRows
}
