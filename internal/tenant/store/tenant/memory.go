package tenant

import (
	"context"
	"sort"
	"strings"
	"sync"

	"govern/internal/tenant/models"
	id "govern/pkg/domain"
	"govern/pkg/platform/sentinel"
)

// InMemory is the in-process tenant store used for tests and single-node
// deployments without a database.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[id.TenantID]*models.Tenant
	nameIdx map[string]id.TenantID
}

// NewInMemory creates an empty in-memory tenant store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[id.TenantID]*models.Tenant),
		nameIdx: make(map[string]id.TenantID),
	}
}

// CreateIfNameAvailable inserts the tenant unless its name (case-insensitive)
// is already taken, in which case it returns sentinel.ErrAlreadyUsed.
func (s *InMemory) CreateIfNameAvailable(ctx context.Context, t *models.Tenant) error {
	key := strings.ToLower(t.Name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.nameIdx[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[t.ID] = cloneTenant(t)
	s.nameIdx[key] = t.ID
	return nil
}

// FindByID returns the tenant or sentinel.ErrNotFound.
func (s *InMemory) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneTenant(t), nil
}

// FindByName returns the tenant by case-insensitive name.
func (s *InMemory) FindByName(ctx context.Context, name string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenantID, ok := s.nameIdx[strings.ToLower(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneTenant(s.byID[tenantID]), nil
}

// Update replaces a stored tenant. Missing tenants yield sentinel.ErrNotFound.
func (s *InMemory) Update(ctx context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[t.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !strings.EqualFold(existing.Name, t.Name) {
		key := strings.ToLower(t.Name)
		if _, taken := s.nameIdx[key]; taken {
			return sentinel.ErrAlreadyUsed
		}
		delete(s.nameIdx, strings.ToLower(existing.Name))
		s.nameIdx[key] = t.ID
	}
	s.byID[t.ID] = cloneTenant(t)
	return nil
}

// List returns all tenants sorted by name.
func (s *InMemory) List(ctx context.Context) ([]*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Tenant, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, cloneTenant(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// cloneTenant copies the aggregate so callers can't mutate stored state.
func cloneTenant(t *models.Tenant) *models.Tenant {
	cp := *t
	if t.Modules != nil {
		cp.Modules = append(cp.Modules[:0:0], t.Modules...)
	}
	return &cp
}
