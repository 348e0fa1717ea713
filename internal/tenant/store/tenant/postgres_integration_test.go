//go:build integration

package tenant_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"govern/internal/domain"
	"govern/internal/tenant/models"
	"govern/internal/tenant/store/tenant"
	id "govern/pkg/domain"
	"govern/pkg/platform/sentinel"
	"govern/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *tenant.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	err := s.postgres.ApplySchema(context.Background(), tenant.Schema)
	s.Require().NoError(err)
	s.store = tenant.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "tenants")
	s.Require().NoError(err)
}

func newTestTenant(name string) *models.Tenant {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Tenant{
		ID:               id.TenantID(uuid.New()),
		Name:             name,
		JurisdictionCode: "IN",
		EntityClass:      domain.EntityTown,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// TestConcurrentUniqueNameViolation verifies that concurrent creation attempts
// with the same name result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentUniqueNameViolation() {
	ctx := context.Background()
	tenantName := "Concurrent Test Town " + uuid.NewString()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			t := newTestTenant(tenantName)
			err := s.store.CreateIfNameAvailable(ctx, t)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")

	found, err := s.store.FindByName(ctx, tenantName)
	s.Require().NoError(err)
	s.NotNil(found)
	s.Equal(tenantName, found.Name)
}

// TestCaseInsensitiveUniqueness verifies that tenant names are unique regardless of case.
func (s *PostgresStoreSuite) TestCaseInsensitiveUniqueness() {
	ctx := context.Background()
	baseName := "CaseTest" + uuid.NewString()

	t1 := newTestTenant(baseName)
	err := s.store.CreateIfNameAvailable(ctx, t1)
	s.Require().NoError(err)

	testCases := []string{
		strings.ToUpper(baseName),
		strings.ToLower(baseName),
	}

	for _, name := range testCases {
		t := newTestTenant(name)
		err := s.store.CreateIfNameAvailable(ctx, t)
		s.ErrorIs(err, sentinel.ErrAlreadyUsed, "name %q should conflict with %q", name, baseName)
	}

	for _, name := range testCases {
		found, err := s.store.FindByName(ctx, name)
		s.Require().NoError(err)
		s.Equal(t1.ID, found.ID, "FindByName(%q) should find the same tenant", name)
	}
}

// TestModulesRoundTrip verifies module entries survive the JSONB column.
func (s *PostgresStoreSuite) TestModulesRoundTrip() {
	ctx := context.Background()

	t := newTestTenant("Module Town " + uuid.NewString())
	pop := 4200
	t.Population = &pop
	t.Modules = []domain.ModuleEntry{
		{Domain: "finance", Enabled: true, Overrides: map[string]any{"fireModel": "CONTRACT"}},
		{Domain: "records", Enabled: false},
	}
	err := s.store.CreateIfNameAvailable(ctx, t)
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, t.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Modules, 2)
	s.Equal("finance", found.Modules[0].Domain)
	s.True(found.Modules[0].Enabled)
	s.Equal("CONTRACT", found.Modules[0].Overrides["fireModel"])
	s.False(found.Modules[1].Enabled)
	s.Require().NotNil(found.Population)
	s.Equal(4200, *found.Population)
}

// TestUpdatePersistsModuleChanges verifies Update overwrites the module list.
func (s *PostgresStoreSuite) TestUpdatePersistsModuleChanges() {
	ctx := context.Background()

	t := newTestTenant("Update Town " + uuid.NewString())
	err := s.store.CreateIfNameAvailable(ctx, t)
	s.Require().NoError(err)

	t.Modules = []domain.ModuleEntry{{Domain: "finance", Enabled: true}}
	t.UpdatedAt = time.Now().UTC()
	err = s.store.Update(ctx, t)
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, t.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Modules, 1)
	s.Equal("finance", found.Modules[0].Domain)
}

// TestConcurrentDifferentNames verifies concurrent creation of different tenant names.
func (s *PostgresStoreSuite) TestConcurrentDifferentNames() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var errCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			t := newTestTenant("Town " + uuid.NewString())
			if err := s.store.CreateIfNameAvailable(ctx, t); err != nil {
				errCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(0), errCount.Load(), "no errors expected for unique names")

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(all, goroutines)
}

// TestConcurrentUpdateSameTenant verifies concurrent updates to the same tenant.
func (s *PostgresStoreSuite) TestConcurrentUpdateSameTenant() {
	ctx := context.Background()

	t := newTestTenant("Concurrent Update Town " + uuid.NewString())
	err := s.store.CreateIfNameAvailable(ctx, t)
	s.Require().NoError(err)

	const goroutines = 50
	var wg sync.WaitGroup
	var errCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			updated := *t
			updated.UpdatedAt = time.Now().Add(time.Duration(idx) * time.Millisecond)
			if err := s.store.Update(ctx, &updated); err != nil {
				errCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	s.Equal(int32(0), errCount.Load(), "all updates should succeed (last write wins)")

	found, err := s.store.FindByID(ctx, t.ID)
	s.Require().NoError(err)
	s.NotNil(found)
	s.Equal(t.Name, found.Name)
}

// TestNotFoundError verifies proper error handling for non-existent tenants.
func (s *PostgresStoreSuite) TestNotFoundError() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.TenantID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByName(ctx, "Non Existent Town "+uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)

	t := newTestTenant("Ghost Town")
	err = s.store.Update(ctx, t)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
