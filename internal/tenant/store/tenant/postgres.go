package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"govern/internal/domain"
	"govern/internal/tenant/models"
	id "govern/pkg/domain"
	"govern/pkg/platform/sentinel"
)

// PostgresStore persists tenants in postgres. Module entries live in a JSONB
// column: they are read and written as one unit, matching the aggregate's
// replace-wholesale semantics.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres creates a store over an existing connection pool.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Schema is the DDL for the tenants table. Applied by migrations in
// deployments; tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS tenants (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    jurisdiction_code TEXT NOT NULL,
    entity_class TEXT NOT NULL,
    population INT,
    county TEXT,
    modules JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS tenants_name_lower_idx ON tenants (LOWER(name));
`

// CreateIfNameAvailable inserts the tenant; the unique index on LOWER(name)
// makes concurrent duplicate creation race-free.
func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, t *models.Tenant) error {
	modules, err := json.Marshal(moduleEntries(t.Modules))
	if err != nil {
		return fmt.Errorf("marshal modules: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO tenants (id, name, jurisdiction_code, entity_class, population, county, modules, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID.String(), t.Name, t.JurisdictionCode, string(t.EntityClass),
		t.Population, t.County, modules, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// FindByID returns the tenant or sentinel.ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, jurisdiction_code, entity_class, population, county, modules, created_at, updated_at
		FROM tenants WHERE id = $1`, tenantID.String())
	return scanTenant(row)
}

// FindByName returns the tenant by case-insensitive name.
func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Tenant, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, jurisdiction_code, entity_class, population, county, modules, created_at, updated_at
		FROM tenants WHERE LOWER(name) = LOWER($1)`, name)
	return scanTenant(row)
}

// Update replaces the stored aggregate.
func (s *PostgresStore) Update(ctx context.Context, t *models.Tenant) error {
	modules, err := json.Marshal(moduleEntries(t.Modules))
	if err != nil {
		return fmt.Errorf("marshal modules: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE tenants
		SET name = $2, jurisdiction_code = $3, entity_class = $4, population = $5,
		    county = $6, modules = $7, updated_at = $8
		WHERE id = $1`,
		t.ID.String(), t.Name, t.JurisdictionCode, string(t.EntityClass),
		t.Population, t.County, modules, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// List returns all tenants sorted by name.
func (s *PostgresStore) List(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, jurisdiction_code, entity_class, population, county, modules, created_at, updated_at
		FROM tenants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// moduleEntries normalizes a nil slice to an empty one so the JSONB column
// never stores null.
func moduleEntries(entries []domain.ModuleEntry) []domain.ModuleEntry {
	if entries == nil {
		return []domain.ModuleEntry{}
	}
	return entries
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	var (
		t       models.Tenant
		rawID   string
		class   string
		modules []byte
	)
	err := row.Scan(&rawID, &t.Name, &t.JurisdictionCode, &class, &t.Population, &t.County, &modules, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tenant: %w", err)
	}

	tenantID, err := id.ParseTenantID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse tenant id: %w", err)
	}
	t.ID = tenantID
	t.EntityClass = domain.EntityClass(class)

	if err := json.Unmarshal(modules, &t.Modules); err != nil {
		return nil, fmt.Errorf("unmarshal modules: %w", err)
	}
	return &t, nil
}
