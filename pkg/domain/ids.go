// Package domain holds strongly typed identifiers shared across modules.
//
// IDs are distinct types over uuid.UUID so the compiler rejects mixing a
// tenant ID with any other identifier.
package domain

import (
	"github.com/google/uuid"

	dErrors "govern/pkg/domain-errors"
)

// TenantID identifies one local-government customer.
type TenantID uuid.UUID

func (id TenantID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the ID is the nil UUID.
func (id TenantID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// ParseTenantID parses and validates a tenant ID from its string form.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}
