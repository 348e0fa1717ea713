package sentinel

import "errors"

// Store-level sentinel errors. Stores report factual resource states with
// these (optionally wrapped); the service layer translates them into coded
// domain errors before they reach a handler.
//
//   - ErrNotFound: the entity does not exist in the store
//   - ErrAlreadyUsed: a unique key (e.g. tenant name) is already taken
//   - ErrUnavailable: the backing store cannot be reached right now
//
// Input validation never uses these; that is pkg/domain-errors territory.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
