package ports

import "context"

// PermissionStore resolves the permission codes granted to an identity.
// The store is authoritative: it must never serve a stale grant after a
// revocation has been persisted.
type PermissionStore interface {
	// LookupCodes returns the codes granted to the username. Unknown
	// usernames resolve to an empty list, not an error.
	LookupCodes(ctx context.Context, username string) ([]string, error)

	// Grant adds codes to a username's granted set.
	Grant(ctx context.Context, username string, codes ...string) error
}
