package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
)

// AuthzService resolves permission sets and decides whether a session may
// invoke an operation. It holds no per-request state.
type AuthzService struct {
	perms ports.PermissionStore
	log   *slog.Logger
}

// NewAuthzService creates a new authorization service.
func NewAuthzService(perms ports.PermissionStore, log *slog.Logger) *AuthzService {
	return &AuthzService{perms: perms, log: log}
}

// Resolve returns the permission set granted to the identity. The lookup
// is delegated to the permission store on every call; any caching belongs
// behind that port.
func (s *AuthzService) Resolve(ctx context.Context, identity string) (core.PermissionSet, error) {
	codes, err := s.perms.LookupCodes(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	return core.NewPermissionSet(codes...), nil
}

// Authorize enforces the operation's declared requirement against the
// session. A nil requirement means the operation is public.
func (s *AuthzService) Authorize(ctx context.Context, requirement *core.Requirement, session *core.Session) error {
	if requirement == nil {
		return nil
	}

	if !session.Authenticated() {
		return core.ErrUnauthenticated
	}

	granted, err := s.Resolve(ctx, session.Identity)
	if err != nil {
		return err
	}

	if !requirement.Satisfied(granted) {
		s.log.Info("authorization denied",
			"identity", session.Identity,
			"combinator", requirement.Combinator.String(),
			"codes", requirement.Codes)
		return core.ErrForbidden
	}

	return nil
}
