package core

// Combinator selects how a requirement's permission codes combine into
// one decision.
type Combinator int

const (
	// All requires every listed code to be granted.
	All Combinator = iota
	// Any requires at least one listed code to be granted.
	Any
)

// String returns the combinator name.
func (c Combinator) String() string {
	switch c {
	case All:
		return "all"
	case Any:
		return "any"
	default:
		return "unknown"
	}
}

// Requirement is the permission declaration attached to an operation at
// registration time. A nil Requirement means the operation is public.
type Requirement struct {
	Codes      []string
	Combinator Combinator
}

// RequireAll declares a requirement where every code must be granted.
// With no codes it is vacuously satisfied, which makes it the
// "authenticated users only" requirement.
func RequireAll(codes ...string) *Requirement {
	return &Requirement{Codes: codes, Combinator: All}
}

// RequireAny declares a requirement where one granted code suffices.
func RequireAny(codes ...string) *Requirement {
	return &Requirement{Codes: codes, Combinator: Any}
}

// Satisfied evaluates the requirement against a granted permission set.
// An empty code list under Any is never satisfied: "any of none" has no
// code that could match, so the evaluation fails closed.
func (r *Requirement) Satisfied(granted PermissionSet) bool {
	switch r.Combinator {
	case All:
		for _, code := range r.Codes {
			if !granted.Has(code) {
				return false
			}
		}
		return true
	case Any:
		for _, code := range r.Codes {
			if granted.Has(code) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// PermissionSet is the set of permission codes resolved for an identity.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from a list of codes.
func NewPermissionSet(codes ...string) PermissionSet {
	set := make(PermissionSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Has reports whether the code is in the set.
func (ps PermissionSet) Has(code string) bool {
	_, ok := ps[code]
	return ok
}
