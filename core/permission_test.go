package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequirementSatisfiedAll(t *testing.T) {
	tests := []struct {
		name    string
		codes   []string
		granted []string
		want    bool
	}{
		{
			name:    "exact match",
			codes:   []string{"post:view", "post:create"},
			granted: []string{"post:view", "post:create"},
			want:    true,
		},
		{
			name:    "superset grants",
			codes:   []string{"post:view", "post:create"},
			granted: []string{"post:view", "post:create", "post:delete"},
			want:    true,
		},
		{
			name:    "one missing",
			codes:   []string{"post:view", "post:publish"},
			granted: []string{"post:view", "post:create"},
			want:    false,
		},
		{
			name:    "all missing",
			codes:   []string{"admin"},
			granted: []string{"post:view"},
			want:    false,
		},
		{
			name:    "empty codes vacuously true",
			codes:   nil,
			granted: nil,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := RequireAll(tt.codes...)
			got := req.Satisfied(NewPermissionSet(tt.granted...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequirementSatisfiedAny(t *testing.T) {
	tests := []struct {
		name    string
		codes   []string
		granted []string
		want    bool
	}{
		{
			name:    "one of two granted",
			codes:   []string{"post:publish", "admin"},
			granted: []string{"admin"},
			want:    true,
		},
		{
			name:    "all granted",
			codes:   []string{"post:view", "post:create"},
			granted: []string{"post:view", "post:create"},
			want:    true,
		},
		{
			name:    "no intersection",
			codes:   []string{"post:publish", "admin"},
			granted: []string{"post:view"},
			want:    false,
		},
		{
			name:    "empty codes fail closed",
			codes:   nil,
			granted: []string{"post:view", "admin"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := RequireAny(tt.codes...)
			got := req.Satisfied(NewPermissionSet(tt.granted...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionSet(t *testing.T) {
	set := NewPermissionSet("post:view", "post:view", "post:create")

	assert.Len(t, set, 2)
	assert.True(t, set.Has("post:view"))
	assert.False(t, set.Has("post:delete"))
}

func TestSessionAuthenticated(t *testing.T) {
	assert.False(t, (&Session{ID: "s1"}).Authenticated())
	assert.True(t, (&Session{ID: "s1", Identity: "alice"}).Authenticated())

	var nilSession *Session
	assert.False(t, nilSession.Authenticated())
}
