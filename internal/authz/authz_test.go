package authz_test

import (
	"testing"

	"feedback-service/internal/authz"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		owner   string
		allowed bool
	}{
		{"owner matches", "alice", "alice", true},
		{"different user", "bob", "alice", false},
		{"anonymous actor", "", "alice", false},
		{"anonymous actor and empty owner", "", "", false},
		{"actor set but empty owner", "alice", "", false},
		{"case sensitive", "Alice", "alice", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.Authorize(tt.actor, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, authz.ErrUnauthorized)
			}
		})
	}
}
