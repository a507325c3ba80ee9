package authz

import "errors"

// ErrUnauthorized is returned whenever the session identity is missing or
// does not match the owner of the targeted resource.
var ErrUnauthorized = errors.New("unauthorized")

// Authorize allows an operation only when actor is a non-empty session
// identity equal to the resource owner. Ownership equality is the sole
// authorization rule; there are no roles and no admin override.
func Authorize(actor, owner string) error {
	if actor == "" || actor != owner {
		return ErrUnauthorized
	}
	return nil
}
