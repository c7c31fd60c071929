// Package authz decides whether an authenticated identity may act on an
// owner-scoped resource. Callers confirm the resource exists before asking,
// so a missing resource surfaces as not-found rather than forbidden.
package authz

import "github.com/dmitrijs2005/taskkeeper/internal/common"

// RequireOwner allows the operation when the requester owns the resource
// and returns common.ErrorForbidden otherwise.
func RequireOwner(requesterID, ownerID int64) error {
	if requesterID != ownerID {
		return common.ErrorForbidden
	}
	return nil
}
