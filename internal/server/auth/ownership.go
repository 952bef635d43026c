package auth

import "github.com/dmitrijs2005/taskkeeper/internal/common"

// Authorize allows the action only when the identity owns the resource.
// It returns common.ErrNotOwner otherwise, including when either id is empty.
func Authorize(id Identity, resourceOwnerID string) error {
	if id.SubjectID == "" || resourceOwnerID == "" {
		return common.ErrNotOwner
	}
	if id.SubjectID != resourceOwnerID {
		return common.ErrNotOwner
	}
	return nil
}
