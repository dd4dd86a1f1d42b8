// Package service holds the domain logic the handlers call into: the
// authorization predicates, the price-history engine, gallery management
// and order assembly.
package service

import (
	"marketplace-api/internal/model"
)

// Policy evaluates pure authorization predicates over (actor, resource).
// Predicates operate on preloaded data and never touch the database.
type Policy struct {
	// OpenSpaceCreation keeps space creation open to any authenticated
	// actor until an entitlement system lands.
	OpenSpaceCreation bool
}

// NewPolicy creates a policy engine with the given toggles
func NewPolicy(openSpaceCreation bool) Policy {
	return Policy{OpenSpaceCreation: openSpaceCreation}
}

// membershipRole returns the user's pivot role in the space, if any.
// The space must have Members preloaded.
func membershipRole(space *model.Space, userID uint) (string, bool) {
	for _, m := range space.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// CanManageSpace reports whether the user owns the space or holds any
// membership role in it.
func (Policy) CanManageSpace(user *model.User, space *model.Space) bool {
	if user == nil {
		return false
	}
	if space.OwnerID == user.ID {
		return true
	}
	_, ok := membershipRole(space, user.ID)
	return ok
}

// IsAdminOfSpace reports whether the user owns the space or is a space_admin
// member. The owner is admin-equivalent regardless of membership rows.
func (Policy) IsAdminOfSpace(user *model.User, space *model.Space) bool {
	if user == nil {
		return false
	}
	if space.OwnerID == user.ID {
		return true
	}
	role, ok := membershipRole(space, user.ID)
	return ok && role == model.SpaceRoleAdmin
}

// IsWorkerOfSpace reports whether the user holds a space_worker membership.
// Ownership does not implicitly qualify.
func (Policy) IsWorkerOfSpace(user *model.User, space *model.Space) bool {
	if user == nil {
		return false
	}
	role, ok := membershipRole(space, user.ID)
	return ok && role == model.SpaceRoleWorker
}

// CanViewSpace allows anyone to view active spaces; inactive ones are
// visible only to managers.
func (p Policy) CanViewSpace(user *model.User, space *model.Space) bool {
	if space.IsActive {
		return true
	}
	return p.CanManageSpace(user, space)
}

// CanCreateSpace gates space creation
func (p Policy) CanCreateSpace(user *model.User) bool {
	if user == nil {
		return false
	}
	return p.OpenSpaceCreation
}

// CanUpdateSpace requires space admin standing
func (p Policy) CanUpdateSpace(user *model.User, space *model.Space) bool {
	return p.IsAdminOfSpace(user, space)
}

// CanDeleteSpace is owner-only; admins cannot delete
func (Policy) CanDeleteSpace(user *model.User, space *model.Space) bool {
	return user != nil && space.OwnerID == user.ID
}

// CanManageSpaceUsers requires space admin standing
func (p Policy) CanManageSpaceUsers(user *model.User, space *model.Space) bool {
	return p.IsAdminOfSpace(user, space)
}

// CanUpdateProduct is strict seller ownership; space admins hold no
// authority over products.
func (Policy) CanUpdateProduct(user *model.User, product *model.Product) bool {
	return user != nil && product.UserID == user.ID
}

// CanDeleteProduct is strict seller ownership
func (Policy) CanDeleteProduct(user *model.User, product *model.Product) bool {
	return user != nil && product.UserID == user.ID
}
