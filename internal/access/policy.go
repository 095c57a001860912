// Package access decides who may run privileged bot operations.
package access

import "context"

// AdminLookup is the store capability the policy depends on.
type AdminLookup interface {
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
}

// Policy combines the configured super admin with stored administrators.
type Policy struct {
	superAdmin int64
	admins     AdminLookup
}

// NewPolicy returns a policy for superAdmin backed by admins.
func NewPolicy(superAdmin int64, admins AdminLookup) *Policy {
	return &Policy{superAdmin: superAdmin, admins: admins}
}

// SuperAdmin returns the configured super admin id.
func (p *Policy) SuperAdmin() int64 {
	return p.superAdmin
}

// IsSuperAdmin reports whether userID is the super admin. Zero never matches.
func (p *Policy) IsSuperAdmin(userID int64) bool {
	return p.superAdmin != 0 && userID == p.superAdmin
}

// IsAdmin reports whether userID may manage questions: the super admin always
// may, everyone else needs a stored administrator row.
func (p *Policy) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if p.IsSuperAdmin(userID) {
		return true, nil
	}
	if p.admins == nil {
		return false, nil
	}
	return p.admins.IsAdmin(ctx, userID)
}
