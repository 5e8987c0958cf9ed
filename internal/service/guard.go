package service

import (
	"net/http"

	"campus/internal/model"
	"campus/pkg/apierror"
)

// unauthorized is the single caller-facing failure for any token problem.
func unauthorized() error {
	return apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED", "could not validate credentials", http.StatusUnauthorized)
}

func accountDisabled() error {
	return apierror.Wrap(model.ErrAccountDisabled, "ACCOUNT_DISABLED", "account is disabled", http.StatusForbidden)
}

// RequireAuthenticated rejects the zero principal and disabled accounts.
func RequireAuthenticated(p model.Principal) error {
	if p.ID == "" {
		return unauthorized()
	}
	if p.IsDisabled {
		return accountDisabled()
	}
	return nil
}

func RequireAdmin(p model.Principal) error {
	if !p.IsSuperAdmin {
		return model.ForbiddenError("administrator privileges required")
	}
	return nil
}

// RequireSelfOrAdmin passes when the caller owns the record or is a super admin.
func RequireSelfOrAdmin(p model.Principal, ownerUserID string) error {
	if p.IsSuperAdmin {
		return nil
	}
	if ownerUserID != "" && p.ID == ownerUserID {
		return nil
	}
	return model.ForbiddenError("not allowed to access this record")
}
