package service

import (
	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
)

type Operation string

const (
	OpApproveWithdrawal   Operation = "withdrawal:approve"
	OpCancelWithdrawal    Operation = "withdrawal:cancel"
	OpVerifyUser          Operation = "user:verify"
	OpViewBanks           Operation = "banks:view"
	OpManageUserBank      Operation = "banks:manage"
	OpManageCorporateBank Operation = "banks:corporate"
)

// Allow is the single policy decision point for role-gated operations.
// resourceOwner is the user ID owning the resource acted upon; it is ignored
// for operations that only depend on the caller's role.
func Allow(op Operation, principal domain.Principal, resourceOwner string) bool {
	switch op {
	case OpApproveWithdrawal, OpVerifyUser, OpManageCorporateBank:
		return principal.Role == domain.RoleFinanceUser
	case OpCancelWithdrawal, OpViewBanks, OpManageUserBank:
		return principal.UserID == resourceOwner || principal.Role == domain.RoleFinanceUser
	default:
		return false
	}
}
