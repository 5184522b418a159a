package services

import (
	"github.com/techagentng/awaz/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 6
	MaxPageSize     = 50
)

// View names one of the role-scoped complaint listings.
type View int

const (
	// ViewFeed is the public feed: visible complaints plus the caller's own.
	ViewFeed View = iota
	// ViewMine is every complaint the caller filed.
	ViewMine
	// ViewWard is the visible complaints of the caller's ward.
	ViewWard
	// ViewAdmin is every visible complaint.
	ViewAdmin
	// ViewReported is every hidden complaint.
	ViewReported
)

// ScopeFor builds the query scope of a listing for the given user.
func ScopeFor(user *models.User, view View) models.Scope {
	switch view {
	case ViewMine:
		return models.Scope{OwnerID: user.ID}
	case ViewWard:
		ward := uint(0)
		if user.WardID != nil {
			ward = *user.WardID
		}
		// ward 0 never matches, so staff without a ward see nothing
		return models.Scope{WardID: &ward}
	case ViewAdmin:
		hidden := false
		return models.Scope{Hidden: &hidden}
	case ViewReported:
		hidden := true
		return models.Scope{Hidden: &hidden}
	default:
		return models.Scope{ViewerID: user.ID}
	}
}

// paging clamps the filter's page fields and returns the offset and limit to query with.
func paging(filter *models.ComplaintFilter, defaultSize int) (int, int) {
	filter.Page, filter.PageSize = clampPage(filter.Page, filter.PageSize, defaultSize)
	return (filter.Page - 1) * filter.PageSize, filter.PageSize
}

func clampPage(page, pageSize, defaultSize int) (int, int) {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
