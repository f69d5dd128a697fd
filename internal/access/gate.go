package access

import (
	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/response"
)

// Action identifies what a principal is trying to do to a resource
type Action string

const (
	ActionMoveItem    Action = "move_item"
	ActionEditItem    Action = "edit_item"
	ActionCreateItem  Action = "create_item"
	ActionComment     Action = "comment"
	ActionTrackTime   Action = "track_time"
	ActionManageBoard Action = "manage_board"
)

// Principal is the authenticated actor attempting an operation
type Principal struct {
	UserID uuid.UUID
	Tenant string
	Role   domain.UserRole
}

// Resource describes the target of an access check. Membership and assignee
// are resolved by the caller; the gate itself performs no I/O.
type Resource struct {
	// Tenant of the project that owns the resource
	Tenant string
	// Member reports whether the principal belongs to the owning project
	Member bool
	// AssigneeID is set when the target is a work item with an assignee
	AssigneeID *uuid.UUID
}

// AccessGate decides whether a principal may read or mutate a resource.
// It is the only place tenant comparison happens; every other component
// passes resolved facts in and trusts the verdict.
type AccessGate interface {
	CanRead(principal Principal, resource Resource) bool
	CanMutate(principal Principal, resource Resource, action Action) bool
	CanCreateProject(principal Principal) bool

	// SameTenant reports whether a candidate user's tenant matches the
	// principal's. Used when enrolling members or assigning items, where
	// the candidate is another user rather than an owned resource.
	SameTenant(principal Principal, tenant string) bool

	// AuthorizeRead and AuthorizeMutation wrap the predicates with the
	// error the caller must surface. Cross-tenant denials come back as
	// not-found so the existence of another tenant's resource never leaks.
	AuthorizeRead(principal Principal, resource Resource) error
	AuthorizeMutation(principal Principal, resource Resource, action Action) error
}

type accessGateImpl struct{}

// NewAccessGate creates a new access gate
func NewAccessGate() AccessGate {
	return &accessGateImpl{}
}

type verdict int

const (
	verdictAllow verdict = iota
	verdictDeny
	// verdictDenyMasked is a denial that must surface as not-found
	verdictDenyMasked
)

func (g *accessGateImpl) CanRead(principal Principal, resource Resource) bool {
	return g.decideRead(principal, resource) == verdictAllow
}

func (g *accessGateImpl) CanMutate(principal Principal, resource Resource, action Action) bool {
	return g.decideMutation(principal, resource, action) == verdictAllow
}

// CanCreateProject allows managers and admins to create projects
func (g *accessGateImpl) CanCreateProject(principal Principal) bool {
	return principal.Role == domain.RoleAdmin || principal.Role == domain.RoleManager
}

func (g *accessGateImpl) SameTenant(principal Principal, tenant string) bool {
	return principal.Tenant == tenant
}

func (g *accessGateImpl) AuthorizeRead(principal Principal, resource Resource) error {
	return g.verdictError(g.decideRead(principal, resource))
}

func (g *accessGateImpl) AuthorizeMutation(principal Principal, resource Resource, action Action) error {
	return g.verdictError(g.decideMutation(principal, resource, action))
}

func (g *accessGateImpl) verdictError(v verdict) error {
	switch v {
	case verdictAllow:
		return nil
	case verdictDenyMasked:
		return response.NewNotFoundError("resource not found", "")
	default:
		return response.NewForbiddenError("you do not have permission to perform this action", "")
	}
}

func (g *accessGateImpl) decideRead(principal Principal, resource Resource) verdict {
	if principal.Tenant != resource.Tenant {
		return verdictDenyMasked
	}
	if principal.Role == domain.RoleAdmin {
		return verdictAllow
	}
	if !resource.Member {
		return verdictDeny
	}
	return verdictAllow
}

func (g *accessGateImpl) decideMutation(principal Principal, resource Resource, action Action) verdict {
	if principal.Tenant != resource.Tenant {
		return verdictDenyMasked
	}
	if principal.Role == domain.RoleAdmin {
		return verdictAllow
	}
	if !resource.Member {
		return verdictDeny
	}

	switch principal.Role {
	case domain.RoleManager:
		switch action {
		case ActionMoveItem, ActionEditItem, ActionCreateItem, ActionManageBoard, ActionComment:
			return verdictAllow
		case ActionTrackTime:
			// Time tracking is personal even for managers
			return g.assigneeVerdict(principal, resource)
		}
	case domain.RoleWorker:
		switch action {
		case ActionMoveItem, ActionEditItem, ActionTrackTime:
			return g.assigneeVerdict(principal, resource)
		case ActionComment:
			return verdictAllow
		}
	}
	return verdictDeny
}

func (g *accessGateImpl) assigneeVerdict(principal Principal, resource Resource) verdict {
	if resource.AssigneeID != nil && *resource.AssigneeID == principal.UserID {
		return verdictAllow
	}
	return verdictDeny
}
