package services

import (
	"context"

	"docspace/internal/domain/models"
)

// AccessService answers permission questions. Implementations are pure
// read-only computations over the resource graph and are safe for
// concurrent use.
//
// Design principle: services call CheckPermission before operating on a
// resource; EffectiveRole only annotates responses for UI affordances.
// Policy outcomes are values, never errors — a caller must resolve the
// resource before asking, and a lookup that fails mid-resolution reads
// as absence, not as a failure of the question.
type AccessService interface {
	// CheckPermission reports whether the user may perform the action
	// on the resource
	CheckPermission(ctx context.Context, user *models.User, resource models.Resource, action models.Action) bool

	// EffectiveRole grades the user's authority over the resource for
	// UI purposes (Viewer, Editor or Admin; owners and super-admins
	// grade as Admin)
	EffectiveRole(ctx context.Context, user *models.User, resource models.Resource) models.AccessLevel

	// PermissionReport aggregates every resource reachable by the user
	// across ownership, department position, project membership and
	// explicit grants, merged max-wins by role priority
	PermissionReport(ctx context.Context, user *models.User) ([]models.PermissionReportItem, error)
}
