package access

import (
	"context"
	"log/slog"

	"docspace/internal/domain/models"
)

// Engine answers permission questions over the resource graph. It is a
// pure read-only computation: no internal state beyond traversal
// bookkeeping, safe for concurrent use, and never returns errors for
// policy outcomes. A lookup that fails mid-resolution reads as absence.
//
// Both the boolean gate and the graded role derive from one internal
// resolution to an AccessLevel, so the two can never disagree. The
// resolved level is the maximum of the inherited collaborator grant and
// the space-policy level: a Viewer grant close to the resource grants
// read, but never caps write the space policy would allow.
type Engine struct {
	folders  FolderLookup
	depts    DepartmentLookup
	grants   GrantLookup
	projects ProjectLookup
	members  MembershipLookup
	logger   *slog.Logger
}

// NewEngine creates a new permission engine
func NewEngine(
	folders FolderLookup,
	depts DepartmentLookup,
	grants GrantLookup,
	projects ProjectLookup,
	members MembershipLookup,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		folders:  folders,
		depts:    depts,
		grants:   grants,
		projects: projects,
		members:  members,
		logger:   logger,
	}
}

// CheckPermission reports whether the user may perform the action on
// the resource. Read requires at least Viewer, write at least Editor.
func (e *Engine) CheckPermission(ctx context.Context, user *models.User, resource models.Resource, action models.Action) bool {
	return e.resolve(ctx, user, resource).Allows(action)
}

// EffectiveRole grades the user's authority over the resource for UI
// purposes. Owners and super-admins grade as Admin; a user who can
// merely see the resource grades as Viewer.
func (e *Engine) EffectiveRole(ctx context.Context, user *models.User, resource models.Resource) models.AccessLevel {
	level := e.resolve(ctx, user, resource)
	if level >= models.LevelAdmin {
		return models.LevelAdmin
	}
	if level <= models.LevelViewer {
		return models.LevelViewer
	}
	return level
}

// resolve computes the user's access level on a resource. Evaluation
// order: super-admin, direct ownership, explicit grants (nearest wins),
// space policy; the grant and policy levels merge max-wins.
func (e *Engine) resolve(ctx context.Context, user *models.User, resource models.Resource) models.AccessLevel {
	if user == nil {
		return models.LevelNone
	}
	if user.Role == models.RoleSuperAdmin {
		return models.LevelOwner
	}

	switch res := resource.(type) {
	case *models.Folder:
		return e.resolveFolder(ctx, user, res)
	case *models.Document:
		return e.resolveDocument(ctx, user, res)
	}
	return models.LevelNone
}

func (e *Engine) resolveFolder(ctx context.Context, user *models.User, folder *models.Folder) models.AccessLevel {
	if folder.OwnedBy(user.ID) {
		return models.LevelOwner
	}

	grant := e.inheritedGrantLevel(ctx, user, folder)
	policy := e.spaceLevel(ctx, user, folder, folder.IsRestricted)
	return models.MaxLevel(grant, policy)
}

func (e *Engine) resolveDocument(ctx context.Context, user *models.User, doc *models.Document) models.AccessLevel {
	if doc.AuthoredBy(user.ID) {
		return models.LevelOwner
	}

	// A direct grant on the document is the nearest possible grant and
	// shadows anything on the folder chain.
	grant := models.LevelNone
	if c, err := e.grants.GetForDocument(ctx, user.ID, doc.ID); err == nil {
		grant = models.CollaboratorLevel(c.Role)
	} else if doc.FolderID != nil {
		if folder, err := e.folders.GetByID(ctx, *doc.FolderID); err == nil {
			grant = e.inheritedGrantLevel(ctx, user, folder)
		}
	}

	// Folderless documents live in the Public space: readable by any
	// authenticated user unless restricted, never writable without a
	// grant.
	if doc.FolderID == nil {
		floor := models.LevelNone
		if !doc.IsRestricted {
			floor = models.LevelViewer
		}
		return models.MaxLevel(grant, floor)
	}

	folder, err := e.folders.GetByID(ctx, *doc.FolderID)
	if err != nil {
		return grant
	}
	policy := e.spaceLevel(ctx, user, folder, doc.IsRestricted)
	return models.MaxLevel(grant, policy)
}
