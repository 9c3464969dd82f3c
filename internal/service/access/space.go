package access

import (
	"context"

	"docspace/internal/config"
	"docspace/internal/domain/models"
)

// spaceLevel dispatches on the governing folder's space classification.
// Documents pass their own restricted flag; folders pass theirs.
func (e *Engine) spaceLevel(ctx context.Context, user *models.User, folder *models.Folder, restricted bool) models.AccessLevel {
	switch folder.SpaceType {
	case models.SpacePublic:
		return e.publicLevel(user, folder)
	case models.SpaceDepartment:
		return e.departmentLevel(ctx, user, folder, restricted)
	case models.SpaceProject:
		return e.projectLevel(ctx, user, folder)
	}
	return models.LevelNone
}

// publicLevel: readable by any authenticated user; writable only when
// the user owns the governing folder (document authors and super-admins
// are handled before the policy runs).
func (e *Engine) publicLevel(user *models.User, folder *models.Folder) models.AccessLevel {
	if folder.OwnedBy(user.ID) {
		return models.LevelEditor
	}
	return models.LevelViewer
}

// departmentLevel applies the department membership rules. Restricted
// resources skip implicit department access entirely; only ownership,
// super-admin or an explicit grant may pass, and those are all resolved
// outside this policy.
func (e *Engine) departmentLevel(ctx context.Context, user *models.User, folder *models.Folder, restricted bool) models.AccessLevel {
	// The space's root container is readable by everyone; writes on it
	// stay with super-admin.
	if folder.IsSpaceRoot() {
		return models.LevelViewer
	}

	if folder.OwnedBy(user.ID) {
		// Redundant with the ownership check upstream, kept so the
		// policy is safe to consult on its own.
		return models.LevelOwner
	}

	if restricted {
		return models.LevelNone
	}

	if user.DepartmentID == nil || folder.DepartmentID == nil {
		return models.LevelNone
	}

	member := *user.DepartmentID == *folder.DepartmentID
	if !member {
		member = e.userChainReaches(ctx, *user.DepartmentID, *folder.DepartmentID)
	}
	if !member && user.Role == models.RoleManager {
		member = e.managerReachesDown(ctx, *folder.DepartmentID, *user.DepartmentID)
	}
	if !member {
		return models.LevelNone
	}

	// Department membership never writes past a global Viewer tier.
	if user.Role == models.RoleViewer {
		return models.LevelViewer
	}
	return models.LevelEditor
}

// userChainReaches reports whether the folder's department is a direct
// parent of some department in the user's ancestor chain, letting a
// sub-department member reach the parent department's folders.
func (e *Engine) userChainReaches(ctx context.Context, userDeptID, folderDeptID string) bool {
	currentID := userDeptID
	for depth := 0; depth < config.MaxDepartmentAncestorDepth; depth++ {
		dept, err := e.depts.GetByID(ctx, currentID)
		if err != nil {
			return false
		}
		if dept.ParentID == nil {
			return false
		}
		if *dept.ParentID == folderDeptID {
			return true
		}
		currentID = *dept.ParentID
	}
	return false
}

// managerReachesDown reports whether the user's department appears on
// the walk up from the folder's department, granting a manager access
// to subordinate departments' resources.
func (e *Engine) managerReachesDown(ctx context.Context, folderDeptID, userDeptID string) bool {
	currentID := folderDeptID
	for depth := 0; depth < config.MaxDepartmentManagerDepth; depth++ {
		dept, err := e.depts.GetByID(ctx, currentID)
		if err != nil {
			return false
		}
		if dept.ParentID == nil {
			return false
		}
		if *dept.ParentID == userDeptID {
			return true
		}
		currentID = *dept.ParentID
	}
	return false
}

// projectLevel locates the enclosing project and maps the user's
// membership. Department rules never apply inside Project space.
func (e *Engine) projectLevel(ctx context.Context, user *models.User, folder *models.Folder) models.AccessLevel {
	project := e.enclosingProject(ctx, folder)
	if project == nil {
		// The top-level Project-space container anchors no project of
		// its own; it is a shared listing surface, readable by all.
		if folder.IsSpaceRoot() {
			return models.LevelViewer
		}
		return models.LevelNone
	}

	member, err := e.members.Get(ctx, project.ID, user.ID)
	if err != nil {
		return models.LevelNone
	}
	switch member.Role {
	case models.ProjectAdmin, models.ProjectEditor:
		return models.LevelEditor
	case models.ProjectViewer:
		return models.LevelViewer
	}
	return models.LevelNone
}

// enclosingProject walks up from the folder until some folder anchors a
// project, or the top of the tree or the depth bound is reached.
func (e *Engine) enclosingProject(ctx context.Context, folder *models.Folder) *models.Project {
	current := folder
	for depth := 0; depth < config.MaxFolderDepth; depth++ {
		if project, err := e.projects.GetByRootFolder(ctx, current.ID); err == nil {
			return project
		}

		if current.ParentID == nil {
			return nil
		}
		parent, err := e.folders.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil
		}
		current = parent
	}

	e.logger.Debug("project traversal hit depth bound", "folder_id", folder.ID)
	return nil
}
