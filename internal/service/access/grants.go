package access

import (
	"context"

	"docspace/internal/config"
	"docspace/internal/domain/models"
)

// inheritedGrantLevel walks upward from the folder through parent links
// and returns the level of the first explicit grant found. The nearest
// ancestor's grant always wins, even when a more distant grant would
// imply a higher role. Traversal stops at the depth bound; the
// remainder of a malformed or cyclic chain reads as absent.
func (e *Engine) inheritedGrantLevel(ctx context.Context, user *models.User, folder *models.Folder) models.AccessLevel {
	current := folder
	for depth := 0; depth < config.MaxFolderDepth; depth++ {
		if c, err := e.grants.GetForFolder(ctx, user.ID, current.ID); err == nil {
			return models.CollaboratorLevel(c.Role)
		}

		if current.ParentID == nil {
			return models.LevelNone
		}
		parent, err := e.folders.GetByID(ctx, *current.ParentID)
		if err != nil {
			return models.LevelNone
		}
		current = parent
	}

	e.logger.Debug("grant traversal hit depth bound", "folder_id", folder.ID, "user_id", user.ID)
	return models.LevelNone
}
