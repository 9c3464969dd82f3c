package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docspace/internal/config"
	"docspace/internal/domain"
	"docspace/internal/domain/models"
	"docspace/internal/domain/repositories"
	"docspace/internal/domain/services"
)

type folderService struct {
	folderRepo  repositories.FolderRepository
	projectRepo repositories.ProjectRepository
	access      services.AccessService
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	projectRepo repositories.ProjectRepository,
	access services.AccessService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo:  folderRepo,
		projectRepo: projectRepo,
		access:      access,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateFolder creates a new folder under a parent, or a space-root
// folder when no parent is given. Space type, department context and
// the restricted flag are inherited from the parent.
func (s *folderService) CreateFolder(ctx context.Context, actor *models.User, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder := &models.Folder{
		ID:           uuid.NewString(),
		Name:         req.Name,
		ParentID:     req.ParentID,
		SpaceType:    req.SpaceType,
		OwnerID:      &actor.ID,
		IsRestricted: req.IsRestricted,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if req.ParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if !s.access.CheckPermission(ctx, actor, parent, models.ActionWrite) {
			return nil, &domain.ForbiddenError{Message: "no write access to parent folder"}
		}

		// Children always live in the parent's space. A restricted
		// parent forces the flag down; the department context follows
		// the parent, falling back to the creator's department.
		folder.SpaceType = parent.SpaceType
		if parent.IsRestricted {
			folder.IsRestricted = true
		}
		if parent.SpaceType == models.SpaceDepartment {
			folder.DepartmentID = parent.DepartmentID
			if folder.DepartmentID == nil {
				folder.DepartmentID = actor.DepartmentID
			}
		}
	} else if req.SpaceType == models.SpaceDepartment {
		if actor.Role == models.RoleViewer {
			return nil, &domain.ForbiddenError{Message: "viewers cannot create department folders"}
		}
		folder.DepartmentID = actor.DepartmentID
	}

	if existing, err := s.folderRepo.GetByNameAndParent(ctx, req.Name, req.ParentID); err == nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("folder '%s' already exists here", req.Name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"space", folder.SpaceType,
		"actor", actor.ID,
	)
	return folder, nil
}

// GetFolder retrieves a folder with the actor's effective role and
// breadcrumb ancestors.
func (s *folderService) GetFolder(ctx context.Context, actor *models.User, id string) (*services.FolderView, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.access.CheckPermission(ctx, actor, folder, models.ActionRead) {
		return nil, &domain.ForbiddenError{Message: "no read access to folder"}
	}
	return s.buildView(ctx, actor, folder), nil
}

// ListFolders lists folders matching the request, keeping only those
// the actor can read.
func (s *folderService) ListFolders(ctx context.Context, actor *models.User, req *services.ListFoldersRequest) ([]services.FolderView, error) {
	filter := repositories.FolderFilter{
		SpaceType:    req.SpaceType,
		DepartmentID: req.DepartmentID,
		NameQuery:    req.Query,
	}
	// A name search spans the whole tree; plain listings stay at one
	// level.
	if req.Query == "" {
		if req.ParentID != nil {
			filter.ParentID = req.ParentID
		} else {
			filter.RootsOnly = true
		}
	}

	folders, err := s.folderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]services.FolderView, 0, len(folders))
	for i := range folders {
		folder := &folders[i]
		if !s.access.CheckPermission(ctx, actor, folder, models.ActionRead) {
			continue
		}
		view := services.FolderView{
			Folder: *folder,
			Role:   s.access.EffectiveRole(ctx, actor, folder).String(),
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateFolder renames a folder, toggles its restricted flag, or moves
// it under a new parent. Moves that would close a cycle are rejected.
func (s *folderService) UpdateFolder(ctx context.Context, actor *models.User, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.IsLocked {
		return nil, &domain.ForbiddenError{Message: "folder is locked"}
	}
	if !s.access.CheckPermission(ctx, actor, folder, models.ActionWrite) {
		return nil, &domain.ForbiddenError{Message: "no write access to folder"}
	}

	if req.Name != nil && *req.Name != folder.Name {
		if existing, err := s.folderRepo.GetByNameAndParent(ctx, *req.Name, folder.ParentID); err == nil && existing.ID != folder.ID {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists here", *req.Name),
				ResourceType: "folder",
				ResourceID:   existing.ID,
			}
		}
		folder.Name = *req.Name
	}
	if req.IsRestricted != nil {
		folder.IsRestricted = *req.IsRestricted
	}
	if req.ParentID != nil && (folder.ParentID == nil || *folder.ParentID != *req.ParentID) {
		newParent, err := s.folderRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if !s.access.CheckPermission(ctx, actor, newParent, models.ActionWrite) {
			return nil, &domain.ForbiddenError{Message: "no write access to target folder"}
		}
		if err := s.rejectCycle(ctx, folder.ID, newParent); err != nil {
			return nil, err
		}
		folder.ParentID = req.ParentID
		folder.SpaceType = newParent.SpaceType
		if newParent.SpaceType == models.SpaceDepartment && newParent.DepartmentID != nil {
			folder.DepartmentID = newParent.DepartmentID
		}
	}

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated", "id", folder.ID, "actor", actor.ID)
	return folder, nil
}

// DeleteFolder deletes a folder and everything beneath it: subtree
// folders, their documents and their grants, plus any project anchored
// at the folder.
func (s *folderService) DeleteFolder(ctx context.Context, actor *models.User, id string) error {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if folder.IsLocked {
		return &domain.ForbiddenError{Message: "folder is locked"}
	}
	if !s.access.CheckPermission(ctx, actor, folder, models.ActionWrite) {
		return &domain.ForbiddenError{Message: "no write access to folder"}
	}
	// Managers and super-admins may clean up on others' behalf;
	// everyone else only removes what they own.
	if actor.Role != models.RoleSuperAdmin && actor.Role != models.RoleManager && !folder.OwnedBy(actor.ID) {
		return &domain.ForbiddenError{Message: "only the owner can delete this folder"}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if project, err := s.projectRepo.GetByRootFolder(txCtx, folder.ID); err == nil {
			if err := s.projectRepo.Delete(txCtx, project.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return s.folderRepo.DeleteSubtree(txCtx, folder.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", folder.ID, "actor", actor.ID)
	return nil
}

// rejectCycle refuses a move whose target's ancestor closure already
// contains the folder being moved.
func (s *folderService) rejectCycle(ctx context.Context, folderID string, newParent *models.Folder) error {
	if newParent.ID == folderID {
		return fmt.Errorf("%w: folder cannot contain itself", domain.ErrValidation)
	}
	current := newParent
	for depth := 0; depth < config.MaxFolderDepth; depth++ {
		if current.ParentID == nil {
			return nil
		}
		if *current.ParentID == folderID {
			return fmt.Errorf("%w: move would create a cycle", domain.ErrValidation)
		}
		parent, err := s.folderRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil
		}
		current = parent
	}
	return fmt.Errorf("%w: target folder is nested too deeply", domain.ErrValidation)
}

func (s *folderService) buildView(ctx context.Context, actor *models.User, folder *models.Folder) *services.FolderView {
	view := &services.FolderView{
		Folder: *folder,
		Role:   s.access.EffectiveRole(ctx, actor, folder).String(),
	}

	current := folder
	for depth := 0; depth < config.MaxFolderDepth && current.ParentID != nil; depth++ {
		parent, err := s.folderRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			break
		}
		view.Ancestors = append([]services.FolderAncestor{{ID: parent.ID, Name: parent.Name}}, view.Ancestors...)
		current = parent
	}

	if folder.SpaceType == models.SpaceProject {
		current = folder
		for depth := 0; depth < config.MaxFolderDepth; depth++ {
			if project, err := s.projectRepo.GetByRootFolder(ctx, current.ID); err == nil {
				view.ProjectID = &project.ID
				break
			}
			if current.ParentID == nil {
				break
			}
			parent, err := s.folderRepo.GetByID(ctx, *current.ParentID)
			if err != nil {
				break
			}
			current = parent
		}
	}
	return view
}

func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
		validation.Field(&req.SpaceType,
			validation.Required.When(req.ParentID == nil),
			validation.In(models.SpacePublic, models.SpaceDepartment, models.SpaceProject),
		),
	)
}

func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxFolderNameLength),
		),
	)
}
