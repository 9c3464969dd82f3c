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
	"docspace/internal/spaces"
)

type departmentService struct {
	deptRepo   repositories.DepartmentRepository
	folderRepo repositories.FolderRepository
	registry   *spaces.Registry
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	deptRepo repositories.DepartmentRepository,
	folderRepo repositories.FolderRepository,
	registry *spaces.Registry,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DepartmentService {
	return &departmentService{
		deptRepo:   deptRepo,
		folderRepo: folderRepo,
		registry:   registry,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateDepartment creates a department and its root folder inside the
// department space. The folder lands under the parent department's root
// folder, or under the department container for top-level departments.
func (s *departmentService) CreateDepartment(ctx context.Context, actor *models.User, req *services.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if existing, err := s.deptRepo.GetByNameAndParent(ctx, req.Name, req.ParentID); err == nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("department '%s' already exists here", req.Name),
			ResourceType: "department",
			ResourceID:   existing.ID,
		}
	}

	folderParentID, err := s.rootFolderParent(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dept := &models.Department{
		ID:        uuid.NewString(),
		Name:      req.Name,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	root := &models.Folder{
		ID:           uuid.NewString(),
		Name:         req.Name,
		ParentID:     &folderParentID,
		SpaceType:    models.SpaceDepartment,
		DepartmentID: &dept.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	dept.RootFolderID = &root.ID

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.deptRepo.Create(txCtx, dept); err != nil {
			return err
		}
		if err := s.folderRepo.Create(txCtx, root); err != nil {
			return err
		}
		return s.deptRepo.Update(txCtx, dept)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("department created",
		"id", dept.ID,
		"name", dept.Name,
		"root_folder", root.ID,
		"actor", actor.ID,
	)
	return dept, nil
}

// GetDepartment retrieves a department.
func (s *departmentService) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	return s.deptRepo.GetByID(ctx, id)
}

// ListDepartments lists all departments.
func (s *departmentService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.deptRepo.List(ctx)
}

// UpdateDepartment renames a department or moves it under a new
// parent. Renames keep the linked root folder's name in sync; moves
// that would close a cycle are rejected.
func (s *departmentService) UpdateDepartment(ctx context.Context, actor *models.User, id string, req *services.UpdateDepartmentRequest) (*models.Department, error) {
	if err := s.requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	renamed := false
	if req.Name != nil && *req.Name != dept.Name {
		if existing, err := s.deptRepo.GetByNameAndParent(ctx, *req.Name, dept.ParentID); err == nil && existing.ID != dept.ID {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("department '%s' already exists here", *req.Name),
				ResourceType: "department",
				ResourceID:   existing.ID,
			}
		}
		dept.Name = *req.Name
		renamed = true
	}

	moved := false
	if req.ParentID != nil && (dept.ParentID == nil || *dept.ParentID != *req.ParentID) {
		if err := s.rejectCycle(ctx, dept.ID, *req.ParentID); err != nil {
			return nil, err
		}
		dept.ParentID = req.ParentID
		moved = true
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.deptRepo.Update(txCtx, dept); err != nil {
			return err
		}
		if dept.RootFolderID == nil || !(renamed || moved) {
			return nil
		}
		folder, err := s.folderRepo.GetByID(txCtx, *dept.RootFolderID)
		if err != nil {
			return nil
		}
		if renamed {
			folder.Name = dept.Name
		}
		if moved {
			newFolderParent, err := s.rootFolderParent(txCtx, dept.ParentID)
			if err != nil {
				return err
			}
			folder.ParentID = &newFolderParent
		}
		return s.folderRepo.Update(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("department updated", "id", dept.ID, "actor", actor.ID)
	return dept, nil
}

// DeleteDepartment deletes a department and its root folder subtree.
// Refused while sub-departments or members remain.
func (s *departmentService) DeleteDepartment(ctx context.Context, actor *models.User, id string) error {
	if err := s.requireSuperAdmin(actor); err != nil {
		return err
	}

	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	children, err := s.deptRepo.ListChildren(ctx, dept.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return &domain.ValidationError{Message: "department still has sub-departments"}
	}
	hasMembers, err := s.deptRepo.HasMembers(ctx, dept.ID)
	if err != nil {
		return err
	}
	if hasMembers {
		return &domain.ValidationError{Message: "department still has members"}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if dept.RootFolderID != nil {
			if err := s.folderRepo.DeleteSubtree(txCtx, *dept.RootFolderID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		return s.deptRepo.Delete(txCtx, dept.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("department deleted", "id", dept.ID, "actor", actor.ID)
	return nil
}

// rootFolderParent finds where a department's root folder belongs: the
// parent department's root folder, or the department-space container.
func (s *departmentService) rootFolderParent(ctx context.Context, parentDeptID *string) (string, error) {
	if parentDeptID != nil {
		parent, err := s.deptRepo.GetByID(ctx, *parentDeptID)
		if err != nil {
			return "", err
		}
		if parent.RootFolderID != nil {
			return *parent.RootFolderID, nil
		}
	}

	container, err := s.folderRepo.GetSpaceRoot(ctx, models.SpaceDepartment)
	if err == nil {
		return container.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	def, err := s.registry.BySpaceType(models.SpaceDepartment)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	created := &models.Folder{
		ID:        uuid.NewString(),
		Name:      def.DisplayName,
		SpaceType: models.SpaceDepartment,
		IsLocked:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.folderRepo.Create(ctx, created); err != nil {
		return "", err
	}
	s.logger.Info("space container created", "space", models.SpaceDepartment, "id", created.ID)
	return created.ID, nil
}

// rejectCycle refuses a parent assignment whose ancestor closure
// already contains the department itself.
func (s *departmentService) rejectCycle(ctx context.Context, deptID, newParentID string) error {
	if newParentID == deptID {
		return fmt.Errorf("%w: department cannot contain itself", domain.ErrValidation)
	}
	currentID := newParentID
	for depth := 0; depth < config.MaxDepartmentChainDepth; depth++ {
		parent, err := s.deptRepo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == deptID {
			return fmt.Errorf("%w: move would create a cycle", domain.ErrValidation)
		}
		currentID = *parent.ParentID
	}
	return fmt.Errorf("%w: target department is nested too deeply", domain.ErrValidation)
}

func (s *departmentService) requireSuperAdmin(actor *models.User) error {
	if actor.Role != models.RoleSuperAdmin {
		return &domain.ForbiddenError{Message: "managing departments requires super admin"}
	}
	return nil
}

func (s *departmentService) validateCreateRequest(req *services.CreateDepartmentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxDepartmentNameLength),
		),
	)
}

func (s *departmentService) validateUpdateRequest(req *services.UpdateDepartmentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxDepartmentNameLength),
		),
	)
}
