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

type projectService struct {
	projectRepo repositories.ProjectRepository
	memberRepo  repositories.ProjectMemberRepository
	folderRepo  repositories.FolderRepository
	userRepo    repositories.UserRepository
	deptRepo    repositories.DepartmentRepository
	registry    *spaces.Registry
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	memberRepo repositories.ProjectMemberRepository,
	folderRepo repositories.FolderRepository,
	userRepo repositories.UserRepository,
	deptRepo repositories.DepartmentRepository,
	registry *spaces.Registry,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		folderRepo:  folderRepo,
		userRepo:    userRepo,
		deptRepo:    deptRepo,
		registry:    registry,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateProject creates a project, its root folder under the project
// container, and the creator as Admin member, all in one transaction.
func (s *projectService) CreateProject(ctx context.Context, actor *models.User, name string) (*models.Project, error) {
	if err := validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxProjectNameLength),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	container, err := s.ensureContainer(ctx, models.SpaceProject)
	if err != nil {
		return nil, err
	}

	if existing, err := s.folderRepo.GetByNameAndParent(ctx, name, &container.ID); err == nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("project '%s' already exists", name),
			ResourceType: "project",
			ResourceID:   existing.ID,
		}
	}

	now := time.Now().UTC()
	root := &models.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  &container.ID,
		SpaceType: models.SpaceProject,
		OwnerID:   &actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	project := &models.Project{
		ID:           uuid.NewString(),
		Name:         name,
		Status:       models.ProjectActive,
		RootFolderID: root.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	member := &models.ProjectMember{
		ID:        uuid.NewString(),
		ProjectID: project.ID,
		UserID:    actor.ID,
		Role:      models.ProjectAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.Create(txCtx, root); err != nil {
			return err
		}
		if err := s.projectRepo.Create(txCtx, project); err != nil {
			return err
		}
		return s.memberRepo.Add(txCtx, member)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"root_folder", root.ID,
		"actor", actor.ID,
	)
	return project, nil
}

// ListProjects lists projects visible to the actor. Super-admins see
// everything as admin; everyone else sees their memberships.
func (s *projectService) ListProjects(ctx context.Context, actor *models.User) ([]services.ProjectView, error) {
	if actor.Role == models.RoleSuperAdmin {
		projects, err := s.projectRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		views := make([]services.ProjectView, 0, len(projects))
		for i := range projects {
			views = append(views, s.buildView(ctx, &projects[i], string(models.ProjectAdmin)))
		}
		return views, nil
	}

	projects, err := s.projectRepo.ListByMember(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	views := make([]services.ProjectView, 0, len(projects))
	for i := range projects {
		role := ""
		if m, err := s.memberRepo.Get(ctx, projects[i].ID, actor.ID); err == nil {
			role = string(m.Role)
		}
		views = append(views, s.buildView(ctx, &projects[i], role))
	}
	return views, nil
}

// DeleteProject deletes a project together with its root folder and
// everything beneath it.
func (s *projectService) DeleteProject(ctx context.Context, actor *models.User, id string) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireProjectAdmin(ctx, actor, project.ID); err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.projectRepo.Delete(txCtx, project.ID); err != nil {
			return err
		}
		if err := s.folderRepo.DeleteSubtree(txCtx, project.RootFolderID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted", "id", project.ID, "actor", actor.ID)
	return nil
}

// ListMembers lists a project's members joined with user details.
func (s *projectService) ListMembers(ctx context.Context, projectID string) ([]services.ProjectMemberView, error) {
	members, err := s.memberRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	views := make([]services.ProjectMemberView, 0, len(members))
	for i := range members {
		views = append(views, s.buildMemberView(ctx, &members[i]))
	}
	return views, nil
}

// AddMember adds a member to a project.
func (s *projectService) AddMember(ctx context.Context, actor *models.User, projectID string, req *services.AddMemberRequest) (*services.ProjectMemberView, error) {
	if err := s.validateAddMember(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.requireProjectAdmin(ctx, actor, projectID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	member := &models.ProjectMember{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.memberRepo.Add(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("project member added",
		"project", projectID,
		"user", req.UserID,
		"role", req.Role,
		"actor", actor.ID,
	)
	view := s.buildMemberView(ctx, member)
	return &view, nil
}

// UpdateMember changes a member's role.
func (s *projectService) UpdateMember(ctx context.Context, actor *models.User, projectID, userID string, role models.ProjectRole) (*services.ProjectMemberView, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, role)
	}
	if err := s.requireProjectAdmin(ctx, actor, projectID); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.Get(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	member.Role = role
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("project member updated", "project", projectID, "user", userID, "role", role, "actor", actor.ID)
	view := s.buildMemberView(ctx, member)
	return &view, nil
}

// RemoveMember removes a member. Members may always remove themselves.
func (s *projectService) RemoveMember(ctx context.Context, actor *models.User, projectID, userID string) error {
	if actor.ID != userID {
		if err := s.requireProjectAdmin(ctx, actor, projectID); err != nil {
			return err
		}
	}

	if err := s.memberRepo.Remove(ctx, projectID, userID); err != nil {
		return err
	}

	s.logger.Info("project member removed", "project", projectID, "user", userID, "actor", actor.ID)
	return nil
}

// ensureContainer locates the top-level container for a space type,
// creating it from the registry definition on first use.
func (s *projectService) ensureContainer(ctx context.Context, space models.SpaceType) (*models.Folder, error) {
	container, err := s.folderRepo.GetSpaceRoot(ctx, space)
	if err == nil {
		return container, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	def, err := s.registry.BySpaceType(space)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	container = &models.Folder{
		ID:        uuid.NewString(),
		Name:      def.DisplayName,
		SpaceType: space,
		IsLocked:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.folderRepo.Create(ctx, container); err != nil {
		return nil, err
	}
	s.logger.Info("space container created", "space", space, "id", container.ID)
	return container, nil
}

func (s *projectService) requireProjectAdmin(ctx context.Context, actor *models.User, projectID string) error {
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	member, err := s.memberRepo.Get(ctx, projectID, actor.ID)
	if err != nil || member.Role != models.ProjectAdmin {
		return &domain.ForbiddenError{Message: "managing the project requires project admin"}
	}
	return nil
}

func (s *projectService) buildView(ctx context.Context, project *models.Project, role string) services.ProjectView {
	view := services.ProjectView{Project: *project, Role: role}
	if folder, err := s.folderRepo.GetByID(ctx, project.RootFolderID); err == nil && folder.OwnerID != nil {
		view.OwnerID = folder.OwnerID
		if owner, err := s.userRepo.GetByID(ctx, *folder.OwnerID); err == nil {
			view.OwnerName = owner.Username
		}
	}
	return view
}

func (s *projectService) buildMemberView(ctx context.Context, member *models.ProjectMember) services.ProjectMemberView {
	view := services.ProjectMemberView{ProjectMember: *member}
	user, err := s.userRepo.GetByID(ctx, member.UserID)
	if err != nil {
		return view
	}
	view.Username = user.Username
	if user.DepartmentID != nil {
		if dept, err := s.deptRepo.GetByID(ctx, *user.DepartmentID); err == nil {
			view.DepartmentName = &dept.Name
		}
	}
	return view
}

func (s *projectService) validateAddMember(req *services.AddMemberRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Role,
			validation.Required,
			validation.In(models.ProjectAdmin, models.ProjectEditor, models.ProjectViewer),
		),
	)
}
