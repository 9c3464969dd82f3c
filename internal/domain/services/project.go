package services

import (
	"context"

	"docspace/internal/domain/models"
)

// ProjectService handles project business logic
type ProjectService interface {
	// CreateProject creates a project with its root folder and the
	// creator as Admin member
	CreateProject(ctx context.Context, actor *models.User, name string) (*models.Project, error)

	// ListProjects lists projects visible to the actor with their role
	ListProjects(ctx context.Context, actor *models.User) ([]ProjectView, error)

	// DeleteProject deletes a project together with its root folder
	DeleteProject(ctx context.Context, actor *models.User, id string) error

	// ListMembers lists a project's members
	ListMembers(ctx context.Context, projectID string) ([]ProjectMemberView, error)

	// AddMember adds a member; requires project Admin or super-admin
	AddMember(ctx context.Context, actor *models.User, projectID string, req *AddMemberRequest) (*ProjectMemberView, error)

	// UpdateMember changes a member's role; requires project Admin or
	// super-admin
	UpdateMember(ctx context.Context, actor *models.User, projectID, userID string, role models.ProjectRole) (*ProjectMemberView, error)

	// RemoveMember removes a member; requires project Admin or
	// super-admin, except that members may remove themselves
	RemoveMember(ctx context.Context, actor *models.User, projectID, userID string) error
}

// AddMemberRequest adds a user to a project
type AddMemberRequest struct {
	UserID string             `json:"user_id"`
	Role   models.ProjectRole `json:"role"`
}

// ProjectView is a project annotated for a particular actor
type ProjectView struct {
	models.Project
	Role      string  `json:"role"` // actor's role in the project
	OwnerName string  `json:"owner_name"`
	OwnerID   *string `json:"owner_id,omitempty"`
}

// ProjectMemberView is a membership joined with user details
type ProjectMemberView struct {
	models.ProjectMember
	Username       string  `json:"username"`
	DepartmentName *string `json:"department_name,omitempty"`
}
