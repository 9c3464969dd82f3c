package docsystem

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docspace/internal/domain"
	"docspace/internal/domain/models"
	"docspace/internal/domain/services"
)

func TestCreateFolderInheritsFromParent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.addUser("owner", models.RoleEditor, nil)
	e.addFolder(&models.Folder{ID: "parent", ParentID: strPtr("root"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner"), IsRestricted: true})

	folder, err := e.folders.CreateFolder(ctx, owner, &services.CreateFolderRequest{
		Name:     "reports",
		ParentID: strPtr("parent"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.SpacePublic, folder.SpaceType)
	// Restricted parents force the flag onto children.
	assert.True(t, folder.IsRestricted)
	require.NotNil(t, folder.OwnerID)
	assert.Equal(t, "owner", *folder.OwnerID)
}

func TestCreateFolderRequiresParentWrite(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.addUser("owner", models.RoleEditor, nil)
	stranger := e.addUser("stranger", models.RoleEditor, nil)
	e.addFolder(&models.Folder{ID: "parent", ParentID: strPtr("root"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})

	_, err := e.folders.CreateFolder(ctx, stranger, &services.CreateFolderRequest{
		Name:     "intrusion",
		ParentID: strPtr("parent"),
	})

	var forbidden *domain.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestCreateFolderDuplicateName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.addUser("owner", models.RoleEditor, nil)
	e.addFolder(&models.Folder{ID: "parent", ParentID: strPtr("root"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})
	e.addFolder(&models.Folder{ID: "existing", Name: "reports", ParentID: strPtr("parent"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})

	_, err := e.folders.CreateFolder(ctx, owner, &services.CreateFolderRequest{
		Name:     "reports",
		ParentID: strPtr("parent"),
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateFolderViewerCannotStartDepartmentRoot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	viewer := e.addUser("viewer", models.RoleViewer, strPtr("d1"))

	_, err := e.folders.CreateFolder(ctx, viewer, &services.CreateFolderRequest{
		Name:      "rogue",
		SpaceType: models.SpaceDepartment,
	})

	var forbidden *domain.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestUpdateFolderRejectsCycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.addUser("owner", models.RoleEditor, nil)
	e.addFolder(&models.Folder{ID: "a", SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})
	e.addFolder(&models.Folder{ID: "b", ParentID: strPtr("a"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})
	e.addFolder(&models.Folder{ID: "c", ParentID: strPtr("b"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})

	_, err := e.folders.UpdateFolder(ctx, owner, "a", &services.UpdateFolderRequest{ParentID: strPtr("c")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.folders.UpdateFolder(ctx, owner, "a", &services.UpdateFolderRequest{ParentID: strPtr("a")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// A legal move still works.
	moved, err := e.folders.UpdateFolder(ctx, owner, "c", &services.UpdateFolderRequest{ParentID: strPtr("a")})
	require.NoError(t, err)
	assert.Equal(t, "a", *moved.ParentID)
}

func TestUpdateFolderLocked(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.addUser("root", models.RoleSuperAdmin, nil)
	e.addFolder(&models.Folder{ID: "container", SpaceType: models.SpacePublic, IsLocked: true})

	_, err := e.folders.UpdateFolder(ctx, admin, "container", &services.UpdateFolderRequest{Name: strPtr("renamed")})

	var forbidden *domain.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestDeleteFolderSafeDeletionPolicy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.addUser("owner", models.RoleEditor, strPtr("d1"))
	colleague := e.addUser("colleague", models.RoleEditor, strPtr("d1"))
	manager := e.addUser("boss", models.RoleManager, strPtr("d1"))
	e.db.depts["d1"] = &models.Department{ID: "d1", Name: "d1"}
	e.addFolder(&models.Folder{ID: "container", SpaceType: models.SpaceDepartment})
	e.addFolder(&models.Folder{ID: "team", ParentID: strPtr("container"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d1"), OwnerID: strPtr("owner")})

	// The colleague can write through department membership but does
	// not own the folder.
	err := e.folders.DeleteFolder(ctx, colleague, "team")
	var forbidden *domain.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Managers may clean up on others' behalf.
	require.NoError(t, e.folders.DeleteFolder(ctx, manager, "team"))
	_, ok := e.db.folders["team"]
	assert.False(t, ok)
}

func TestDeleteFolderCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.addUser("owner", models.RoleEditor, nil)
	e.addFolder(&models.Folder{ID: "top", ParentID: strPtr("root"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})
	e.addFolder(&models.Folder{ID: "child", ParentID: strPtr("top"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})
	e.db.documents["doc"] = &models.Document{ID: "doc", Name: "doc", FolderID: strPtr("child"), AuthorID: strPtr("owner")}
	e.db.grants["g1"] = &models.Collaborator{ID: "g1", UserID: "owner", FolderID: strPtr("child"), Role: models.CollaboratorViewer}

	require.NoError(t, e.folders.DeleteFolder(ctx, owner, "top"))

	assert.Empty(t, e.db.folders)
	assert.Empty(t, e.db.documents)
	assert.Empty(t, e.db.grants)
}

func TestGetFolderBreadcrumbs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.addUser("owner", models.RoleEditor, nil)
	e.addFolder(&models.Folder{ID: "a", Name: "alpha", SpaceType: models.SpacePublic})
	e.addFolder(&models.Folder{ID: "b", Name: "beta", ParentID: strPtr("a"), SpaceType: models.SpacePublic})
	e.addFolder(&models.Folder{ID: "c", Name: "gamma", ParentID: strPtr("b"), SpaceType: models.SpacePublic, OwnerID: strPtr("owner")})

	view, err := e.folders.GetFolder(ctx, owner, "c")
	require.NoError(t, err)

	assert.Equal(t, "admin", view.Role)
	require.Len(t, view.Ancestors, 2)
	assert.Equal(t, "alpha", view.Ancestors[0].Name)
	assert.Equal(t, "beta", view.Ancestors[1].Name)
}

func TestListFoldersFiltersUnreadable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.db.depts["d1"] = &models.Department{ID: "d1", Name: "d1"}
	outsider := e.addUser("outsider", models.RoleEditor, nil)
	e.addFolder(&models.Folder{ID: "container", SpaceType: models.SpaceDepartment})
	e.addFolder(&models.Folder{ID: "open", ParentID: strPtr("container"), SpaceType: models.SpacePublic})
	e.addFolder(&models.Folder{ID: "dept-only", ParentID: strPtr("container"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d1")})

	views, err := e.folders.ListFolders(ctx, outsider, &services.ListFoldersRequest{ParentID: strPtr("container")})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "open", views[0].ID)
}

func TestDeleteFolderRemovesAnchoredProject(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.addUser("root", models.RoleSuperAdmin, nil)
	e.addFolder(&models.Folder{ID: "projects", SpaceType: models.SpaceProject})
	e.addFolder(&models.Folder{ID: "p-root", ParentID: strPtr("projects"), SpaceType: models.SpaceProject})
	e.db.projects["p1"] = &models.Project{ID: "p1", Name: "apollo", RootFolderID: "p-root"}

	require.NoError(t, e.folders.DeleteFolder(ctx, admin, "p-root"))

	_, err := memProjects{e.db}.GetByID(ctx, "p1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
