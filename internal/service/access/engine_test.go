package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docspace/internal/domain/models"
)

func TestSuperAdminAlwaysAllowed(t *testing.T) {
	store := newFakeStore()
	admin := store.addUser("root", models.RoleSuperAdmin, nil)
	folder := store.addFolder(&models.Folder{
		ID:           "locked-down",
		SpaceType:    models.SpaceDepartment,
		ParentID:     strPtr("missing-parent"),
		DepartmentID: strPtr("d-other"),
		IsRestricted: true,
	})
	doc := store.addDocument(&models.Document{ID: "secret", IsRestricted: true})

	engine := newTestEngine(store)
	ctx := context.Background()

	assert.True(t, engine.CheckPermission(ctx, admin, folder, models.ActionRead))
	assert.True(t, engine.CheckPermission(ctx, admin, folder, models.ActionWrite))
	assert.True(t, engine.CheckPermission(ctx, admin, doc, models.ActionWrite))
	assert.Equal(t, models.LevelAdmin, engine.EffectiveRole(ctx, admin, folder))
}

func TestOwnerAlwaysWrites(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("u1", models.RoleViewer, nil)
	folder := store.addFolder(&models.Folder{
		ID:           "mine",
		SpaceType:    models.SpaceDepartment,
		ParentID:     strPtr("container"),
		OwnerID:      strPtr("u1"),
		IsRestricted: true,
	})
	doc := store.addDocument(&models.Document{ID: "draft", AuthorID: strPtr("u1"), IsRestricted: true})

	engine := newTestEngine(store)
	ctx := context.Background()

	assert.True(t, engine.CheckPermission(ctx, owner, folder, models.ActionWrite))
	assert.True(t, engine.CheckPermission(ctx, owner, doc, models.ActionWrite))
	assert.Equal(t, models.LevelAdmin, engine.EffectiveRole(ctx, owner, folder))
}

func TestNearestGrantWins(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("u1", models.RoleViewer, nil)
	store.addFolder(&models.Folder{ID: "a", SpaceType: models.SpacePublic})
	store.addFolder(&models.Folder{ID: "b", ParentID: strPtr("a"), SpaceType: models.SpacePublic})
	leaf := store.addFolder(&models.Folder{ID: "c", ParentID: strPtr("b"), SpaceType: models.SpacePublic})
	store.addGrant("g1", "u1", strPtr("a"), nil, models.CollaboratorViewer)
	store.addGrant("g2", "u1", strPtr("b"), nil, models.CollaboratorEditor)

	engine := newTestEngine(store)
	ctx := context.Background()

	// b's Editor grant is nearer to c than a's Viewer grant.
	assert.True(t, engine.CheckPermission(ctx, user, leaf, models.ActionWrite))
	assert.Equal(t, models.LevelEditor, engine.EffectiveRole(ctx, user, leaf))
}

func TestViewerGrantDoesNotCapSpaceAccess(t *testing.T) {
	store := newFakeStore()
	store.addDept("d1", nil)
	user := store.addUser("u1", models.RoleEditor, strPtr("d1"))
	folder := store.addFolder(&models.Folder{
		ID:           "team-docs",
		ParentID:     strPtr("container"),
		SpaceType:    models.SpaceDepartment,
		DepartmentID: strPtr("d1"),
	})
	store.addGrant("g1", "u1", strPtr("team-docs"), nil, models.CollaboratorViewer)

	engine := newTestEngine(store)
	ctx := context.Background()

	// Department membership still grants write even though the explicit
	// grant only says Viewer.
	assert.True(t, engine.CheckPermission(ctx, user, folder, models.ActionWrite))
	assert.Equal(t, models.LevelEditor, engine.EffectiveRole(ctx, user, folder))
}

func TestPublicSpace(t *testing.T) {
	store := newFakeStore()
	stranger := store.addUser("u1", models.RoleEditor, nil)
	owner := store.addUser("u2", models.RoleViewer, nil)
	folder := store.addFolder(&models.Folder{ID: "shared", SpaceType: models.SpacePublic, ParentID: strPtr("root"), OwnerID: strPtr("u2")})
	doc := store.addDocument(&models.Document{ID: "memo", FolderID: strPtr("shared")})

	engine := newTestEngine(store)
	ctx := context.Background()

	assert.True(t, engine.CheckPermission(ctx, stranger, folder, models.ActionRead))
	assert.False(t, engine.CheckPermission(ctx, stranger, folder, models.ActionWrite))
	assert.False(t, engine.CheckPermission(ctx, stranger, doc, models.ActionWrite))
	// Owning the containing folder allows writing its documents.
	assert.True(t, engine.CheckPermission(ctx, owner, doc, models.ActionWrite))
}

func TestDepartmentSpace(t *testing.T) {
	store := newFakeStore()
	store.addDept("d1", nil)
	store.addDept("d2", strPtr("d1"))
	store.addDept("d3", strPtr("d2"))

	container := store.addFolder(&models.Folder{ID: "departments", SpaceType: models.SpaceDepartment})
	store.addFolder(&models.Folder{ID: "f-d1", ParentID: strPtr("departments"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d1")})
	store.addFolder(&models.Folder{ID: "f-d2", ParentID: strPtr("f-d1"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d2")})
	store.addFolder(&models.Folder{ID: "f-d2-restricted", ParentID: strPtr("f-d1"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d2"), IsRestricted: true})

	engine := newTestEngine(store)
	ctx := context.Background()

	tests := []struct {
		name      string
		user      *models.User
		folderID  string
		wantRead  bool
		wantWrite bool
	}{
		{
			name:      "root container readable by anyone",
			user:      store.addUser("outsider", models.RoleEditor, nil),
			folderID:  "departments",
			wantRead:  true,
			wantWrite: false,
		},
		{
			name:      "exact department match",
			user:      store.addUser("d2-editor", models.RoleEditor, strPtr("d2")),
			folderID:  "f-d2",
			wantRead:  true,
			wantWrite: true,
		},
		{
			name:      "global viewer never writes",
			user:      store.addUser("d2-viewer", models.RoleViewer, strPtr("d2")),
			folderID:  "f-d2",
			wantRead:  true,
			wantWrite: false,
		},
		{
			name:      "sub-department reaches parent folder",
			user:      store.addUser("d3-editor", models.RoleEditor, strPtr("d3")),
			folderID:  "f-d2",
			wantRead:  true,
			wantWrite: true,
		},
		{
			name:      "manager reaches subordinate department",
			user:      store.addUser("d1-manager", models.RoleManager, strPtr("d1")),
			folderID:  "f-d2",
			wantRead:  true,
			wantWrite: true,
		},
		{
			name:      "plain editor does not reach down",
			user:      store.addUser("d1-editor", models.RoleEditor, strPtr("d1")),
			folderID:  "f-d2",
			wantRead:  false,
			wantWrite: false,
		},
		{
			name:      "restricted skips department access",
			user:      store.addUser("d2-editor-2", models.RoleEditor, strPtr("d2")),
			folderID:  "f-d2-restricted",
			wantRead:  false,
			wantWrite: false,
		},
		{
			name:      "no department no access",
			user:      store.addUser("drifter", models.RoleEditor, nil),
			folderID:  "f-d2",
			wantRead:  false,
			wantWrite: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder, err := store.GetByID(ctx, tt.folderID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRead, engine.CheckPermission(ctx, tt.user, folder, models.ActionRead), "read")
			assert.Equal(t, tt.wantWrite, engine.CheckPermission(ctx, tt.user, folder, models.ActionWrite), "write")
		})
	}

	_ = container
}

func TestRestrictedDepartmentFolderStillSharedExplicitly(t *testing.T) {
	store := newFakeStore()
	store.addDept("d1", nil)
	user := store.addUser("u1", models.RoleEditor, strPtr("d1"))
	folder := store.addFolder(&models.Folder{
		ID:           "payroll",
		ParentID:     strPtr("departments"),
		SpaceType:    models.SpaceDepartment,
		DepartmentID: strPtr("d1"),
		IsRestricted: true,
	})
	store.addGrant("g1", "u1", strPtr("payroll"), nil, models.CollaboratorEditor)

	engine := newTestEngine(store)
	ctx := context.Background()

	assert.True(t, engine.CheckPermission(ctx, user, folder, models.ActionWrite))
}

func TestProjectSpace(t *testing.T) {
	store := newFakeStore()
	store.addFolder(&models.Folder{ID: "projects", SpaceType: models.SpaceProject})
	store.addFolder(&models.Folder{ID: "p-root", ParentID: strPtr("projects"), SpaceType: models.SpaceProject})
	inner := store.addFolder(&models.Folder{ID: "p-inner", ParentID: strPtr("p-root"), SpaceType: models.SpaceProject})
	store.addProject("p1", "apollo", "p-root")

	admin := store.addUser("p-admin", models.RoleEditor, nil)
	editor := store.addUser("p-editor", models.RoleEditor, nil)
	viewer := store.addUser("p-viewer", models.RoleEditor, nil)
	outsider := store.addUser("outsider", models.RoleManager, nil)
	store.addMember("p1", "p-admin", models.ProjectAdmin)
	store.addMember("p1", "p-editor", models.ProjectEditor)
	store.addMember("p1", "p-viewer", models.ProjectViewer)

	engine := newTestEngine(store)
	ctx := context.Background()

	assert.True(t, engine.CheckPermission(ctx, admin, inner, models.ActionWrite))
	assert.True(t, engine.CheckPermission(ctx, editor, inner, models.ActionWrite))
	assert.True(t, engine.CheckPermission(ctx, viewer, inner, models.ActionRead))
	assert.False(t, engine.CheckPermission(ctx, viewer, inner, models.ActionWrite))
	assert.False(t, engine.CheckPermission(ctx, outsider, inner, models.ActionRead))
	assert.False(t, engine.CheckPermission(ctx, outsider, inner, models.ActionWrite))
}

func TestProjectTopContainerIsSharedListing(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("u1", models.RoleViewer, nil)
	container := store.addFolder(&models.Folder{ID: "projects", SpaceType: models.SpaceProject})

	engine := newTestEngine(store)
	ctx := context.Background()

	assert.True(t, engine.CheckPermission(ctx, user, container, models.ActionRead))
	assert.False(t, engine.CheckPermission(ctx, user, container, models.ActionWrite))
}

func TestFolderlessDocument(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("u1", models.RoleEditor, nil)
	open := store.addDocument(&models.Document{ID: "open"})
	restricted := store.addDocument(&models.Document{ID: "hidden", IsRestricted: true})

	engine := newTestEngine(store)
	ctx := context.Background()

	assert.True(t, engine.CheckPermission(ctx, user, open, models.ActionRead))
	assert.False(t, engine.CheckPermission(ctx, user, open, models.ActionWrite))
	assert.False(t, engine.CheckPermission(ctx, user, restricted, models.ActionRead))
}

func TestDirectDocumentGrantShadowsFolderChain(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("u1", models.RoleViewer, nil)
	store.addDept("d1", nil)
	store.addFolder(&models.Folder{ID: "f1", ParentID: strPtr("departments"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d1"), IsRestricted: true})
	doc := store.addDocument(&models.Document{ID: "doc", FolderID: strPtr("f1"), IsRestricted: true})
	store.addGrant("g-folder", "u1", strPtr("f1"), nil, models.CollaboratorEditor)
	store.addGrant("g-doc", "u1", nil, strPtr("doc"), models.CollaboratorViewer)

	engine := newTestEngine(store)
	ctx := context.Background()

	// The document's own grant is the nearest one; the folder's Editor
	// grant never reaches the document.
	assert.True(t, engine.CheckPermission(ctx, user, doc, models.ActionRead))
	assert.False(t, engine.CheckPermission(ctx, user, doc, models.ActionWrite))
	assert.Equal(t, models.LevelViewer, engine.EffectiveRole(ctx, user, doc))
}

func TestCyclicFolderChainTerminates(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("u1", models.RoleEditor, nil)
	a := store.addFolder(&models.Folder{ID: "a", ParentID: strPtr("b"), SpaceType: models.SpaceProject})
	store.addFolder(&models.Folder{ID: "b", ParentID: strPtr("a"), SpaceType: models.SpaceProject})

	engine := newTestEngine(store)
	ctx := context.Background()

	// Malformed tree: traversal stops at the bound and denies.
	assert.False(t, engine.CheckPermission(ctx, user, a, models.ActionRead))
}

func TestEffectiveRoleFloorsToViewer(t *testing.T) {
	store := newFakeStore()
	store.addDept("d1", nil)
	user := store.addUser("u1", models.RoleEditor, nil)
	folder := store.addFolder(&models.Folder{
		ID:           "f1",
		ParentID:     strPtr("departments"),
		SpaceType:    models.SpaceDepartment,
		DepartmentID: strPtr("d1"),
	})

	engine := newTestEngine(store)
	ctx := context.Background()

	require.False(t, engine.CheckPermission(ctx, user, folder, models.ActionRead))
	assert.Equal(t, models.LevelViewer, engine.EffectiveRole(ctx, user, folder))
}

func TestGradingConsistentWithGate(t *testing.T) {
	store := newFakeStore()
	store.addDept("d1", nil)
	store.addDept("d2", strPtr("d1"))

	store.addFolder(&models.Folder{ID: "departments", SpaceType: models.SpaceDepartment})
	store.addFolder(&models.Folder{ID: "f-d1", ParentID: strPtr("departments"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d1")})
	store.addFolder(&models.Folder{ID: "f-shared", ParentID: strPtr("f-d1"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d1"), IsRestricted: true})
	store.addFolder(&models.Folder{ID: "owned", ParentID: strPtr("f-d1"), SpaceType: models.SpaceDepartment, DepartmentID: strPtr("d1"), OwnerID: strPtr("u-own")})

	users := []*models.User{
		store.addUser("u-own", models.RoleViewer, strPtr("d1")),
		store.addUser("u-d1", models.RoleEditor, strPtr("d1")),
		store.addUser("u-d2", models.RoleViewer, strPtr("d2")),
		store.addUser("u-none", models.RoleEditor, nil),
		store.addUser("u-root", models.RoleSuperAdmin, nil),
	}
	store.addGrant("g1", "u-d2", strPtr("f-shared"), nil, models.CollaboratorAdmin)

	engine := newTestEngine(store)
	ctx := context.Background()

	// Anything graded Editor or above must pass the write gate; grading
	// below Editor must fail it.
	for _, user := range users {
		for _, folder := range store.folders {
			role := engine.EffectiveRole(ctx, user, folder)
			write := engine.CheckPermission(ctx, user, folder, models.ActionWrite)
			if role >= models.LevelEditor {
				assert.True(t, write, "user %s folder %s graded %s", user.ID, folder.ID, role)
			} else {
				assert.False(t, write, "user %s folder %s graded %s", user.ID, folder.ID, role)
			}
		}
	}
}
