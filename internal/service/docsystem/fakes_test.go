package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"docspace/internal/domain"
	"docspace/internal/domain/models"
	"docspace/internal/domain/repositories"
	"docspace/internal/domain/services"
	"docspace/internal/service/access"
	"docspace/internal/spaces"
)

// memDB is an in-memory backing store shared by the repository fakes.
// The same data feeds the real access engine, so the tests exercise the
// services against genuine permission resolution.
type memDB struct {
	users     map[string]*models.User
	depts     map[string]*models.Department
	folders   map[string]*models.Folder
	documents map[string]*models.Document
	grants    map[string]*models.Collaborator
	projects  map[string]*models.Project
	members   map[string]*models.ProjectMember
}

func newMemDB() *memDB {
	return &memDB{
		users:     make(map[string]*models.User),
		depts:     make(map[string]*models.Department),
		folders:   make(map[string]*models.Folder),
		documents: make(map[string]*models.Document),
		grants:    make(map[string]*models.Collaborator),
		projects:  make(map[string]*models.Project),
		members:   make(map[string]*models.ProjectMember),
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(ctx context.Context, user *models.User) error {
	r.db.users[user.ID] = user
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := r.db.users[id]; ok {
		return u, nil
	}
	return nil, notFound("user", id)
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, notFound("user", username)
}

func (r memUsers) List(ctx context.Context, departmentIDs []string, query string, limit, offset int) ([]models.User, error) {
	var out []models.User
	for _, u := range r.db.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r memUsers) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.db.users[user.ID]; !ok {
		return notFound("user", user.ID)
	}
	r.db.users[user.ID] = user
	return nil
}

func (r memUsers) Delete(ctx context.Context, id string) error {
	if _, ok := r.db.users[id]; !ok {
		return notFound("user", id)
	}
	delete(r.db.users, id)
	return nil
}

type memDepts struct{ db *memDB }

func (r memDepts) Create(ctx context.Context, dept *models.Department) error {
	r.db.depts[dept.ID] = dept
	return nil
}

func (r memDepts) GetByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := r.db.depts[id]; ok {
		return d, nil
	}
	return nil, notFound("department", id)
}

func (r memDepts) GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Department, error) {
	for _, d := range r.db.depts {
		if d.Name == name && samePtr(d.ParentID, parentID) {
			return d, nil
		}
	}
	return nil, notFound("department", name)
}

func (r memDepts) List(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	for _, d := range r.db.depts {
		out = append(out, *d)
	}
	return out, nil
}

func (r memDepts) ListChildren(ctx context.Context, parentID string) ([]models.Department, error) {
	var out []models.Department
	for _, d := range r.db.depts {
		if d.ParentID != nil && *d.ParentID == parentID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r memDepts) HasMembers(ctx context.Context, id string) (bool, error) {
	for _, u := range r.db.users {
		if u.DepartmentID != nil && *u.DepartmentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r memDepts) Update(ctx context.Context, dept *models.Department) error {
	if _, ok := r.db.depts[dept.ID]; !ok {
		return notFound("department", dept.ID)
	}
	r.db.depts[dept.ID] = dept
	return nil
}

func (r memDepts) Delete(ctx context.Context, id string) error {
	if _, ok := r.db.depts[id]; !ok {
		return notFound("department", id)
	}
	delete(r.db.depts, id)
	return nil
}

type memFolders struct{ db *memDB }

func (r memFolders) Create(ctx context.Context, folder *models.Folder) error {
	r.db.folders[folder.ID] = folder
	return nil
}

func (r memFolders) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	if f, ok := r.db.folders[id]; ok {
		return f, nil
	}
	return nil, notFound("folder", id)
}

func (r memFolders) GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	for _, f := range r.db.folders {
		if f.Name == name && samePtr(f.ParentID, parentID) {
			return f, nil
		}
	}
	return nil, notFound("folder", name)
}

func (r memFolders) List(ctx context.Context, filter repositories.FolderFilter) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.db.folders {
		if filter.ParentID != nil && (f.ParentID == nil || *f.ParentID != *filter.ParentID) {
			continue
		}
		if filter.RootsOnly && f.ParentID != nil {
			continue
		}
		if filter.SpaceType != "" && f.SpaceType != filter.SpaceType {
			continue
		}
		if filter.DepartmentID != nil && (f.DepartmentID == nil || *f.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.NameQuery != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(filter.NameQuery)) {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (r memFolders) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.db.folders {
		if f.OwnedBy(ownerID) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r memFolders) ListByDepartments(ctx context.Context, departmentIDs []string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.db.folders {
		if f.SpaceType != models.SpaceDepartment || f.DepartmentID == nil {
			continue
		}
		for _, id := range departmentIDs {
			if *f.DepartmentID == id {
				out = append(out, *f)
				break
			}
		}
	}
	return out, nil
}

func (r memFolders) GetSpaceRoot(ctx context.Context, space models.SpaceType) (*models.Folder, error) {
	for _, f := range r.db.folders {
		if f.ParentID == nil && f.SpaceType == space && f.DepartmentID == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%s space root: %w", space, domain.ErrNotFound)
}

func (r memFolders) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := r.db.folders[folder.ID]; !ok {
		return notFound("folder", folder.ID)
	}
	r.db.folders[folder.ID] = folder
	return nil
}

func (r memFolders) DeleteSubtree(ctx context.Context, id string) error {
	if _, ok := r.db.folders[id]; !ok {
		return notFound("folder", id)
	}
	subtree := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, f := range r.db.folders {
			if f.ParentID != nil && subtree[*f.ParentID] && !subtree[f.ID] {
				subtree[f.ID] = true
				changed = true
			}
		}
	}
	for fid := range subtree {
		delete(r.db.folders, fid)
	}
	for did, d := range r.db.documents {
		if d.FolderID != nil && subtree[*d.FolderID] {
			delete(r.db.documents, did)
		}
	}
	for gid, g := range r.db.grants {
		if g.FolderID != nil && subtree[*g.FolderID] {
			delete(r.db.grants, gid)
		}
		if g.DocumentID != nil {
			if _, ok := r.db.documents[*g.DocumentID]; !ok {
				delete(r.db.grants, gid)
			}
		}
	}
	return nil
}

type memDocs struct{ db *memDB }

func (r memDocs) Create(ctx context.Context, doc *models.Document) error {
	r.db.documents[doc.ID] = doc
	return nil
}

func (r memDocs) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if d, ok := r.db.documents[id]; ok {
		return d, nil
	}
	return nil, notFound("document", id)
}

func (r memDocs) GetActiveByNameAndFolder(ctx context.Context, name string, folderID *string) (*models.Document, error) {
	for _, d := range r.db.documents {
		if d.Name == name && samePtr(d.FolderID, folderID) && !d.IsDeleted {
			return d, nil
		}
	}
	return nil, notFound("document", name)
}

func (r memDocs) List(ctx context.Context, filter repositories.DocumentFilter) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.db.documents {
		if d.IsDeleted {
			continue
		}
		if filter.FolderID != nil && (d.FolderID == nil || *d.FolderID != *filter.FolderID) {
			continue
		}
		if filter.AuthorID != nil && (d.AuthorID == nil || *d.AuthorID != *filter.AuthorID) {
			continue
		}
		if filter.NameQuery != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.NameQuery)) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r memDocs) ListByAuthor(ctx context.Context, authorID string) ([]models.Document, error) {
	return r.List(ctx, repositories.DocumentFilter{AuthorID: &authorID})
}

func (r memDocs) Update(ctx context.Context, doc *models.Document) error {
	if _, ok := r.db.documents[doc.ID]; !ok {
		return notFound("document", doc.ID)
	}
	r.db.documents[doc.ID] = doc
	return nil
}

func (r memDocs) MarkDeleted(ctx context.Context, id string) error {
	d, ok := r.db.documents[id]
	if !ok || d.IsDeleted {
		return notFound("document", id)
	}
	d.IsDeleted = true
	return nil
}

type memCollabs struct{ db *memDB }

func (r memCollabs) Create(ctx context.Context, collab *models.Collaborator) error {
	r.db.grants[collab.ID] = collab
	return nil
}

func (r memCollabs) GetByID(ctx context.Context, id string) (*models.Collaborator, error) {
	if g, ok := r.db.grants[id]; ok {
		return g, nil
	}
	return nil, notFound("grant", id)
}

func (r memCollabs) GetForFolder(ctx context.Context, userID, folderID string) (*models.Collaborator, error) {
	for _, g := range r.db.grants {
		if g.UserID == userID && g.FolderID != nil && *g.FolderID == folderID {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memCollabs) GetForDocument(ctx context.Context, userID, documentID string) (*models.Collaborator, error) {
	for _, g := range r.db.grants {
		if g.UserID == userID && g.DocumentID != nil && *g.DocumentID == documentID {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memCollabs) ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error) {
	var out []models.Collaborator
	for _, g := range r.db.grants {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r memCollabs) ListByFolders(ctx context.Context, folderIDs []string) ([]models.Collaborator, error) {
	var out []models.Collaborator
	for _, g := range r.db.grants {
		if g.FolderID == nil {
			continue
		}
		for _, id := range folderIDs {
			if *g.FolderID == id {
				out = append(out, *g)
				break
			}
		}
	}
	return out, nil
}

func (r memCollabs) ListByDocument(ctx context.Context, documentID string) ([]models.Collaborator, error) {
	var out []models.Collaborator
	for _, g := range r.db.grants {
		if g.DocumentID != nil && *g.DocumentID == documentID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r memCollabs) Update(ctx context.Context, collab *models.Collaborator) error {
	if _, ok := r.db.grants[collab.ID]; !ok {
		return notFound("grant", collab.ID)
	}
	r.db.grants[collab.ID] = collab
	return nil
}

func (r memCollabs) Delete(ctx context.Context, id string) error {
	if _, ok := r.db.grants[id]; !ok {
		return notFound("grant", id)
	}
	delete(r.db.grants, id)
	return nil
}

type memProjects struct{ db *memDB }

func (r memProjects) Create(ctx context.Context, project *models.Project) error {
	r.db.projects[project.ID] = project
	return nil
}

func (r memProjects) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if p, ok := r.db.projects[id]; ok {
		return p, nil
	}
	return nil, notFound("project", id)
}

func (r memProjects) GetByRootFolder(ctx context.Context, folderID string) (*models.Project, error) {
	for _, p := range r.db.projects {
		if p.RootFolderID == folderID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memProjects) List(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	for _, p := range r.db.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (r memProjects) ListByMember(ctx context.Context, userID string) ([]models.Project, error) {
	var out []models.Project
	for _, m := range r.db.members {
		if m.UserID == userID {
			if p, ok := r.db.projects[m.ProjectID]; ok {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (r memProjects) Update(ctx context.Context, project *models.Project) error {
	if _, ok := r.db.projects[project.ID]; !ok {
		return notFound("project", project.ID)
	}
	r.db.projects[project.ID] = project
	return nil
}

func (r memProjects) Delete(ctx context.Context, id string) error {
	if _, ok := r.db.projects[id]; !ok {
		return notFound("project", id)
	}
	delete(r.db.projects, id)
	for key, m := range r.db.members {
		if m.ProjectID == id {
			delete(r.db.members, key)
		}
	}
	return nil
}

type memMembers struct{ db *memDB }

func memberKey(projectID, userID string) string { return projectID + ":" + userID }

func (r memMembers) Add(ctx context.Context, member *models.ProjectMember) error {
	key := memberKey(member.ProjectID, member.UserID)
	if _, ok := r.db.members[key]; ok {
		return &domain.ConflictError{Message: "user is already a project member", ResourceType: "project_member"}
	}
	r.db.members[key] = member
	return nil
}

func (r memMembers) Get(ctx context.Context, projectID, userID string) (*models.ProjectMember, error) {
	if m, ok := r.db.members[memberKey(projectID, userID)]; ok {
		return m, nil
	}
	return nil, notFound("membership", userID)
}

func (r memMembers) ListByProject(ctx context.Context, projectID string) ([]models.ProjectMember, error) {
	var out []models.ProjectMember
	for _, m := range r.db.members {
		if m.ProjectID == projectID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r memMembers) ListByUser(ctx context.Context, userID string) ([]models.ProjectMember, error) {
	var out []models.ProjectMember
	for _, m := range r.db.members {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r memMembers) Update(ctx context.Context, member *models.ProjectMember) error {
	key := memberKey(member.ProjectID, member.UserID)
	if _, ok := r.db.members[key]; !ok {
		return notFound("membership", member.UserID)
	}
	r.db.members[key] = member
	return nil
}

func (r memMembers) Remove(ctx context.Context, projectID, userID string) error {
	key := memberKey(projectID, userID)
	if _, ok := r.db.members[key]; !ok {
		return notFound("membership", userID)
	}
	delete(r.db.members, key)
	return nil
}

// memTx runs the function directly; the in-memory store has no
// transaction semantics to enforce.
type memTx struct{}

func (memTx) ExecTx(ctx context.Context, fn repositories.TxFn) error { return fn(ctx) }

type memObjectStore struct{}

func (memObjectStore) GenerateKey(filename string) string { return "objects/" + filename }

func (memObjectStore) PresignedURL(ctx context.Context, key string) (string, error) {
	return "https://store.example/" + key, nil
}

func (memObjectStore) Delete(ctx context.Context, key string) error { return nil }

// env bundles the services under test over one shared store.
type env struct {
	db          *memDB
	access      services.AccessService
	folders     services.FolderService
	documents   services.DocumentService
	shares      services.ShareService
	projects    services.ProjectService
	departments services.DepartmentService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := newMemDB()
	logger := slog.Default()

	folderRepo := memFolders{db}
	docRepo := memDocs{db}
	userRepo := memUsers{db}
	deptRepo := memDepts{db}
	collabRepo := memCollabs{db}
	projectRepo := memProjects{db}
	memberRepo := memMembers{db}

	engine := access.NewEngine(folderRepo, deptRepo, collabRepo, projectRepo, memberRepo, logger)
	reporter := access.NewReporter(engine, folderRepo, docRepo, deptRepo, collabRepo, memberRepo, projectRepo, userRepo, logger)
	accessSvc := access.NewService(engine, reporter)

	registry, err := spaces.NewRegistry()
	if err != nil {
		t.Fatalf("load spaces registry: %v", err)
	}

	return &env{
		db:          db,
		access:      accessSvc,
		folders:     NewFolderService(folderRepo, projectRepo, accessSvc, memTx{}, logger),
		documents:   NewDocumentService(docRepo, folderRepo, userRepo, accessSvc, memObjectStore{}, logger),
		shares:      NewShareService(collabRepo, folderRepo, docRepo, userRepo, accessSvc, logger),
		projects:    NewProjectService(projectRepo, memberRepo, folderRepo, userRepo, deptRepo, registry, memTx{}, logger),
		departments: NewDepartmentService(deptRepo, folderRepo, registry, memTx{}, logger),
	}
}

func (e *env) addUser(id string, role models.Role, departmentID *string) *models.User {
	u := &models.User{ID: id, Username: id, Role: role, DepartmentID: departmentID}
	e.db.users[id] = u
	return u
}

func (e *env) addFolder(f *models.Folder) *models.Folder {
	if f.Name == "" {
		f.Name = f.ID
	}
	e.db.folders[f.ID] = f
	return f
}

func strPtr(s string) *string { return &s }
