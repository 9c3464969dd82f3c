package access

import (
	"context"
	"fmt"
	"log/slog"

	"docspace/internal/domain"
	"docspace/internal/domain/models"
)

// fakeStore is an in-memory resource graph backing every lookup the
// engine and reporter consume.
type fakeStore struct {
	users     map[string]*models.User
	depts     map[string]*models.Department
	folders   map[string]*models.Folder
	documents map[string]*models.Document
	grants    []*models.Collaborator
	projects  map[string]*models.Project
	members   []*models.ProjectMember
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]*models.User),
		depts:     make(map[string]*models.Department),
		folders:   make(map[string]*models.Folder),
		documents: make(map[string]*models.Document),
		projects:  make(map[string]*models.Project),
	}
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	if f, ok := s.folders[id]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

type fakeDepts struct{ store *fakeStore }

func (s fakeDepts) GetByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := s.store.depts[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("department %s: %w", id, domain.ErrNotFound)
}

type fakeGrants struct{ store *fakeStore }

func (s fakeGrants) GetForFolder(ctx context.Context, userID, folderID string) (*models.Collaborator, error) {
	for _, g := range s.store.grants {
		if g.UserID == userID && g.FolderID != nil && *g.FolderID == folderID {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s fakeGrants) GetForDocument(ctx context.Context, userID, documentID string) (*models.Collaborator, error) {
	for _, g := range s.store.grants {
		if g.UserID == userID && g.DocumentID != nil && *g.DocumentID == documentID {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s fakeGrants) ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error) {
	var out []models.Collaborator
	for _, g := range s.store.grants {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

type fakeProjects struct{ store *fakeStore }

func (s fakeProjects) GetByRootFolder(ctx context.Context, folderID string) (*models.Project, error) {
	for _, p := range s.store.projects {
		if p.RootFolderID == folderID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s fakeProjects) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if p, ok := s.store.projects[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
}

type fakeMembers struct{ store *fakeStore }

func (s fakeMembers) Get(ctx context.Context, projectID, userID string) (*models.ProjectMember, error) {
	for _, m := range s.store.members {
		if m.ProjectID == projectID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s fakeMembers) ListByUser(ctx context.Context, userID string) ([]models.ProjectMember, error) {
	var out []models.ProjectMember
	for _, m := range s.store.members {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeFolders struct{ store *fakeStore }

func (s fakeFolders) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	return s.store.GetByID(ctx, id)
}

func (s fakeFolders) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range s.store.folders {
		if f.OwnedBy(ownerID) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s fakeFolders) ListByDepartments(ctx context.Context, departmentIDs []string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range s.store.folders {
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

type fakeDocuments struct{ store *fakeStore }

func (s fakeDocuments) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if d, ok := s.store.documents[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

type fakeUsers struct{ store *fakeStore }

func (s fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.store.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func newTestEngine(store *fakeStore) *Engine {
	return NewEngine(
		store,
		fakeDepts{store},
		fakeGrants{store},
		fakeProjects{store},
		fakeMembers{store},
		slog.Default(),
	)
}

func newTestReporter(store *fakeStore) *Reporter {
	return NewReporter(
		newTestEngine(store),
		fakeFolders{store},
		fakeDocuments{store},
		fakeDepts{store},
		fakeGrants{store},
		fakeMembers{store},
		fakeProjects{store},
		fakeUsers{store},
		slog.Default(),
	)
}

func strPtr(s string) *string { return &s }

func (s *fakeStore) addUser(id string, role models.Role, departmentID *string) *models.User {
	u := &models.User{ID: id, Username: id, Role: role, DepartmentID: departmentID}
	s.users[id] = u
	return u
}

func (s *fakeStore) addDept(id string, parentID *string) *models.Department {
	d := &models.Department{ID: id, Name: id, ParentID: parentID}
	s.depts[id] = d
	return d
}

func (s *fakeStore) addFolder(f *models.Folder) *models.Folder {
	if f.Name == "" {
		f.Name = f.ID
	}
	s.folders[f.ID] = f
	return f
}

func (s *fakeStore) addDocument(d *models.Document) *models.Document {
	if d.Name == "" {
		d.Name = d.ID
	}
	s.documents[d.ID] = d
	return d
}

func (s *fakeStore) addGrant(id, userID string, folderID, documentID *string, role models.CollaboratorRole) *models.Collaborator {
	g := &models.Collaborator{ID: id, UserID: userID, FolderID: folderID, DocumentID: documentID, Role: role}
	s.grants = append(s.grants, g)
	return g
}

func (s *fakeStore) addProject(id, name, rootFolderID string) *models.Project {
	p := &models.Project{ID: id, Name: name, Status: models.ProjectActive, RootFolderID: rootFolderID}
	s.projects[id] = p
	return p
}

func (s *fakeStore) addMember(projectID, userID string, role models.ProjectRole) *models.ProjectMember {
	m := &models.ProjectMember{ID: projectID + ":" + userID, ProjectID: projectID, UserID: userID, Role: role}
	s.members = append(s.members, m)
	return m
}
