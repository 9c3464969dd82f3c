package access

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"docspace/internal/config"
	"docspace/internal/domain/models"
)

// ReportFolderLookup enumerates folders for the aggregation report
type ReportFolderLookup interface {
	FolderLookup
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)
	ListByDepartments(ctx context.Context, departmentIDs []string) ([]models.Folder, error)
}

// ReportDocumentLookup resolves documents referenced by grants
type ReportDocumentLookup interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
}

// ReportGrantLookup enumerates a user's explicit grants
type ReportGrantLookup interface {
	ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error)
}

// ReportMembershipLookup enumerates a user's project memberships
type ReportMembershipLookup interface {
	ListByUser(ctx context.Context, userID string) ([]models.ProjectMember, error)
}

// ReportProjectLookup resolves projects referenced by memberships
type ReportProjectLookup interface {
	GetByID(ctx context.Context, id string) (*models.Project, error)
}

// ReportUserLookup resolves users for share attribution
type ReportUserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Reporter builds the cross-resource permission report: every resource
// a user can reach through ownership, department position, project
// membership or an explicit grant. Overlapping sources for the same
// resource merge max-wins by role priority with a union of sources —
// deliberately unlike the nearest-wins rule grants follow during
// point resolution.
type Reporter struct {
	engine    *Engine
	folders   ReportFolderLookup
	documents ReportDocumentLookup
	depts     DepartmentLookup
	grants    ReportGrantLookup
	members   ReportMembershipLookup
	projects  ReportProjectLookup
	users     ReportUserLookup
	logger    *slog.Logger
}

// NewReporter creates a new permission reporter
func NewReporter(
	engine *Engine,
	folders ReportFolderLookup,
	documents ReportDocumentLookup,
	depts DepartmentLookup,
	grants ReportGrantLookup,
	members ReportMembershipLookup,
	projects ReportProjectLookup,
	users ReportUserLookup,
	logger *slog.Logger,
) *Reporter {
	return &Reporter{
		engine:    engine,
		folders:   folders,
		documents: documents,
		depts:     depts,
		grants:    grants,
		members:   members,
		projects:  projects,
		users:     users,
		logger:    logger,
	}
}

type reportEntry struct {
	item  models.PermissionReportItem
	level models.AccessLevel
}

// PermissionReport aggregates every resource reachable by the user.
func (r *Reporter) PermissionReport(ctx context.Context, user *models.User) ([]models.PermissionReportItem, error) {
	entries := make(map[string]*reportEntry)

	if err := r.collectOwned(ctx, user, entries); err != nil {
		return nil, err
	}
	if err := r.collectDepartments(ctx, user, entries); err != nil {
		return nil, err
	}
	if err := r.collectProjects(ctx, user, entries); err != nil {
		return nil, err
	}
	if err := r.collectShares(ctx, user, entries); err != nil {
		return nil, err
	}

	items := make([]models.PermissionReportItem, 0, len(entries))
	for _, entry := range entries {
		entry.item.EffectiveRole = entry.level.String()
		items = append(items, entry.item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ResourceType != items[j].ResourceType {
			return items[i].ResourceType < items[j].ResourceType
		}
		if items[i].ResourceName != items[j].ResourceName {
			return items[i].ResourceName < items[j].ResourceName
		}
		return items[i].ResourceID < items[j].ResourceID
	})
	return items, nil
}

func (r *Reporter) collectOwned(ctx context.Context, user *models.User, entries map[string]*reportEntry) error {
	folders, err := r.folders.ListByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list owned folders: %w", err)
	}
	for i := range folders {
		r.mergeFolder(entries, &folders[i], models.LevelOwner, "Owner")
	}
	return nil
}

func (r *Reporter) collectDepartments(ctx context.Context, user *models.User, entries map[string]*reportEntry) error {
	if user.DepartmentID == nil {
		return nil
	}

	// Full ancestor chain, own department first.
	type chainDept struct {
		dept      *models.Department
		inherited bool
	}
	var chain []chainDept
	currentID := *user.DepartmentID
	for depth := 0; depth < config.MaxDepartmentChainDepth; depth++ {
		dept, err := r.depts.GetByID(ctx, currentID)
		if err != nil {
			break
		}
		chain = append(chain, chainDept{dept: dept, inherited: depth > 0})
		if dept.ParentID == nil {
			break
		}
		currentID = *dept.ParentID
	}
	if len(chain) == 0 {
		return nil
	}

	ids := make([]string, len(chain))
	names := make(map[string]chainDept, len(chain))
	for i, cd := range chain {
		ids[i] = cd.dept.ID
		names[cd.dept.ID] = cd
	}

	folders, err := r.folders.ListByDepartments(ctx, ids)
	if err != nil {
		return fmt.Errorf("list department folders: %w", err)
	}
	for i := range folders {
		folder := &folders[i]
		cd, ok := names[deref(folder.DepartmentID)]
		if !ok {
			continue
		}
		source := fmt.Sprintf("Department: %s", cd.dept.Name)
		if cd.inherited {
			source += " (inherited)"
		}
		level := r.engine.EffectiveRole(ctx, user, folder)
		r.mergeFolder(entries, folder, level, source)
	}
	return nil
}

func (r *Reporter) collectProjects(ctx context.Context, user *models.User, entries map[string]*reportEntry) error {
	memberships, err := r.members.ListByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list memberships: %w", err)
	}
	for _, m := range memberships {
		project, err := r.projects.GetByID(ctx, m.ProjectID)
		if err != nil {
			continue
		}
		folder, err := r.folders.GetByID(ctx, project.RootFolderID)
		if err != nil {
			continue
		}

		level := models.LevelViewer
		if m.Role == models.ProjectAdmin || m.Role == models.ProjectEditor {
			level = models.LevelEditor
		}
		r.mergeFolder(entries, folder, level, fmt.Sprintf("Project: %s", project.Name))
	}
	return nil
}

func (r *Reporter) collectShares(ctx context.Context, user *models.User, entries map[string]*reportEntry) error {
	grants, err := r.grants.ListByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list grants: %w", err)
	}
	for i := range grants {
		grant := &grants[i]
		level := models.CollaboratorLevel(grant.Role)

		switch {
		case grant.FolderID != nil:
			folder, err := r.folders.GetByID(ctx, *grant.FolderID)
			if err != nil {
				continue
			}
			entry := r.mergeFolder(entries, folder, level, r.sharedSource(ctx, folder.OwnerID))
			entry.item.IsExplicitShare = true
			entry.item.ShareID = &grant.ID
		case grant.DocumentID != nil:
			doc, err := r.documents.GetByID(ctx, *grant.DocumentID)
			if err != nil {
				continue
			}
			entry := r.merge(entries, models.ResourceDocument, doc.ID, doc.Name, doc.FolderID, level, r.sharedSource(ctx, doc.AuthorID))
			entry.item.IsExplicitShare = true
			entry.item.ShareID = &grant.ID
		}
	}
	return nil
}

// sharedSource attributes a grant to the resource's owner.
func (r *Reporter) sharedSource(ctx context.Context, ownerID *string) string {
	if ownerID != nil {
		if owner, err := r.users.GetByID(ctx, *ownerID); err == nil {
			return fmt.Sprintf("Shared by %s", owner.Username)
		}
	}
	return "Shared"
}

func (r *Reporter) mergeFolder(entries map[string]*reportEntry, folder *models.Folder, level models.AccessLevel, source string) *reportEntry {
	return r.merge(entries, models.ResourceFolder, folder.ID, folder.Name, folder.ParentID, level, source)
}

func (r *Reporter) merge(
	entries map[string]*reportEntry,
	resourceType models.ResourceType,
	id, name string,
	parentID *string,
	level models.AccessLevel,
	source string,
) *reportEntry {
	key := string(resourceType) + ":" + id
	entry, ok := entries[key]
	if !ok {
		entry = &reportEntry{
			item: models.PermissionReportItem{
				ResourceType: resourceType,
				ResourceID:   id,
				ResourceName: name,
				ParentID:     parentID,
			},
			level: level,
		}
		entries[key] = entry
	}
	entry.level = models.MaxLevel(entry.level, level)
	if !slices.Contains(entry.item.Sources, source) {
		entry.item.Sources = append(entry.item.Sources, source)
	}
	return entry
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
