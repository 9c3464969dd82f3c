package docsystem

import (
	"context"
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

type shareService struct {
	collabRepo repositories.CollaboratorRepository
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	userRepo   repositories.UserRepository
	access     services.AccessService
	logger     *slog.Logger
}

// NewShareService creates a new share service
func NewShareService(
	collabRepo repositories.CollaboratorRepository,
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	userRepo repositories.UserRepository,
	access services.AccessService,
	logger *slog.Logger,
) services.ShareService {
	return &shareService{
		collabRepo: collabRepo,
		folderRepo: folderRepo,
		docRepo:    docRepo,
		userRepo:   userRepo,
		access:     access,
		logger:     logger,
	}
}

// Share grants a role on a folder or document. Sharing the same
// resource with the same user again updates the grant in place — last
// write wins.
func (s *shareService) Share(ctx context.Context, actor *models.User, req *services.ShareRequest) (*models.Collaborator, error) {
	if err := s.validateShareRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	resource, err := s.resolveResource(ctx, req.FolderID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if !s.access.CheckPermission(ctx, actor, resource, models.ActionWrite) {
		return nil, &domain.ForbiddenError{Message: "no write access to resource"}
	}

	var existing *models.Collaborator
	if req.FolderID != nil {
		existing, _ = s.collabRepo.GetForFolder(ctx, req.UserID, *req.FolderID)
	} else {
		existing, _ = s.collabRepo.GetForDocument(ctx, req.UserID, *req.DocumentID)
	}
	if existing != nil {
		existing.Role = req.Role
		if err := s.collabRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.logger.Info("share updated", "id", existing.ID, "role", req.Role, "actor", actor.ID)
		return existing, nil
	}

	grant := &models.Collaborator{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		FolderID:   req.FolderID,
		DocumentID: req.DocumentID,
		Role:       req.Role,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.collabRepo.Create(ctx, grant); err != nil {
		return nil, err
	}

	s.logger.Info("share created",
		"id", grant.ID,
		"user", grant.UserID,
		"role", grant.Role,
		"actor", actor.ID,
	)
	return grant, nil
}

// UpdateShare changes an existing grant's role.
func (s *shareService) UpdateShare(ctx context.Context, actor *models.User, shareID string, role models.CollaboratorRole) (*models.Collaborator, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, role)
	}

	grant, err := s.collabRepo.GetByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if err := s.requireShareAdmin(ctx, actor, grant); err != nil {
		return nil, err
	}

	grant.Role = role
	if err := s.collabRepo.Update(ctx, grant); err != nil {
		return nil, err
	}

	s.logger.Info("share updated", "id", grant.ID, "role", role, "actor", actor.ID)
	return grant, nil
}

// Revoke removes a grant.
func (s *shareService) Revoke(ctx context.Context, actor *models.User, shareID string) error {
	grant, err := s.collabRepo.GetByID(ctx, shareID)
	if err != nil {
		return err
	}
	if err := s.requireShareAdmin(ctx, actor, grant); err != nil {
		return err
	}

	if err := s.collabRepo.Delete(ctx, grant.ID); err != nil {
		return err
	}

	s.logger.Info("share revoked", "id", grant.ID, "actor", actor.ID)
	return nil
}

// Collaborators lists everyone holding a grant on the resource or one
// of its ancestor folders. When a user appears more than once, the
// grant nearest to the resource is the one reported.
func (s *shareService) Collaborators(ctx context.Context, actor *models.User, folderID, documentID *string) ([]services.CollaboratorEntry, error) {
	resource, err := s.resolveResource(ctx, folderID, documentID)
	if err != nil {
		return nil, err
	}
	if !s.access.CheckPermission(ctx, actor, resource, models.ActionRead) {
		return nil, &domain.ForbiddenError{Message: "no read access to resource"}
	}

	var ordered []models.Collaborator

	startFolder := folderID
	if documentID != nil {
		direct, err := s.collabRepo.ListByDocument(ctx, *documentID)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, direct...)
		if doc, ok := resource.(*models.Document); ok {
			startFolder = doc.FolderID
		}
	}

	if startFolder != nil {
		chain, err := s.ancestorChain(ctx, *startFolder)
		if err != nil {
			return nil, err
		}
		position := make(map[string]int, len(chain))
		for i, id := range chain {
			position[id] = i
		}

		grants, err := s.collabRepo.ListByFolders(ctx, chain)
		if err != nil {
			return nil, err
		}
		// Nearest folder first.
		for idx := range chain {
			for i := range grants {
				if grants[i].FolderID != nil && position[*grants[i].FolderID] == idx {
					ordered = append(ordered, grants[i])
				}
			}
		}
	}

	seen := make(map[string]bool)
	entries := make([]services.CollaboratorEntry, 0, len(ordered))
	for i := range ordered {
		grant := &ordered[i]
		if seen[grant.UserID] {
			continue
		}
		seen[grant.UserID] = true

		entry := services.CollaboratorEntry{
			ShareID: grant.ID,
			UserID:  grant.UserID,
			Role:    grant.Role,
		}
		if user, err := s.userRepo.GetByID(ctx, grant.UserID); err == nil {
			entry.Username = user.Username
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SharedWithMe lists resources explicitly shared with the actor. Space
// containers never show up here even when a grant points at one.
func (s *shareService) SharedWithMe(ctx context.Context, actor *models.User) ([]services.SharedResource, error) {
	grants, err := s.collabRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	out := make([]services.SharedResource, 0, len(grants))
	for i := range grants {
		grant := &grants[i]
		switch {
		case grant.FolderID != nil:
			folder, err := s.folderRepo.GetByID(ctx, *grant.FolderID)
			if err != nil || folder.IsSpaceRoot() {
				continue
			}
			out = append(out, services.SharedResource{
				Type:      models.ResourceFolder,
				ID:        folder.ID,
				Name:      folder.Name,
				Role:      grant.Role,
				OwnerName: s.username(ctx, folder.OwnerID),
			})
		case grant.DocumentID != nil:
			doc, err := s.docRepo.GetByID(ctx, *grant.DocumentID)
			if err != nil || doc.IsDeleted {
				continue
			}
			out = append(out, services.SharedResource{
				Type:      models.ResourceDocument,
				ID:        doc.ID,
				Name:      doc.Name,
				Size:      doc.Size,
				FileType:  doc.FileType,
				Role:      grant.Role,
				OwnerName: s.username(ctx, doc.AuthorID),
			})
		}
	}
	return out, nil
}

// UserShares lists a user's inbound and outbound share history for the
// administrative view.
func (s *shareService) UserShares(ctx context.Context, userID string) ([]services.ShareHistoryItem, error) {
	var items []services.ShareHistoryItem

	inbound, err := s.collabRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range inbound {
		if item, ok := s.historyItem(ctx, &inbound[i], services.ShareInbound); ok {
			items = append(items, item)
		}
	}

	ownedFolders, err := s.folderRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	folderIDs := make([]string, len(ownedFolders))
	for i := range ownedFolders {
		folderIDs[i] = ownedFolders[i].ID
	}
	outbound, err := s.collabRepo.ListByFolders(ctx, folderIDs)
	if err != nil {
		return nil, err
	}

	authored, err := s.docRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range authored {
		grants, err := s.collabRepo.ListByDocument(ctx, authored[i].ID)
		if err != nil {
			return nil, err
		}
		outbound = append(outbound, grants...)
	}

	for i := range outbound {
		if outbound[i].UserID == userID {
			continue
		}
		if item, ok := s.historyItem(ctx, &outbound[i], services.ShareOutbound); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *shareService) historyItem(ctx context.Context, grant *models.Collaborator, direction services.ShareDirection) (services.ShareHistoryItem, bool) {
	item := services.ShareHistoryItem{
		Direction: direction,
		Role:      grant.Role,
	}
	switch {
	case grant.FolderID != nil:
		folder, err := s.folderRepo.GetByID(ctx, *grant.FolderID)
		if err != nil {
			return item, false
		}
		item.ResourceType = models.ResourceFolder
		item.ResourceID = folder.ID
		item.ResourceName = folder.Name
		if direction == services.ShareInbound {
			item.TargetUserName = s.username(ctx, folder.OwnerID)
		}
	case grant.DocumentID != nil:
		doc, err := s.docRepo.GetByID(ctx, *grant.DocumentID)
		if err != nil {
			return item, false
		}
		item.ResourceType = models.ResourceDocument
		item.ResourceID = doc.ID
		item.ResourceName = doc.Name
		if direction == services.ShareInbound {
			item.TargetUserName = s.username(ctx, doc.AuthorID)
		}
	default:
		return item, false
	}
	if direction == services.ShareOutbound {
		item.TargetUserName = s.username(ctx, &grant.UserID)
	}
	return item, true
}

// requireShareAdmin gates grant mutation: effective Admin on the
// resource, or super-admin.
func (s *shareService) requireShareAdmin(ctx context.Context, actor *models.User, grant *models.Collaborator) error {
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	resource, err := s.resolveResource(ctx, grant.FolderID, grant.DocumentID)
	if err != nil {
		return err
	}
	if s.access.EffectiveRole(ctx, actor, resource) < models.LevelAdmin {
		return &domain.ForbiddenError{Message: "managing shares requires admin access"}
	}
	return nil
}

func (s *shareService) resolveResource(ctx context.Context, folderID, documentID *string) (models.Resource, error) {
	switch {
	case folderID != nil:
		return s.folderRepo.GetByID(ctx, *folderID)
	case documentID != nil:
		return s.docRepo.GetByID(ctx, *documentID)
	}
	return nil, fmt.Errorf("%w: a folder or document must be named", domain.ErrValidation)
}

// ancestorChain collects the folder and its ancestors, nearest first.
func (s *shareService) ancestorChain(ctx context.Context, folderID string) ([]string, error) {
	var chain []string
	currentID := folderID
	for depth := 0; depth < config.MaxCollaboratorListDepth; depth++ {
		folder, err := s.folderRepo.GetByID(ctx, currentID)
		if err != nil {
			break
		}
		chain = append(chain, folder.ID)
		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}
	return chain, nil
}

func (s *shareService) username(ctx context.Context, userID *string) string {
	if userID == nil {
		return ""
	}
	if user, err := s.userRepo.GetByID(ctx, *userID); err == nil {
		return user.Username
	}
	return ""
}

func (s *shareService) validateShareRequest(req *services.ShareRequest) error {
	if (req.FolderID == nil) == (req.DocumentID == nil) {
		return fmt.Errorf("exactly one of folder_id and document_id must be set")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Role,
			validation.Required,
			validation.In(models.CollaboratorViewer, models.CollaboratorEditor, models.CollaboratorAdmin),
		),
	)
}
