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

type documentService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	userRepo   repositories.UserRepository
	access     services.AccessService
	store      services.ObjectStore
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	userRepo repositories.UserRepository,
	access services.AccessService,
	store services.ObjectStore,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		userRepo:   userRepo,
		access:     access,
		store:      store,
		logger:     logger,
	}
}

// CreateDocument registers an uploaded file as a document. The bytes
// are already in the object store; only the key is recorded here.
func (s *documentService) CreateDocument(ctx context.Context, actor *models.User, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc := &models.Document{
		ID:           uuid.NewString(),
		Name:         req.Name,
		FolderID:     req.FolderID,
		AuthorID:     &actor.ID,
		ObjectKey:    s.store.GenerateKey(req.Name),
		FileType:     req.FileType,
		Size:         req.Size,
		IsRestricted: req.IsRestricted,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if req.FolderID != nil {
		folder, err := s.folderRepo.GetByID(ctx, *req.FolderID)
		if err != nil {
			return nil, err
		}
		if !s.access.CheckPermission(ctx, actor, folder, models.ActionWrite) {
			return nil, &domain.ForbiddenError{Message: "no write access to folder"}
		}
		if folder.IsRestricted {
			doc.IsRestricted = true
		}
	}

	if existing, err := s.docRepo.GetActiveByNameAndFolder(ctx, req.Name, req.FolderID); err == nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("document '%s' already exists here", req.Name),
			ResourceType: "document",
			ResourceID:   existing.ID,
		}
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"name", doc.Name,
		"size", doc.Size,
		"actor", actor.ID,
	)
	return doc, nil
}

// GetDocument retrieves a document the actor can read. Soft-deleted
// documents stay reachable when addressed directly.
func (s *documentService) GetDocument(ctx context.Context, actor *models.User, id string) (*services.DocumentView, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.access.CheckPermission(ctx, actor, doc, models.ActionRead) {
		return nil, &domain.ForbiddenError{Message: "no read access to document"}
	}
	return s.buildView(ctx, actor, doc), nil
}

// ListDocuments lists non-deleted documents the actor can read.
func (s *documentService) ListDocuments(ctx context.Context, actor *models.User, req *services.ListDocumentsRequest) ([]services.DocumentView, error) {
	docs, err := s.docRepo.List(ctx, repositories.DocumentFilter{
		FolderID:  req.FolderID,
		NameQuery: req.Query,
	})
	if err != nil {
		return nil, err
	}

	views := make([]services.DocumentView, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if !s.access.CheckPermission(ctx, actor, doc, models.ActionRead) {
			continue
		}
		views = append(views, *s.buildView(ctx, actor, doc))
	}
	return views, nil
}

// UpdateDocument renames a document.
func (s *documentService) UpdateDocument(ctx context.Context, actor *models.User, id string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.access.CheckPermission(ctx, actor, doc, models.ActionWrite) {
		return nil, &domain.ForbiddenError{Message: "no write access to document"}
	}

	if req.Name != nil && *req.Name != doc.Name {
		if existing, err := s.docRepo.GetActiveByNameAndFolder(ctx, *req.Name, doc.FolderID); err == nil && existing.ID != doc.ID {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("document '%s' already exists here", *req.Name),
				ResourceType: "document",
				ResourceID:   existing.ID,
			}
		}
		doc.Name = *req.Name
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document updated", "id", doc.ID, "actor", actor.ID)
	return doc, nil
}

// DeleteDocument soft-deletes a document. The bytes stay in the object
// store; listings stop showing the document immediately.
func (s *documentService) DeleteDocument(ctx context.Context, actor *models.User, id string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.access.CheckPermission(ctx, actor, doc, models.ActionWrite) {
		return &domain.ForbiddenError{Message: "no write access to document"}
	}
	if actor.Role != models.RoleSuperAdmin && actor.Role != models.RoleManager && !doc.AuthoredBy(actor.ID) {
		return &domain.ForbiddenError{Message: "only the author can delete this document"}
	}

	if err := s.docRepo.MarkDeleted(ctx, doc.ID); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", doc.ID, "actor", actor.ID)
	return nil
}

// ContentURL returns a presigned URL for the document's bytes.
func (s *documentService) ContentURL(ctx context.Context, actor *models.User, id string) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !s.access.CheckPermission(ctx, actor, doc, models.ActionRead) {
		return "", &domain.ForbiddenError{Message: "no read access to document"}
	}
	return s.store.PresignedURL(ctx, doc.ObjectKey)
}

func (s *documentService) buildView(ctx context.Context, actor *models.User, doc *models.Document) *services.DocumentView {
	view := &services.DocumentView{
		Document: *doc,
		Role:     s.access.EffectiveRole(ctx, actor, doc).String(),
	}
	if doc.AuthorID != nil {
		if author, err := s.userRepo.GetByID(ctx, *doc.AuthorID); err == nil {
			view.AuthorName = &author.Username
		}
	}
	return view
}

func (s *documentService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxDocumentNameLength),
		),
		validation.Field(&req.Size, validation.Min(int64(0))),
	)
}

func (s *documentService) validateUpdateRequest(req *services.UpdateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxDocumentNameLength),
		),
	)
}
