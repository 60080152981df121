package service

import (
	"context"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/cache"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/metrics"
	"ai-chat-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	// Search scores the user's documents against a query and returns cited
	// snippets, best first.
	Search(ctx context.Context, userId uuid.UUID, query string, limit int) ([]entity.EvidenceItem, error)
}

type documentService struct {
	uowFactory  unitofwork.RepositoryFactory
	searcher    *retrieval.Searcher
	cache       *cache.LRUCache
	pubSub      *gochannel.GoChannel
	tracker     *metrics.Tracker
	documentTTL time.Duration
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	searcher *retrieval.Searcher,
	lru *cache.LRUCache,
	pubSub *gochannel.GoChannel,
	tracker *metrics.Tracker,
	documentTTL time.Duration,
) IDocumentService {
	return &documentService{
		uowFactory:  uowFactory,
		searcher:    searcher,
		cache:       lru,
		pubSub:      pubSub,
		tracker:     tracker,
		documentTTL: documentTTL,
	}
}

func documentsCacheKey(userId uuid.UUID) string {
	return "documents:" + userId.String()
}

func (ds *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	document := entity.Document{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Source:    constant.DocumentSourceManual,
		CreatedAt: time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, apperror.NewPersistence("failed to create document", err)
	}

	if ds.cache != nil {
		ds.cache.Delete(documentsCacheKey(userId))
	}
	if ds.tracker != nil {
		ds.tracker.RecordDocumentUpload()
	}
	publishEvent(ds.pubSub, events.TopicDocumentCreated, map[string]interface{}{
		"document_id": document.Id.String(),
		"user_id":     userId.String(),
		"title":       document.Title,
	})

	return &dto.CreateDocumentResponse{Id: document.Id}, nil
}

func (ds *documentService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	documents, err := ds.loadDocuments(ctx, userId)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DocumentResponse, 0, len(documents))
	for _, d := range documents {
		response = append(response, documentToResponse(d))
	}
	return response, nil
}

func (ds *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.NewPersistence("failed to load document", err)
	}
	if document == nil {
		return nil, apperror.NewNotFound("document not found")
	}
	return documentToResponse(document), nil
}

func (ds *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return apperror.NewPersistence("failed to load document", err)
	}
	if document == nil {
		return apperror.NewNotFound("document not found")
	}

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return apperror.NewPersistence("failed to delete document", err)
	}

	if ds.cache != nil {
		ds.cache.Delete(documentsCacheKey(userId))
	}
	publishEvent(ds.pubSub, events.TopicDocumentDeleted, map[string]interface{}{
		"document_id": id.String(),
		"user_id":     userId.String(),
	})
	return nil
}

func (ds *documentService) Search(ctx context.Context, userId uuid.UUID, query string, limit int) ([]entity.EvidenceItem, error) {
	documents, err := ds.loadDocuments(ctx, userId)
	if err != nil {
		return nil, err
	}
	return ds.searcher.Search(documents, query, limit), nil
}

func (ds *documentService) loadDocuments(ctx context.Context, userId uuid.UUID) ([]*entity.Document, error) {
	if ds.cache != nil {
		if cached, ok := ds.cache.Get(documentsCacheKey(userId)); ok {
			if documents, ok := cached.([]*entity.Document); ok {
				return documents, nil
			}
		}
	}

	uow := ds.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.NewPersistence("failed to load documents", err)
	}

	if ds.cache != nil {
		ds.cache.Set(documentsCacheKey(userId), documents, ds.documentTTL)
	}
	return documents, nil
}

func documentToResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		Tags:      d.Tags,
		Source:    d.Source,
		CreatedAt: d.CreatedAt,
	}
}
