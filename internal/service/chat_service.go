package service

import (
	"context"
	"fmt"
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

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateChatSessionRequest) (*dto.CreateChatSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ChatSessionResponse, error)
	RenameSession(ctx context.Context, userId uuid.UUID, req *dto.RenameChatSessionRequest) error
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error

	GetMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	// GetContextWindow returns the newest limit messages in chronological
	// order, the slice handed to prompt assembly.
	GetContextWindow(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error)
	UpdateMessage(ctx context.Context, userId uuid.UUID, req *dto.UpdateMessageRequest) error
	// DeleteMessagePair removes a user message together with the assistant
	// reply that follows it, keeping the history strictly alternating.
	DeleteMessagePair(ctx context.Context, userId uuid.UUID, messageId uuid.UUID) error
	// DeleteMessagesAfter discards every message created strictly after the
	// anchor instant. Regeneration uses it to drop a stale tail.
	DeleteMessagesAfter(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, after time.Time) (int64, error)

	ExportSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ExportSessionResponse, error)

	// MaybeAutoTitle derives a title from the first user message while the
	// session still carries the placeholder and was never renamed by hand.
	MaybeAutoTitle(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, firstUserContent string) error

	// InvalidateSessionCache drops every cached read for one session.
	InvalidateSessionCache(sessionId uuid.UUID)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.LRUCache
	pubSub     *gochannel.GoChannel
	tracker    *metrics.Tracker

	sessionTTL time.Duration
	messageTTL time.Duration
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	lru *cache.LRUCache,
	pubSub *gochannel.GoChannel,
	tracker *metrics.Tracker,
	sessionTTL, messageTTL time.Duration,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		cache:      lru,
		pubSub:     pubSub,
		tracker:    tracker,
		sessionTTL: sessionTTL,
		messageTTL: messageTTL,
	}
}

func sessionCacheKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func messagesCacheKey(sessionId uuid.UUID) string {
	return "messages:" + sessionId.String()
}

func windowCacheKey(sessionId uuid.UUID, limit int) string {
	return fmt.Sprintf("window:%s:%d", sessionId, limit)
}

func (cs *chatService) InvalidateSessionCache(sessionId uuid.UUID) {
	if cs.cache == nil {
		return
	}
	cs.cache.Delete(sessionCacheKey(sessionId))
	cs.cache.DeletePrefix("messages:" + sessionId.String())
	cs.cache.DeletePrefix("window:" + sessionId.String())
}

// verifySession loads a session scoped to its owner. A session belonging to
// another user is indistinguishable from a missing one.
func (cs *chatService) verifySession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.NewPersistence("failed to load session", err)
	}
	if sess == nil {
		return nil, apperror.NewNotFound("session not found")
	}
	return sess, nil
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateChatSessionRequest) (*dto.CreateChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	title := constant.DefaultSessionTitle
	titleLocked := false
	if req != nil && req.Title != "" {
		title = req.Title
		titleLocked = true
	}

	session := entity.ChatSession{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       title,
		TitleLocked: titleLocked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, apperror.NewPersistence("failed to create session", err)
	}

	if cs.tracker != nil {
		cs.tracker.RecordChat()
	}

	return &dto.CreateChatSessionResponse{Id: session.Id, Title: session.Title}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.NewPersistence("failed to list sessions", err)
	}

	response := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, sessionToResponse(s))
	}
	return response, nil
}

func (cs *chatService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ChatSessionResponse, error) {
	if cs.cache != nil {
		if cached, ok := cs.cache.Get(sessionCacheKey(sessionId)); ok {
			if sess, ok := cached.(*entity.ChatSession); ok && sess.UserId == userId {
				return sessionToResponse(sess), nil
			}
		}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	sess, err := cs.verifySession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	if cs.cache != nil {
		cs.cache.Set(sessionCacheKey(sessionId), sess, cs.sessionTTL)
	}
	return sessionToResponse(sess), nil
}

func (cs *chatService) RenameSession(ctx context.Context, userId uuid.UUID, req *dto.RenameChatSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := cs.verifySession(ctx, uow, userId, req.Id)
	if err != nil {
		return err
	}

	sess.Title = req.Title
	sess.TitleLocked = true
	sess.UpdatedAt = time.Now()

	if err := uow.ChatSessionRepository().Update(ctx, sess); err != nil {
		return apperror.NewPersistence("failed to rename session", err)
	}

	cs.InvalidateSessionCache(sess.Id)
	publishEvent(cs.pubSub, events.TopicSessionTitled, map[string]interface{}{
		"session_id": sess.Id.String(),
		"user_id":    userId.String(),
		"title":      sess.Title,
	})
	return nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.verifySession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.NewPersistence("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return apperror.NewPersistence("failed to delete session", err)
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return apperror.NewPersistence("failed to delete session messages", err)
	}

	if err := uow.Commit(); err != nil {
		return apperror.NewPersistence("failed to commit delete", err)
	}

	cs.InvalidateSessionCache(sessionId)
	publishEvent(cs.pubSub, events.TopicSessionDeleted, map[string]interface{}{
		"session_id": sessionId.String(),
		"user_id":    userId.String(),
	})
	return nil
}

func (cs *chatService) GetMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.verifySession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	if cs.cache != nil {
		if cached, ok := cs.cache.Get(messagesCacheKey(sessionId)); ok {
			if msgs, ok := cached.([]*dto.ChatMessageResponse); ok {
				return msgs, nil
			}
		}
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.NewPersistence("failed to load messages", err)
	}

	response := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, messageToResponse(m))
	}

	if cs.cache != nil {
		cs.cache.Set(messagesCacheKey(sessionId), response, cs.messageTTL)
	}
	return response, nil
}

func (cs *chatService) GetContextWindow(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	if limit <= 0 {
		limit = constant.ContextWindowDefault
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// Ownership is checked before the cache is consulted; a hot key must not
	// hand another user's messages out.
	if _, err := cs.verifySession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	if cs.cache != nil {
		if cached, ok := cs.cache.Get(windowCacheKey(sessionId, limit)); ok {
			if msgs, ok := cached.([]*entity.ChatMessage); ok {
				return msgs, nil
			}
		}
	}

	// Newest first to honor the limit, reversed back to chronological order.
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, apperror.NewPersistence("failed to load context window", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if cs.cache != nil {
		cs.cache.Set(windowCacheKey(sessionId, limit), messages, cs.messageTTL)
	}
	return messages, nil
}

func (cs *chatService) UpdateMessage(ctx context.Context, userId uuid.UUID, req *dto.UpdateMessageRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	msg, err := uow.ChatMessageRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return apperror.NewPersistence("failed to load message", err)
	}
	if msg == nil {
		return apperror.NewNotFound("message not found")
	}
	if req.Content == "" && req.Status == "" {
		return apperror.NewValidation("nothing to update")
	}

	if req.Status != "" {
		switch req.Status {
		case constant.ChatMessageStatusCompleted, constant.ChatMessageStatusAborted, constant.ChatMessageStatusError:
		default:
			return apperror.NewValidation("invalid message status")
		}
		if msg.Role != constant.ChatMessageRoleAssistant {
			return apperror.NewValidation("status can only be updated on assistant messages")
		}
		msg.Status = req.Status
	}

	if req.Content != "" {
		msg.Content = req.Content
		if msg.Meta == nil {
			msg.Meta = map[string]any{}
		}
		msg.Meta["edited_at"] = time.Now().Format(time.RFC3339)
	}

	if err := uow.ChatMessageRepository().Update(ctx, msg); err != nil {
		return apperror.NewPersistence("failed to update message", err)
	}

	cs.InvalidateSessionCache(msg.ChatSessionId)
	return nil
}

func (cs *chatService) DeleteMessagePair(ctx context.Context, userId uuid.UUID, messageId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	msg, err := uow.ChatMessageRepository().FindOne(ctx,
		specification.ByID{ID: messageId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return apperror.NewPersistence("failed to load message", err)
	}
	if msg == nil {
		return apperror.NewNotFound("message not found")
	}
	if msg.Role != constant.ChatMessageRoleUser {
		return apperror.NewValidation("only user messages can be deleted")
	}

	// The pair partner is the immediately following message, and only when
	// it is an assistant reply. An unanswered user turn deletes alone.
	next, err := uow.ChatMessageRepository().FindOne(ctx,
		specification.ByChatSessionID{ChatSessionID: msg.ChatSessionId},
		specification.CreatedAfter{After: msg.CreatedAt},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Limit{Limit: 1},
	)
	if err != nil {
		return apperror.NewPersistence("failed to load assistant reply", err)
	}
	var reply *entity.ChatMessage
	if next != nil && next.Role == constant.ChatMessageRoleAssistant {
		reply = next
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.NewPersistence("failed to begin transaction", err)
	}
	defer uow.Rollback()

	deleted := 1
	if err := uow.ChatMessageRepository().Delete(ctx, msg.Id); err != nil {
		return apperror.NewPersistence("failed to delete message", err)
	}
	if reply != nil {
		if err := uow.ChatMessageRepository().Delete(ctx, reply.Id); err != nil {
			return apperror.NewPersistence("failed to delete assistant reply", err)
		}
		deleted++
	}

	if err := uow.ChatSessionRepository().IncrementMessageCount(ctx, msg.ChatSessionId, -deleted); err != nil {
		return apperror.NewPersistence("failed to update message count", err)
	}

	if err := uow.Commit(); err != nil {
		return apperror.NewPersistence("failed to commit delete", err)
	}

	cs.InvalidateSessionCache(msg.ChatSessionId)
	return nil
}

func (cs *chatService) DeleteMessagesAfter(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, after time.Time) (int64, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.verifySession(ctx, uow, userId, sessionId); err != nil {
		return 0, err
	}

	if err := uow.Begin(ctx); err != nil {
		return 0, apperror.NewPersistence("failed to begin transaction", err)
	}
	defer uow.Rollback()

	deleted, err := uow.ChatMessageRepository().DeleteWhere(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.CreatedAfter{After: after},
	)
	if err != nil {
		return 0, apperror.NewPersistence("failed to delete messages", err)
	}

	if deleted > 0 {
		if err := uow.ChatSessionRepository().IncrementMessageCount(ctx, sessionId, -int(deleted)); err != nil {
			return 0, apperror.NewPersistence("failed to update message count", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, apperror.NewPersistence("failed to commit delete", err)
	}

	cs.InvalidateSessionCache(sessionId)
	return deleted, nil
}

func (cs *chatService) ExportSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ExportSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := cs.verifySession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.NewPersistence("failed to load messages", err)
	}

	export := &dto.ExportSessionResponse{
		Session:    *sessionToResponse(sess),
		Messages:   make([]dto.ChatMessageResponse, 0, len(messages)),
		ExportedAt: time.Now(),
	}
	for _, m := range messages {
		export.Messages = append(export.Messages, *messageToResponse(m))
	}
	return export, nil
}

func (cs *chatService) MaybeAutoTitle(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, firstUserContent string) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := cs.verifySession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	if sess.TitleLocked || sess.Title != constant.DefaultSessionTitle {
		return nil
	}

	sess.Title = DeriveSessionTitle(firstUserContent)
	sess.UpdatedAt = time.Now()

	if err := uow.ChatSessionRepository().Update(ctx, sess); err != nil {
		return apperror.NewPersistence("failed to save derived title", err)
	}

	cs.InvalidateSessionCache(sess.Id)
	publishEvent(cs.pubSub, events.TopicSessionTitled, map[string]interface{}{
		"session_id": sess.Id.String(),
		"user_id":    userId.String(),
		"title":      sess.Title,
	})
	return nil
}

func sessionToResponse(s *entity.ChatSession) *dto.ChatSessionResponse {
	return &dto.ChatSessionResponse{
		Id:           s.Id,
		Title:        s.Title,
		TitleLocked:  s.TitleLocked,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func messageToResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:            m.Id,
		ChatSessionId: m.ChatSessionId,
		Role:          m.Role,
		Content:       m.Content,
		Status:        m.Status,
		Evidence:      m.Evidence,
		Meta:          m.Meta,
		CreatedAt:     m.CreatedAt,
	}
}
