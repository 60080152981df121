package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/metrics"
	"ai-chat-be/pkg/stream"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	evidenceLimit = 3
	// Conversation fallback pulls at most this many recent user turns.
	conversationEvidenceLimit = 2
	conversationSnippetChars  = 160
)

// IStreamService orchestrates one generation turn: persist the user message,
// gather evidence, stream tokens to the client, and persist whatever the
// stream produced. The persisted accumulator is the source of truth; wire
// delivery is best effort.
type IStreamService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest, w stream.Writer) error

	// Regenerate discards everything after the anchor user message and
	// streams a fresh reply to it. uuid.Nil anchors on the most recent user
	// message.
	Regenerate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, anchorMessageId uuid.UUID, w stream.Writer) error
}

type streamService struct {
	uowFactory  unitofwork.RepositoryFactory
	chatService IChatService
	documents   IDocumentService
	preferences IPreferenceService
	provider    llm.LLMProvider
	pubSub      *gochannel.GoChannel
	tracker     *metrics.Tracker
	appLogger   logger.ILogger

	systemPrompt string
	modelName    string
}

func NewStreamService(
	uowFactory unitofwork.RepositoryFactory,
	chatService IChatService,
	documents IDocumentService,
	preferences IPreferenceService,
	provider llm.LLMProvider,
	pubSub *gochannel.GoChannel,
	tracker *metrics.Tracker,
	appLogger logger.ILogger,
	systemPrompt string,
	modelName string,
) IStreamService {
	if systemPrompt == "" {
		systemPrompt = constant.DefaultSystemPrompt
	}
	return &streamService{
		uowFactory:   uowFactory,
		chatService:  chatService,
		documents:    documents,
		preferences:  preferences,
		provider:     provider,
		pubSub:       pubSub,
		tracker:      tracker,
		appLogger:    appLogger,
		systemPrompt: systemPrompt,
		modelName:    modelName,
	}
}

func (ss *streamService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest, w stream.Writer) error {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return apperror.NewValidation("message content is required")
	}

	uow := ss.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: req.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return apperror.NewPersistence("failed to load session", err)
	}
	if sess == nil {
		return apperror.NewNotFound("session not found")
	}

	firstTurn := sess.MessageCount == 0

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sess.Id,
		UserId:        userId,
		Role:          constant.ChatMessageRoleUser,
		Content:       content,
		Status:        constant.ChatMessageStatusCompleted,
		CreatedAt:     time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.NewPersistence("failed to begin transaction", err)
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		uow.Rollback()
		return apperror.NewPersistence("failed to save user message", err)
	}
	if err := uow.ChatSessionRepository().IncrementMessageCount(ctx, sess.Id, 1); err != nil {
		uow.Rollback()
		return apperror.NewPersistence("failed to update message count", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.NewPersistence("failed to commit user message", err)
	}

	ss.chatService.InvalidateSessionCache(sess.Id)
	if ss.tracker != nil {
		ss.tracker.RecordMessage()
	}

	if firstTurn {
		if err := ss.chatService.MaybeAutoTitle(ctx, userId, sess.Id, content); err != nil {
			ss.logWarn("auto-title failed", map[string]interface{}{
				"session_id": sess.Id.String(), "error": err.Error(),
			})
		}
	}

	return ss.generate(ctx, userId, sess.Id, content, userMessage.CreatedAt, w)
}

func (ss *streamService) Regenerate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, anchorMessageId uuid.UUID, w stream.Writer) error {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	var anchorMsg *entity.ChatMessage
	var err error
	if anchorMessageId != uuid.Nil {
		anchorMsg, err = uow.ChatMessageRepository().FindOne(ctx,
			specification.ByID{ID: anchorMessageId},
			specification.ByChatSessionID{ChatSessionID: sessionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return apperror.NewPersistence("failed to load anchor message", err)
		}
		if anchorMsg == nil {
			return apperror.NewNotFound("message not found")
		}
		if anchorMsg.Role != constant.ChatMessageRoleUser {
			return apperror.NewValidation("can only regenerate from a user message")
		}
	} else {
		anchorMsg, err = uow.ChatMessageRepository().FindOne(ctx,
			specification.ByChatSessionID{ChatSessionID: sessionId},
			specification.UserOwnedBy{UserID: userId},
			specification.ByRole{Role: constant.ChatMessageRoleUser},
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Limit{Limit: 1},
		)
		if err != nil {
			return apperror.NewPersistence("failed to load last user message", err)
		}
		if anchorMsg == nil {
			return apperror.NewValidation("nothing to regenerate")
		}
	}

	if _, err := ss.chatService.DeleteMessagesAfter(ctx, userId, sessionId, anchorMsg.CreatedAt); err != nil {
		return err
	}

	return ss.generate(ctx, userId, sessionId, anchorMsg.Content, anchorMsg.CreatedAt, w)
}

// generate runs the streaming turn against an already persisted user message
// and persists exactly one assistant message whatever happens.
func (ss *streamService) generate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, userContent string, anchor time.Time, w stream.Writer) error {
	started := time.Now()
	settings := ss.preferences.ResolveGenerationSettings(ctx, userId)

	history, err := ss.chatService.GetContextWindow(ctx, userId, sessionId, settings.ContextWindowSize)
	if err != nil {
		return err
	}
	// The just-saved user message is appended to the prompt explicitly.
	history = trimAnchor(history, anchor)

	evidence := ss.gatherEvidence(ctx, userId, userContent, history)
	prompt := buildPrompt(history, evidence, userContent)

	streamCtx, cancelStream := context.WithCancel(ctx)
	defer cancelStream()

	chunks, err := ss.provider.Stream(streamCtx, prompt,
		llm.WithSystemPrompt(ss.systemPrompt),
		llm.WithModel(ss.modelName),
		llm.WithContextWindowSize(settings.ContextWindowSize),
		llm.WithMaxResponseLength(settings.MaxResponseLength),
	)
	if err != nil {
		if perr := ss.persistAssistant(userId, sessionId, "", constant.ChatMessageStatusError, evidence, map[string]any{
			"error": err.Error(),
		}); perr != nil {
			ss.logWarn("failed to record failed turn", map[string]interface{}{"error": perr.Error()})
		}
		w.WriteError("The generation backend is unavailable. Please try again.")
		return apperror.NewUpstream("generation backend unavailable", err)
	}

	var acc stream.Accumulator
	var streamErr error

	for chunk := range chunks {
		if chunk.Err != nil {
			if streamErr == nil {
				streamErr = chunk.Err
			}
			continue // Drain; the channel closes right after a terminal chunk.
		}
		acc.Add(chunk.Token)
		if werr := w.Write(chunk.Token); werr != nil && streamErr == nil {
			// A vanished client is an abort, not a failure. Cancelling the
			// stream context tears down the upstream generation; the drain
			// keeps the provider goroutine from blocking on its channel.
			streamErr = llm.ErrStreamCancelled
			cancelStream()
		}
	}

	status := constant.ChatMessageStatusCompleted
	content := acc.String()
	meta := map[string]any{
		"model":       ss.modelName,
		"duration_ms": time.Since(started).Milliseconds(),
	}

	switch {
	case streamErr == nil:
	case errors.Is(streamErr, llm.ErrStreamCancelled):
		status = constant.ChatMessageStatusAborted
		meta["stoppedByUser"] = true
		if acc.Empty() {
			content = constant.AbortedWithoutContentPlaceholder
		}
	default:
		status = constant.ChatMessageStatusError
		meta["error"] = streamErr.Error()
		w.WriteError("Generation failed before completing. Partial output has been kept.")
	}

	// The turn only counts as finished once the assistant row is durable.
	if err := ss.persistAssistant(userId, sessionId, content, status, evidence, meta); err != nil {
		w.WriteError("Failed to save the response. Please retry.")
		return err
	}

	if streamErr == nil {
		w.Done()
	}

	if ss.tracker != nil {
		ss.tracker.RecordMessage()
		ss.tracker.RecordResponseTime(time.Since(started))
	}

	if status == constant.ChatMessageStatusError {
		return apperror.NewUpstream("generation failed", streamErr)
	}
	return nil
}

// persistAssistant writes the assistant row outside the request context so
// an aborted request still records its turn. A commit failure propagates;
// the caller must not acknowledge a turn that was never stored.
func (ss *streamService) persistAssistant(userId uuid.UUID, sessionId uuid.UUID, content, status string, evidence []entity.EvidenceItem, meta map[string]any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	message := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		UserId:        userId,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       content,
		Status:        status,
		Evidence:      evidence,
		Meta:          meta,
		CreatedAt:     time.Now(),
	}

	uow := ss.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.NewPersistence("failed to begin assistant persist", err)
	}
	if err := uow.ChatMessageRepository().Create(ctx, &message); err != nil {
		uow.Rollback()
		return apperror.NewPersistence("failed to persist assistant message", err)
	}
	if err := uow.ChatSessionRepository().IncrementMessageCount(ctx, sessionId, 1); err != nil {
		uow.Rollback()
		return apperror.NewPersistence("failed to update message count", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.NewPersistence("failed to commit assistant message", err)
	}

	ss.chatService.InvalidateSessionCache(sessionId)
	publishEvent(ss.pubSub, events.TopicMessageSaved, map[string]interface{}{
		"session_id": sessionId.String(),
		"user_id":    userId.String(),
		"message_id": message.Id.String(),
		"status":     status,
	})
	return nil
}

// gatherEvidence scores the user's documents first. When nothing clears the
// thresholds, recent user turns stand in so the model always has grounding.
func (ss *streamService) gatherEvidence(ctx context.Context, userId uuid.UUID, query string, history []*entity.ChatMessage) []entity.EvidenceItem {
	items, err := ss.documents.Search(ctx, userId, query, evidenceLimit)
	if err != nil {
		ss.logWarn("evidence search failed", map[string]interface{}{"error": err.Error()})
	}
	if len(items) > 0 {
		return items
	}

	var fallback []entity.EvidenceItem
	for i := len(history) - 1; i >= 0 && len(fallback) < conversationEvidenceLimit; i-- {
		msg := history[i]
		if msg.Role != constant.ChatMessageRoleUser {
			continue
		}
		snippet := msg.Content
		if len(snippet) > conversationSnippetChars {
			snippet = snippet[:conversationSnippetChars] + "…"
		}
		fallback = append(fallback, entity.EvidenceItem{
			DocumentId: constant.EvidenceSourceConversation,
			Title:      constant.EvidenceSourceConversation,
			Citation:   "Recent conversation",
			Snippet:    snippet,
			Confidence: 0.5,
			Source:     constant.EvidenceSourceConversation,
		})
	}
	return fallback
}

func trimAnchor(history []*entity.ChatMessage, anchor time.Time) []*entity.ChatMessage {
	trimmed := history[:0:0]
	for _, m := range history {
		if m.CreatedAt.Before(anchor) {
			trimmed = append(trimmed, m)
		}
	}
	return trimmed
}

func buildPrompt(history []*entity.ChatMessage, evidence []entity.EvidenceItem, userContent string) string {
	var sb strings.Builder

	if len(evidence) > 0 {
		sb.WriteString("Relevant context:\n")
		for _, item := range evidence {
			fmt.Fprintf(&sb, "[%s] %s\n", item.Title, item.Snippet)
		}
		sb.WriteString("\n")
	}

	for _, msg := range history {
		switch msg.Role {
		case constant.ChatMessageRoleUser:
			fmt.Fprintf(&sb, "User: %s\n", msg.Content)
		case constant.ChatMessageRoleAssistant:
			fmt.Fprintf(&sb, "Assistant: %s\n", msg.Content)
		}
	}

	fmt.Fprintf(&sb, "User: %s\nAssistant:", userContent)
	return sb.String()
}

func (ss *streamService) logWarn(message string, details map[string]interface{}) {
	if ss.appLogger != nil {
		ss.appLogger.Warn("stream", message, details)
	}
}
