package service

import (
	"context"
	"testing"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatFixture() (*fakeStore, IChatService) {
	store := newFakeStore()
	svc := NewChatService(&fakeFactory{store: store}, nil, nil, nil, time.Minute, time.Minute)
	return store, svc
}

func seedSession(store *fakeStore, userId uuid.UUID) *entity.ChatSession {
	now := time.Now()
	sess := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultSessionTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.sessions[sess.Id] = sess
	return sess
}

func seedMessage(store *fakeStore, sess *entity.ChatSession, role, content string, at time.Time) *entity.ChatMessage {
	msg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sess.Id,
		UserId:        sess.UserId,
		Role:          role,
		Content:       content,
		Status:        constant.ChatMessageStatusCompleted,
		CreatedAt:     at,
	}
	store.messages = append(store.messages, msg)
	sess.MessageCount++
	return msg
}

func TestCreateSessionDefaults(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()

	res, err := svc.CreateSession(context.Background(), userId, &dto.CreateChatSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, constant.DefaultSessionTitle, res.Title)

	sess := store.sessions[res.Id]
	require.NotNil(t, sess)
	assert.False(t, sess.TitleLocked)
	assert.Equal(t, 0, sess.MessageCount)
}

func TestCreateSessionWithExplicitTitleLocks(t *testing.T) {
	store, svc := newChatFixture()

	res, err := svc.CreateSession(context.Background(), uuid.New(), &dto.CreateChatSessionRequest{Title: "Trip planning"})
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", res.Title)
	assert.True(t, store.sessions[res.Id].TitleLocked)
}

func TestMaybeAutoTitleDerivesFromFirstMessage(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)

	err := svc.MaybeAutoTitle(context.Background(), userId, sess.Id, "Can you help me plan a trip to Japan next spring?")
	require.NoError(t, err)

	assert.Equal(t, "Can you help me plan a trip to…", store.sessions[sess.Id].Title)
}

func TestMaybeAutoTitleSkipsRenamedSession(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)

	require.NoError(t, svc.RenameSession(context.Background(), userId, &dto.RenameChatSessionRequest{
		Id: sess.Id, Title: "Keep me",
	}))
	require.NoError(t, svc.MaybeAutoTitle(context.Background(), userId, sess.Id, "Something else entirely"))

	assert.Equal(t, "Keep me", store.sessions[sess.Id].Title)
	assert.True(t, store.sessions[sess.Id].TitleLocked)
}

func TestSessionAccessScopedToOwner(t *testing.T) {
	store, svc := newChatFixture()
	sess := seedSession(store, uuid.New())

	_, err := svc.GetSession(context.Background(), uuid.New(), sess.Id)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteSessionCascadesMessages(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)
	now := time.Now()
	seedMessage(store, sess, constant.ChatMessageRoleUser, "hello", now)
	seedMessage(store, sess, constant.ChatMessageRoleAssistant, "hi", now.Add(time.Second))

	require.NoError(t, svc.DeleteSession(context.Background(), userId, sess.Id))

	assert.Empty(t, store.sessions)
	assert.Empty(t, store.messages)
}

func TestDeleteMessagePairRemovesReplyAndAdjustsCount(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)
	now := time.Now()

	userMsg := seedMessage(store, sess, constant.ChatMessageRoleUser, "first", now)
	seedMessage(store, sess, constant.ChatMessageRoleAssistant, "first reply", now.Add(time.Second))
	later := seedMessage(store, sess, constant.ChatMessageRoleUser, "second", now.Add(2*time.Second))

	require.NoError(t, svc.DeleteMessagePair(context.Background(), userId, userMsg.Id))

	require.Len(t, store.messages, 1)
	assert.Equal(t, later.Id, store.messages[0].Id)
	assert.Equal(t, 1, store.sessions[sess.Id].MessageCount)
}

func TestDeleteMessagePairLeavesLaterTurnsAlone(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)
	now := time.Now()

	// The first turn never got an answer; the next message after it is
	// another user message and must survive.
	unanswered := seedMessage(store, sess, constant.ChatMessageRoleUser, "lost question", now)
	second := seedMessage(store, sess, constant.ChatMessageRoleUser, "second question", now.Add(time.Second))
	reply := seedMessage(store, sess, constant.ChatMessageRoleAssistant, "second answer", now.Add(2*time.Second))

	require.NoError(t, svc.DeleteMessagePair(context.Background(), userId, unanswered.Id))

	require.Len(t, store.messages, 2)
	assert.Equal(t, second.Id, store.messages[0].Id)
	assert.Equal(t, reply.Id, store.messages[1].Id)
	assert.Equal(t, 2, store.sessions[sess.Id].MessageCount)
}

func TestDeleteMessagePairRejectsAssistantMessage(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)
	reply := seedMessage(store, sess, constant.ChatMessageRoleAssistant, "reply", time.Now())

	err := svc.DeleteMessagePair(context.Background(), userId, reply.Id)
	assert.True(t, apperror.IsValidation(err))
}

func TestDeleteMessagesAfterCountsAndClamps(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)
	now := time.Now()

	anchor := seedMessage(store, sess, constant.ChatMessageRoleUser, "keep", now)
	seedMessage(store, sess, constant.ChatMessageRoleAssistant, "drop 1", now.Add(time.Second))
	seedMessage(store, sess, constant.ChatMessageRoleUser, "drop 2", now.Add(2*time.Second))

	deleted, err := svc.DeleteMessagesAfter(context.Background(), userId, sess.Id, anchor.CreatedAt)
	require.NoError(t, err)

	assert.Equal(t, int64(2), deleted)
	require.Len(t, store.messages, 1)
	assert.Equal(t, anchor.Id, store.messages[0].Id)
	assert.Equal(t, 1, store.sessions[sess.Id].MessageCount)
}

func TestGetContextWindowChronologicalAndLimited(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)
	now := time.Now()

	for i := 0; i < 5; i++ {
		role := constant.ChatMessageRoleUser
		if i%2 == 1 {
			role = constant.ChatMessageRoleAssistant
		}
		seedMessage(store, sess, role, string(rune('a'+i)), now.Add(time.Duration(i)*time.Second))
	}

	window, err := svc.GetContextWindow(context.Background(), userId, sess.Id, 3)
	require.NoError(t, err)

	require.Len(t, window, 3)
	// Newest three, oldest first.
	assert.Equal(t, "c", window[0].Content)
	assert.Equal(t, "d", window[1].Content)
	assert.Equal(t, "e", window[2].Content)
}

func TestGetContextWindowCachedKeyStaysOwnerScoped(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(&fakeFactory{store: store}, cache.NewLRUCache(16), nil, nil, time.Minute, time.Minute)

	ownerId := uuid.New()
	sess := seedSession(store, ownerId)
	seedMessage(store, sess, constant.ChatMessageRoleUser, "secret", time.Now())

	// The owner warms the cache for this session and limit.
	window, err := svc.GetContextWindow(context.Background(), ownerId, sess.Id, 10)
	require.NoError(t, err)
	require.Len(t, window, 1)

	_, err = svc.GetContextWindow(context.Background(), uuid.New(), sess.Id, 10)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateMessageEditsUserContent(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)

	userMsg := seedMessage(store, sess, constant.ChatMessageRoleUser, "typo", time.Now())

	require.NoError(t, svc.UpdateMessage(context.Background(), userId, &dto.UpdateMessageRequest{
		Id: userMsg.Id, Content: "fixed",
	}))
	assert.Equal(t, "fixed", store.messages[0].Content)
	assert.NotEmpty(t, store.messages[0].Meta["edited_at"])
}

func TestUpdateMessagePatchesAssistantContentAndStatus(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)
	now := time.Now()

	seedMessage(store, sess, constant.ChatMessageRoleUser, "question", now)
	reply := seedMessage(store, sess, constant.ChatMessageRoleAssistant, "partial answ", now.Add(time.Second))

	require.NoError(t, svc.UpdateMessage(context.Background(), userId, &dto.UpdateMessageRequest{
		Id: reply.Id, Content: "partial", Status: constant.ChatMessageStatusAborted,
	}))

	assert.Equal(t, "partial", store.messages[1].Content)
	assert.Equal(t, constant.ChatMessageStatusAborted, store.messages[1].Status)
}

func TestUpdateMessageStatusRejectedForUserRole(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)

	userMsg := seedMessage(store, sess, constant.ChatMessageRoleUser, "question", time.Now())

	err := svc.UpdateMessage(context.Background(), userId, &dto.UpdateMessageRequest{
		Id: userMsg.Id, Status: constant.ChatMessageStatusAborted,
	})
	assert.True(t, apperror.IsValidation(err))

	err = svc.UpdateMessage(context.Background(), userId, &dto.UpdateMessageRequest{
		Id: userMsg.Id,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestExportSessionIncludesEverything(t *testing.T) {
	store, svc := newChatFixture()
	userId := uuid.New()
	sess := seedSession(store, userId)
	now := time.Now()
	seedMessage(store, sess, constant.ChatMessageRoleUser, "q", now)
	seedMessage(store, sess, constant.ChatMessageRoleAssistant, "a", now.Add(time.Second))

	export, err := svc.ExportSession(context.Background(), userId, sess.Id)
	require.NoError(t, err)

	assert.Equal(t, sess.Id, export.Session.Id)
	require.Len(t, export.Messages, 2)
	assert.Equal(t, "q", export.Messages[0].Content)
	assert.Equal(t, "a", export.Messages[1].Content)
	assert.False(t, export.ExportedAt.IsZero())
}
