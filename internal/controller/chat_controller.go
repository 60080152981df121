package controller

import (
	"bufio"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	RenameSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	ExportSession(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
	UpdateMessage(ctx *fiber.Ctx) error
	DeleteMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	streamService service.IStreamService
	logger        logger.ILogger
}

func NewChatController(chatService service.IChatService, streamService service.IStreamService, log logger.ILogger) IChatController {
	return &chatController{
		chatService:   chatService,
		streamService: streamService,
		logger:        log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("session", c.CreateSession)
	h.Get("sessions", c.GetAllSessions)
	h.Get("session/:id", c.GetSession)
	h.Put("session/:id/rename", c.RenameSession)
	h.Delete("session/:id", c.DeleteSession)
	h.Get("session/:id/messages", c.GetMessages)
	h.Get("session/:id/export", c.ExportSession)
	h.Post("session/:id/stream", c.Stream)
	h.Post("session/:id/regenerate", c.Regenerate)
	h.Put("message/:id", c.UpdateMessage)
	h.Delete("message/:id", c.DeleteMessage)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.CreateChatSessionRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return err
	}

	res, err := c.chatService.CreateSession(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.chatService.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.chatService.GetSession(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *chatController) RenameSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.RenameChatSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.chatService.RenameSession(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success rename session", nil))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.chatService.DeleteSession(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.chatService.GetMessages(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}

func (c *chatController) ExportSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.chatService.ExportSession(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="session-`+id.String()+`.json"`)
	return ctx.JSON(res)
}

// Stream handles one generation turn over SSE. The request context doubles
// as the cancellation signal: when the client drops the connection, the
// in-flight generation is aborted and the partial turn persisted.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ChatSessionId = sessionId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	reqCtx := ctx.Context()
	setSSEHeaders(ctx)

	reqCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
		writer := stream.NewSSEWriter(w)
		defer writer.Close()

		if err := c.streamService.SendMessage(reqCtx, userId, &req, writer); err != nil {
			c.reportStreamFailure(writer, err)
		}
	})
	return nil
}

func (c *chatController) Regenerate(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	// The body is optional; without one the last user turn is regenerated.
	anchorId := uuid.Nil
	if len(ctx.Body()) > 0 {
		var req dto.RegenerateRequest
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
		anchorId = req.MessageId
	}

	reqCtx := ctx.Context()
	setSSEHeaders(ctx)

	reqCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
		writer := stream.NewSSEWriter(w)
		defer writer.Close()

		if err := c.streamService.Regenerate(reqCtx, userId, sessionId, anchorId, writer); err != nil {
			c.reportStreamFailure(writer, err)
		}
	})
	return nil
}

// reportStreamFailure surfaces pre-stream failures as an error frame. The
// stream service already frames its own upstream failures, so those only get
// logged here.
func (c *chatController) reportStreamFailure(writer stream.Writer, err error) {
	if apperror.IsValidation(err) || apperror.IsNotFound(err) {
		writer.WriteError(err.Error())
		return
	}
	if c.logger != nil {
		c.logger.Error("ChatController", "stream turn failed", map[string]interface{}{"error": err.Error()})
	}
}

func setSSEHeaders(ctx *fiber.Ctx) {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")
}

func (c *chatController) UpdateMessage(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.chatService.UpdateMessage(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update message", nil))
}

func (c *chatController) DeleteMessage(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.chatService.DeleteMessagePair(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete message", nil))
}
