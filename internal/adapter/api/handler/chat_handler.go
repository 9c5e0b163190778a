package handler

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/response"
	"tukarlapak/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createConversationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
}

type sendMessageRequest struct {
	Text        string             `json:"text,omitempty"`
	Kind        string             `json:"kind" validate:"required,oneof=text image action"`
	ImageURLs   []string           `json:"image_urls,omitempty" validate:"max=3"`
	Action      *entity.ActionCard `json:"action,omitempty"`
	ClientToken string             `json:"client_token,omitempty"`
}

type markReadRequest struct {
	MessageIDs []string `json:"message_ids" validate:"required,min=1"`
}

type respondActionRequest struct {
	Response string `json:"response" validate:"required,oneof=accepted declined"`
	// WithSystemMessage carries the user's choice on posting a visible
	// system message for the response; omitted means yes.
	WithSystemMessage *bool `json:"with_system_message,omitempty"`
}

type savedReplyRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

func (h *ChatHandler) CreateConversation(c echo.Context) error {
	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.FindOrCreateConversation(c.Request().Context(), userID, req.RecipientID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conversation)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	conversations, total, err := h.chatUseCase.ListConversations(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, conversations, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.GetConversation(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	conversationID := c.Param("id")

	// Participant check lives on the conversation lookup.
	if _, err := h.chatUseCase.GetConversation(c.Request().Context(), userID, conversationID); err != nil {
		return response.Error(c, err)
	}

	pagination := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.ListMessages(c.Request().Context(), conversationID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	msg := &entity.Message{
		ConversationID: c.Param("id"),
		SenderID:       userID,
		Text:           req.Text,
		Kind:           req.Kind,
		ImageURLs:      req.ImageURLs,
		Action:         req.Action,
		ClientToken:    req.ClientToken,
	}

	sent, err := h.chatUseCase.SendMessage(c.Request().Context(), msg)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, sent)
}

func (h *ChatHandler) MarkMessagesRead(c echo.Context) error {
	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.chatUseCase.MarkMessagesRead(c.Request().Context(), c.Param("id"), userID, req.MessageIDs); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Messages marked as read",
	})
}

func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.chatUseCase.DeleteMessage(c.Request().Context(), c.Param("id"), userID, c.Param("messageId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Message deleted",
	})
}

func (h *ChatHandler) RespondToAction(c echo.Context) error {
	var req respondActionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	withSystemMessage := true
	if req.WithSystemMessage != nil {
		withSystemMessage = *req.WithSystemMessage
	}

	if err := h.chatUseCase.RespondToAction(c.Request().Context(), c.Param("id"), userID, c.Param("messageId"), req.Response, withSystemMessage); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Response recorded",
	})
}

func (h *ChatHandler) CreateSavedReply(c echo.Context) error {
	var req savedReplyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	reply, err := h.chatUseCase.CreateSavedReply(c.Request().Context(), userID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, reply)
}

func (h *ChatHandler) ListSavedReplies(c echo.Context) error {
	userID := c.Get("uid").(string)

	replies, err := h.chatUseCase.ListSavedReplies(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, replies)
}

func (h *ChatHandler) DeleteSavedReply(c echo.Context) error {
	userID := c.Get("uid").(string)

	replyID := c.Param("replyId")
	if replyID == "" {
		return response.Error(c, errors.BadRequest("Reply ID is required", nil))
	}

	if err := h.chatUseCase.DeleteSavedReply(c.Request().Context(), userID, replyID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Saved reply deleted",
	})
}
