package http

import (
	"strconv"

	"agrolend-backend/internal/domain/message"
	messageUC "agrolend-backend/internal/usecase/message"

	"github.com/labstack/echo/v4"
)

type MessageHandler struct{ uc *messageUC.Usecase }

func NewMessageHandler(uc *messageUC.Usecase) *MessageHandler { return &MessageHandler{uc: uc} }

// sendMessageReq addresses either "all" farmers or an explicit id list.
type sendMessageReq struct {
	All       bool     `json:"all"`
	FarmerIDs []string `json:"farmer_ids" validate:"dive,hex32"`
	Content   string   `json:"content"    validate:"required,max=4000"`
	Type      string   `json:"type"       validate:"omitempty,oneof=alert reminder info"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req sendMessageReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Send(c.Request().Context(), p.UserID, messageUC.SendInput{
		All:       req.All,
		FarmerIDs: req.FarmerIDs,
		Content:   req.Content,
		Type:      message.Type(req.Type),
	})
	if err != nil {
		return writeError(c, err)
	}
	return created(c, map[string]any{"sent": len(out), "messages": out})
}

func (h *MessageHandler) History(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.uc.History(c.Request().Context(), p.UserID, limit)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

// Inbox lists the farmer's messages; ?unread=true keeps only unseen ones.
func (h *MessageHandler) Inbox(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	unread, _ := strconv.ParseBool(c.QueryParam("unread"))
	out, err := h.uc.Inbox(c.Request().Context(), p.UserID, unread)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "message_id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.MarkRead(c.Request().Context(), p.UserID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]string{"message": "marked as read"})
}

func (h *MessageHandler) Delete(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "message_id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), p.UserID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]string{"message": "message deleted"})
}
