package message

import (
	"context"
	"strings"

	domain "agrolend-backend/internal/domain/message"
	"agrolend-backend/internal/domain/user"
	"agrolend-backend/internal/logger"
	"agrolend-backend/pkg/apperr"
	"agrolend-backend/pkg/id"
)

// SendInput addresses every farmer when All is set, otherwise the listed farmer ids.
type SendInput struct {
	All       bool
	FarmerIDs []string
	Content   string
	Type      domain.Type
}

type Usecase struct {
	repo  domain.Repository
	users user.Repository
}

func NewUsecase(r domain.Repository, users user.Repository) *Usecase {
	return &Usecase{repo: r, users: users}
}

// Send drops one message per recipient. Unknown or non-farmer ids are skipped.
func (u *Usecase) Send(ctx context.Context, senderID string, in SendInput) ([]domain.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "message content is required")
	}
	if in.Type == "" {
		in.Type = domain.TypeInfo
	}
	if !in.Type.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "message type must be alert, reminder or info")
	}
	if !in.All && len(in.FarmerIDs) == 0 {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "recipients are required")
	}

	var filter []string
	if !in.All {
		filter = in.FarmerIDs
	}
	ids, err := u.users.FarmerIDs(ctx, filter)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if len(ids) == 0 {
		return nil, apperr.NotFound(apperr.CodeNoRecipients, "no matching farmers found")
	}

	var sender *string
	if senderID != "" {
		sender = &senderID
	}
	msgs := make([]domain.Message, 0, len(ids))
	for _, fid := range ids {
		msgs = append(msgs, domain.Message{
			ID:       id.NewID32(),
			SenderID: sender,
			FarmerID: fid,
			Content:  content,
			Type:     in.Type,
		})
	}
	if err := u.repo.CreateBatch(ctx, msgs); err != nil {
		return nil, apperr.Storage(err)
	}
	logger.InfoContext(ctx, "messages sent", "sender_id", senderID, "recipients", len(msgs), "type", in.Type)
	return msgs, nil
}

// History lists what senderID has sent, newest first.
func (u *Usecase) History(ctx context.Context, senderID string, limit int) ([]domain.Message, error) {
	return u.list(ctx, domain.Filter{SenderID: senderID, Limit: limit})
}

func (u *Usecase) Inbox(ctx context.Context, farmerID string, unreadOnly bool) ([]domain.Message, error) {
	return u.list(ctx, domain.Filter{FarmerID: farmerID, UnseenOnly: unreadOnly})
}

func (u *Usecase) MarkRead(ctx context.Context, farmerID, messageID string) error {
	ok, err := u.repo.MarkSeen(ctx, messageID, farmerID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return apperr.NotFound(apperr.CodeMessageNotFound, "message not found")
	}
	return nil
}

func (u *Usecase) Delete(ctx context.Context, farmerID, messageID string) error {
	ok, err := u.repo.Delete(ctx, messageID, farmerID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return apperr.NotFound(apperr.CodeMessageNotFound, "message not found")
	}
	return nil
}

func (u *Usecase) list(ctx context.Context, f domain.Filter) ([]domain.Message, error) {
	out, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}
