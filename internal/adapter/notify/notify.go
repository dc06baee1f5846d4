package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"agrolend-backend/internal/domain/event"
	"agrolend-backend/internal/domain/message"
	"agrolend-backend/pkg/id"

	"github.com/redis/go-redis/v9"
)

var (
	_ event.Notifier = (*Mailbox)(nil)
	_ event.Notifier = (*Publisher)(nil)
	_ event.Notifier = Fanout(nil)
)

// Mailbox drops a system message into the farmer's inbox.
type Mailbox struct{ repo message.Repository }

func NewMailbox(repo message.Repository) *Mailbox { return &Mailbox{repo: repo} }

func (m *Mailbox) Notify(ctx context.Context, e event.Event) error {
	if e.FarmerID == "" || e.Text == "" {
		return nil
	}
	typ := message.TypeInfo
	if e.Kind == event.LoanDueReminder {
		typ = message.TypeReminder
	}
	return m.repo.CreateBatch(ctx, []message.Message{{
		ID:       id.NewID32(),
		FarmerID: e.FarmerID,
		Content:  e.Text,
		Type:     typ,
	}})
}

// Publisher broadcasts events as JSON on a Redis pub/sub channel.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client, channel string) *Publisher {
	return &Publisher{rdb: rdb, channel: channel}
}

func (p *Publisher) Notify(ctx context.Context, e event.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", e.Kind, err)
	}
	return nil
}

// Fanout calls every notifier and joins their errors.
type Fanout []event.Notifier

func (f Fanout) Notify(ctx context.Context, e event.Event) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
