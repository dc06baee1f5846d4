package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"agrolend-backend/internal/adapter/repository/mysql"
	"agrolend-backend/internal/domain/event"
	"agrolend-backend/internal/domain/message"
	"agrolend-backend/internal/testutil/notifymock"
	"agrolend-backend/internal/testutil/sqlitedb"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxWritesMessage(t *testing.T) {
	db := sqlitedb.Open(t, mysql.Models()...)
	repo := mysql.NewMessageRepository(db)
	mb := NewMailbox(repo)
	ctx := context.Background()

	require.NoError(t, mb.Notify(ctx, event.Event{Kind: event.LoanApproved, FarmerID: "F1", EntityID: "L1", Text: "approved"}))
	require.NoError(t, mb.Notify(ctx, event.Event{Kind: event.LoanDueReminder, FarmerID: "F1", EntityID: "L1", Text: "due soon"}))
	require.NoError(t, mb.Notify(ctx, event.Event{Kind: event.LoanApproved, FarmerID: "F1"}))

	msgs, err := repo.List(ctx, message.Filter{FarmerID: "F1"})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	types := map[message.Type]string{}
	for _, m := range msgs {
		types[m.Type] = m.Content
		assert.Nil(t, m.SenderID)
		assert.False(t, m.Seen)
	}
	assert.Equal(t, "approved", types[message.TypeInfo])
	assert.Equal(t, "due soon", types[message.TypeReminder])
}

func TestPublisherPublishesJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, "agrolend:events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	at := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	p := NewPublisher(rdb, "agrolend:events")
	require.NoError(t, p.Notify(ctx, event.Event{Kind: event.RepaymentApproved, FarmerID: "F1", EntityID: "R1", Status: "approved", At: at}))

	select {
	case msg := <-sub.Channel():
		var got event.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, event.RepaymentApproved, got.Kind)
		assert.Equal(t, "R1", got.EntityID)
		assert.True(t, got.At.Equal(at))
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
}

func TestPublisherError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	err := NewPublisher(rdb, "c").Notify(context.Background(), event.Event{Kind: event.LoanRejected})
	assert.Error(t, err)
}

func TestFanoutCallsAllAndJoinsErrors(t *testing.T) {
	ok := &notifymock.Recorder{}
	boom := errors.New("boom")
	bad := &notifymock.Recorder{Err: boom}

	err := Fanout{bad, nil, ok}.Notify(context.Background(), event.Event{Kind: event.HarvestReviewed})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.Events(), 1)
	assert.Len(t, bad.Events(), 1)

	assert.NoError(t, Fanout{ok}.Notify(context.Background(), event.Event{}))
}
