package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/worker"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"
)

// Notifier pushes journaled events to their users as messenger
// texts. Message ids derive from the event trace, so a re-send after
// a crash lands on the dedupe of the messenger side.
type Notifier struct {
	job        worker.BaseJob
	system     *core.System
	eventStore core.EventStore
	walletz    core.WalletService
}

// New new notifier worker
func New(location string, system *core.System, events core.EventStore, walletz core.WalletService) *Notifier {
	notifier := Notifier{
		system:     system,
		eventStore: events,
		walletz:    walletz,
	}

	l, _ := time.LoadLocation(location)
	notifier.job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 1s"
	notifier.job.Cron.AddFunc(spec, notifier.job.Run)
	notifier.job.OnWork = func() error {
		return notifier.onWork(context.Background())
	}

	return &notifier
}

// Run run worker
func (w *Notifier) Run(ctx context.Context) error {
	return w.job.StartUntil(ctx)
}

func (w *Notifier) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)
	const Limit = 300
	const Batch = 70

	events, err := w.eventStore.ListPending(ctx, Limit)
	if err != nil {
		log.WithError(err).Error("events.ListPending")
		return err
	}

	if len(events) == 0 {
		return errors.New("list events: EOF")
	}

	// one event per user per pass, the rest wait for the next tick
	filter := make(map[string]bool)
	var idx int

	for _, event := range events {
		if filter[event.UserID] {
			continue
		}

		events[idx] = event
		filter[event.UserID] = true
		idx++

		if idx >= Batch {
			break
		}
	}

	events = events[:idx]

	var messages []*mixin.MessageRequest
	for _, event := range events {
		messages = append(messages, w.messagesFor(event)...)
	}

	if err := w.walletz.SendMessages(ctx, messages); err != nil {
		log.WithError(err).Error("walletz.SendMessages")
		return err
	}

	if err := w.eventStore.MarkNotified(ctx, events); err != nil {
		log.WithError(err).Error("events.MarkNotified")
		return err
	}

	return nil
}

func (w *Notifier) messagesFor(event *core.Event) []*mixin.MessageRequest {
	recipients := []string{event.UserID}
	if event.UserID == "" {
		recipients = w.system.Admins
	}

	data := base64.StdEncoding.EncodeToString([]byte(renderText(event)))

	messages := make([]*mixin.MessageRequest, 0, len(recipients))
	for _, recipient := range recipients {
		messages = append(messages, &mixin.MessageRequest{
			RecipientID:    recipient,
			ConversationID: mixin.UniqueConversationID(w.system.ClientID, recipient),
			MessageID:      uuid.Modify(event.TraceID, "notify:"+recipient),
			Category:       mixin.MessageCategoryPlainText,
			Data:           data,
		})
	}

	return messages
}

func renderText(event *core.Event) string {
	// payload shape varies per event type, pull fields loosely
	var payload map[string]interface{}
	_ = json.Unmarshal(event.Payload, &payload)

	symbol := cast.ToString(payload["symbol"])
	amount := cast.ToString(payload["amount"])

	switch event.Type {
	case core.EventTypeStaked:
		return fmt.Sprintf("Staked %s %s", amount, symbol)
	case core.EventTypeUnstaked:
		return fmt.Sprintf("Unstaked %s %s", amount, symbol)
	case core.EventTypeRewardClaimed:
		return fmt.Sprintf("Reward of %s CUBE issued", amount)
	case core.EventTypeRewardDistributed:
		return fmt.Sprintf("Distributed %s CUBE to %d stakers", amount, cast.ToInt(payload["users"]))
	case core.EventTypeWithdrawn:
		return fmt.Sprintf("Withdrawal of %s is on the way", amount)
	case core.EventTypeRefunded:
		return fmt.Sprintf("Payment of %s refunded, code %s", amount, cast.ToString(payload["code"]))
	default:
		return string(event.Payload)
	}
}
