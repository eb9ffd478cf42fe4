package notification

import (
	"context"

	"github.com/mfirmanda/helpdesk-management/internal/core/events"
)

// SettingsReader resolves display values used in outgoing mail.
type SettingsReader interface {
	GetOr(key, fallback string) string
}

// RegisterSubscribers attaches email delivery to the ticket event stream.
// Internal notes never generate requester mail.
func RegisterSubscribers(bus *events.EventBus, d *Dispatcher, settings SettingsReader) {
	orgName := func() string {
		return settings.GetOr("organization_name", "Helpdesk")
	}

	bus.Subscribe(events.EventTypeTicketCreated, func(ctx context.Context, e events.Event) error {
		ev, ok := e.(*events.TicketCreatedEvent)
		if !ok {
			return nil
		}

		subject, body, ok := Render(TemplateTicketCreated, map[string]string{
			"ticket_number":  ev.TicketNumber,
			"title":          ev.Title,
			"priority":       ev.Priority,
			"requester_name": ev.RequesterName,
			"sla_deadline":   ev.SLADeadline,
			"organization":   orgName(),
		})
		if ok {
			d.Enqueue(ev.RequesterEmail, subject, body)
		}
		return nil
	})

	bus.Subscribe(events.EventTypeTicketStatusChanged, func(ctx context.Context, e events.Event) error {
		ev, ok := e.(*events.TicketStatusChangedEvent)
		if !ok {
			return nil
		}

		subject, body, ok := Render(TemplateStatusChanged, map[string]string{
			"ticket_number": ev.TicketNumber,
			"title":         ev.Title,
			"old_status":    ev.OldStatus,
			"new_status":    ev.NewStatus,
			"organization":  orgName(),
		})
		if ok {
			d.Enqueue(ev.RequesterEmail, subject, body)
		}
		return nil
	})

	bus.Subscribe(events.EventTypeCommentAdded, func(ctx context.Context, e events.Event) error {
		ev, ok := e.(*events.CommentAddedEvent)
		if !ok || ev.IsInternal {
			return nil
		}

		subject, body, ok := Render(TemplateCommentAdded, map[string]string{
			"ticket_number": ev.TicketNumber,
			"title":         ev.Title,
			"author_name":   ev.AuthorName,
			"organization":  orgName(),
		})
		if ok {
			d.Enqueue(ev.RequesterEmail, subject, body)
		}
		return nil
	})
}
