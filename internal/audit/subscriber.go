package audit

import (
	"context"
	"fmt"

	"github.com/mfirmanda/helpdesk-management/internal/core/events"
)

// RegisterSubscribers attaches audit writes to the ticket event stream.
// Handlers never return an error: audit is best-effort by design of the
// Record call itself.
func RegisterSubscribers(bus *events.EventBus, svc *Service) {
	bus.Subscribe(events.EventTypeTicketCreated, func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(*events.TicketCreatedEvent); ok {
			svc.Record(ev.TicketID, ev.CreatedByID, ActionTicketCreated,
				fmt.Sprintf("ticket %s created with priority %s", ev.TicketNumber, ev.Priority))
		}
		return nil
	})

	bus.Subscribe(events.EventTypeTicketStatusChanged, func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(*events.TicketStatusChangedEvent); ok {
			svc.Record(ev.TicketID, ev.ChangedByID, ActionStatusChanged,
				fmt.Sprintf("status changed from %s to %s", ev.OldStatus, ev.NewStatus))
		}
		return nil
	})

	bus.Subscribe(events.EventTypeTicketAssigned, func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(*events.TicketAssignedEvent); ok {
			svc.Record(ev.TicketID, ev.AssignedByID, ActionAssigned,
				fmt.Sprintf("assigned to user %s", ev.AssignedToID))
		}
		return nil
	})

	bus.Subscribe(events.EventTypeCommentAdded, func(ctx context.Context, e events.Event) error {
		if ev, ok := e.(*events.CommentAddedEvent); ok {
			detail := fmt.Sprintf("comment added by %s", ev.AuthorName)
			if ev.IsInternal {
				detail = fmt.Sprintf("internal note added by %s", ev.AuthorName)
			}
			svc.Record(ev.TicketID, ev.AuthorID, ActionCommentAdded, detail)
		}
		return nil
	})
}
