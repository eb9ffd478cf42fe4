package ticket_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	userDatamodel "github.com/mfirmanda/helpdesk-management/internal/core/datamodel/user"
	"github.com/mfirmanda/helpdesk-management/internal/core/events"
	"github.com/mfirmanda/helpdesk-management/internal/ticket"
)

func TestTicketService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ticket Service Suite")
}

// Mock repository for testing
type mockTicketRepository struct {
	tickets     map[string]*ticket.Ticket
	comments    map[string][]*ticket.Comment
	nextSeq     int64
	createError error
	updateError error
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{
		tickets:  make(map[string]*ticket.Ticket),
		comments: make(map[string][]*ticket.Comment),
	}
}

func (m *mockTicketRepository) Create(t *ticket.Ticket) error {
	if m.createError != nil {
		return m.createError
	}
	m.nextSeq++
	t.TicketNumber = ticket.FormatTicketNumber(m.nextSeq)
	m.tickets[t.ID] = t
	return nil
}

func (m *mockTicketRepository) GetByID(id string) (*ticket.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, ticket.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTicketRepository) List(query ticket.ListTicketsQuery) ([]*ticket.Ticket, int64, error) {
	var out []*ticket.Ticket
	for _, t := range m.tickets {
		if query.CreatedBy != "" && t.CreatedByID != query.CreatedBy {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (m *mockTicketRepository) Update(id string, apply func(t *ticket.Ticket) error) (*ticket.Ticket, *ticket.Ticket, error) {
	if m.updateError != nil {
		return nil, nil, m.updateError
	}
	t, ok := m.tickets[id]
	if !ok {
		return nil, nil, ticket.ErrTicketNotFound
	}
	old := *t
	if err := apply(t); err != nil {
		return nil, nil, err
	}
	updated := *t
	return &old, &updated, nil
}

func (m *mockTicketRepository) Delete(id string) error {
	if _, ok := m.tickets[id]; !ok {
		return ticket.ErrTicketNotFound
	}
	delete(m.tickets, id)
	delete(m.comments, id)
	return nil
}

func (m *mockTicketRepository) AddComment(c *ticket.Comment) error {
	m.comments[c.TicketID] = append(m.comments[c.TicketID], c)
	return nil
}

func (m *mockTicketRepository) ListComments(ticketID string, includeInternal bool) ([]*ticket.Comment, error) {
	var out []*ticket.Comment
	for _, c := range m.comments[ticketID] {
		if c.IsInternal && !includeInternal {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockTicketRepository) Stats(now time.Time) (*ticket.Stats, error) {
	return &ticket.Stats{Total: int64(len(m.tickets))}, nil
}

type mockCleanup struct {
	removed []string
}

func (m *mockCleanup) RemoveTicketFiles(ticketID string) {
	m.removed = append(m.removed, ticketID)
}

var _ = Describe("TicketService", func() {
	var (
		svc      *ticket.Service
		mockRepo *mockTicketRepository
		cleanup  *mockCleanup
		bus      *events.EventBus
		logger   *slog.Logger

		employee *userDatamodel.User
		agent    *userDatamodel.User

		published map[string]int
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = newMockTicketRepository()
		cleanup = &mockCleanup{}
		bus = events.NewEventBus(logger)
		svc = ticket.NewService(mockRepo, bus, cleanup, logger)

		employee = &userDatamodel.User{
			ID:         "emp-1",
			EmployeeID: "EMP-100",
			Username:   "jdoe",
			Name:       "J. Doe",
			Email:      "jdoe@example.com",
			Department: "Finance",
			Role:       userDatamodel.RoleEmployee,
		}
		agent = &userDatamodel.User{
			ID:       "agent-1",
			Username: "agent",
			Name:     "Agent",
			Role:     userDatamodel.RoleAgent,
		}

		published = make(map[string]int)
		for _, eventType := range []string{
			events.EventTypeTicketCreated,
			events.EventTypeTicketStatusChanged,
			events.EventTypeTicketAssigned,
			events.EventTypeCommentAdded,
		} {
			et := eventType
			bus.Subscribe(et, func(ctx context.Context, e events.Event) error {
				published[et]++
				return nil
			})
		}
	})

	Describe("CreateTicket", func() {
		It("should derive the SLA deadline from the priority window", func() {
			created, err := svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title:       "VPN down",
				Description: "Cannot connect to the VPN",
				Priority:    "critical",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(created.SLADeadline).ToNot(BeNil())
			Expect(created.SLADeadline.Sub(created.CreatedAt)).To(Equal(1 * time.Hour))
			Expect(created.Status).To(Equal(ticket.StatusOpen))
		})

		It("should snapshot the requester's contact fields", func() {
			created, err := svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title:       "Printer jam",
				Description: "Third floor printer is jammed",
				Priority:    "low",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(created.EmployeeID).To(Equal("EMP-100"))
			Expect(created.EmployeeName).To(Equal("J. Doe"))
			Expect(created.EmployeeEmail).To(Equal("jdoe@example.com"))
			Expect(created.EmployeeDepartment).To(Equal("Finance"))
			Expect(created.CreatedByID).To(Equal(employee.ID))
		})

		It("should publish a ticket.created event", func() {
			_, err := svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title:       "Laptop battery",
				Description: "Battery drains in an hour",
				Priority:    "medium",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(published[events.EventTypeTicketCreated]).To(Equal(1))
		})

		It("should reject an unknown priority", func() {
			_, err := svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title:       "Bad",
				Description: "Bad priority",
				Priority:    "urgent",
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetTicket", func() {
		var created *ticket.Ticket

		BeforeEach(func() {
			var err error
			created, err = svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title:       "Monitor flicker",
				Description: "Screen flickers",
				Priority:    "medium",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should let the requester read their own ticket", func() {
			got, err := svc.GetTicket(created.ID, employee)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.ID).To(Equal(created.ID))
		})

		It("should let an agent read any ticket", func() {
			_, err := svc.GetTicket(created.ID, agent)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should refuse another employee", func() {
			other := &userDatamodel.User{ID: "emp-2", Role: userDatamodel.RoleEmployee}
			_, err := svc.GetTicket(created.ID, other)
			Expect(err).To(Equal(ticket.ErrForbidden))
		})
	})

	Describe("ListTickets", func() {
		It("should force employee viewers onto their own tickets", func() {
			_, err := svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title: "A", Description: "a", Priority: "low",
			})
			Expect(err).ToNot(HaveOccurred())

			other := &userDatamodel.User{ID: "emp-2", Role: userDatamodel.RoleEmployee}
			tickets, total, err := svc.ListTickets(ticket.ListTicketsQuery{}, other)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(BeZero())
			Expect(tickets).To(BeEmpty())

			_, total, err = svc.ListTickets(ticket.ListTicketsQuery{}, agent)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})
	})

	Describe("UpdateTicket", func() {
		var created *ticket.Ticket

		BeforeEach(func() {
			var err error
			created, err = svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title:       "Email bounce",
				Description: "Outgoing mail bounces",
				Priority:    "high",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should emit exactly one status-changed event per transition", func() {
			status := string(ticket.StatusInProgress)
			_, err := svc.UpdateTicket(created.ID, ticket.UpdateTicketDTO{Status: &status}, agent)
			Expect(err).ToNot(HaveOccurred())
			Expect(published[events.EventTypeTicketStatusChanged]).To(Equal(1))
		})

		It("should not emit a status event when the status does not change", func() {
			title := "Email bounce (external only)"
			_, err := svc.UpdateTicket(created.ID, ticket.UpdateTicketDTO{Title: &title}, agent)
			Expect(err).ToNot(HaveOccurred())
			Expect(published[events.EventTypeTicketStatusChanged]).To(BeZero())
		})

		It("should stamp resolved_at when the ticket is resolved", func() {
			status := string(ticket.StatusResolved)
			updated, err := svc.UpdateTicket(created.ID, ticket.UpdateTicketDTO{Status: &status}, agent)
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.ResolvedAt).ToNot(BeNil())
		})

		It("should emit an assigned event when the assignee changes", func() {
			assignee := "agent-1"
			_, err := svc.UpdateTicket(created.ID, ticket.UpdateTicketDTO{AssignedToID: &assignee}, agent)
			Expect(err).ToNot(HaveOccurred())
			Expect(published[events.EventTypeTicketAssigned]).To(Equal(1))

			// assigning the same person again is not a change
			_, err = svc.UpdateTicket(created.ID, ticket.UpdateTicketDTO{AssignedToID: &assignee}, agent)
			Expect(err).ToNot(HaveOccurred())
			Expect(published[events.EventTypeTicketAssigned]).To(Equal(1))
		})

		It("should reject an invalid status", func() {
			status := "done"
			_, err := svc.UpdateTicket(created.ID, ticket.UpdateTicketDTO{Status: &status}, agent)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteTicket", func() {
		It("should remove stored files before the rows go away", func() {
			created, err := svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title: "To delete", Description: "x", Priority: "low",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(svc.DeleteTicket(created.ID)).To(Succeed())
			Expect(cleanup.removed).To(ConsistOf(created.ID))

			_, err = svc.GetTicket(created.ID, agent)
			Expect(err).To(Equal(ticket.ErrTicketNotFound))
		})

		It("should return not found for an unknown id", func() {
			Expect(svc.DeleteTicket("nope")).To(Equal(ticket.ErrTicketNotFound))
		})
	})

	Describe("AddComment", func() {
		var created *ticket.Ticket

		BeforeEach(func() {
			var err error
			created, err = svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title: "Comments", Description: "x", Priority: "medium",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should downgrade internal notes authored by employees", func() {
			c, err := svc.AddComment(created.ID, ticket.AddCommentDTO{
				Content:    "please hurry",
				IsInternal: true,
			}, employee)

			Expect(err).ToNot(HaveOccurred())
			Expect(c.IsInternal).To(BeFalse())
		})

		It("should keep internal notes from agents internal", func() {
			c, err := svc.AddComment(created.ID, ticket.AddCommentDTO{
				Content:    "requester is on floor 3",
				IsInternal: true,
			}, agent)

			Expect(err).ToNot(HaveOccurred())
			Expect(c.IsInternal).To(BeTrue())
		})

		It("should hide internal notes from the requester on listing", func() {
			_, err := svc.AddComment(created.ID, ticket.AddCommentDTO{
				Content: "visible", IsInternal: false,
			}, agent)
			Expect(err).ToNot(HaveOccurred())
			_, err = svc.AddComment(created.ID, ticket.AddCommentDTO{
				Content: "internal", IsInternal: true,
			}, agent)
			Expect(err).ToNot(HaveOccurred())

			forEmployee, err := svc.ListComments(created.ID, employee)
			Expect(err).ToNot(HaveOccurred())
			Expect(forEmployee).To(HaveLen(1))

			forAgent, err := svc.ListComments(created.ID, agent)
			Expect(err).ToNot(HaveOccurred())
			Expect(forAgent).To(HaveLen(2))
		})
	})

	Describe("error propagation", func() {
		It("should surface repository failures on create", func() {
			mockRepo.createError = errors.New("db down")
			_, err := svc.CreateTicket(employee, ticket.CreateTicketDTO{
				Title: "x", Description: "y", Priority: "low",
			})
			Expect(err).To(MatchError("db down"))
		})
	})
})
