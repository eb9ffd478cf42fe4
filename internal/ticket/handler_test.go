package ticket_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mfirmanda/helpdesk-management/internal"
	"github.com/mfirmanda/helpdesk-management/internal/auth"
	"github.com/mfirmanda/helpdesk-management/internal/ticket"
)

// stubTicketService returns canned results so handler error mapping can be
// exercised in isolation.
type stubTicketService struct {
	ticket *ticket.Ticket
	err    error
}

func (s *stubTicketService) CreateTicket(requester *auth.User, dto ticket.CreateTicketDTO) (*ticket.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) GetTicket(id string, viewer *auth.User) (*ticket.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) ListTickets(query ticket.ListTicketsQuery, viewer *auth.User) ([]*ticket.Ticket, int64, error) {
	return nil, 0, s.err
}

func (s *stubTicketService) UpdateTicket(id string, dto ticket.UpdateTicketDTO, actor *auth.User) (*ticket.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) DeleteTicket(id string) error {
	return s.err
}

func (s *stubTicketService) AddComment(ticketID string, dto ticket.AddCommentDTO, author *auth.User) (*ticket.Comment, error) {
	return nil, s.err
}

func (s *stubTicketService) ListComments(ticketID string, viewer *auth.User) ([]*ticket.Comment, error) {
	return nil, s.err
}

func (s *stubTicketService) Stats() (*ticket.Stats, error) {
	return nil, s.err
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	u := &auth.User{ID: "user-1", Username: "jdoe"}
	return req.WithContext(auth.ContextWithUser(req.Context(), u))
}

var _ = Describe("TicketHandler", func() {
	var (
		stub    *stubTicketService
		handler *ticket.Handler
	)

	BeforeEach(func() {
		stub = &stubTicketService{}
		handler = ticket.NewHandler(stub)
	})

	Describe("error mapping", func() {
		It("should hide repository failures behind a generic 500", func() {
			stub.err = errors.New("db down")

			rec := httptest.NewRecorder()
			handler.CreateTicket(rec, authedRequest(http.MethodPost, "/api/v1/tickets",
				`{"title":"t","description":"d","priority":"high"}`))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).To(ContainSubstring("internal server error"))
			Expect(rec.Body.String()).ToNot(ContainSubstring("db down"))
		})

		It("should return 400 with field detail for a validation failure", func() {
			stub.err = ticket.CreateTicketDTO{
				Title: "t", Description: "d", Priority: "urgent",
			}.Validate()
			Expect(stub.err).To(HaveOccurred())

			rec := httptest.NewRecorder()
			handler.CreateTicket(rec, authedRequest(http.MethodPost, "/api/v1/tickets",
				`{"title":"t","description":"d","priority":"urgent"}`))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring(`"field":"priority"`))
			Expect(rec.Body.String()).To(ContainSubstring("invalid priority"))
		})

		It("should map a missing ticket to 404", func() {
			stub.err = ticket.ErrTicketNotFound

			rec := httptest.NewRecorder()
			handler.GetTicket(rec, authedRequest(http.MethodGet, "/api/v1/tickets/nope", ""))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring(string(internal.ErrCodeTicketNotFound)))
		})

		It("should map an access violation to 403", func() {
			stub.err = ticket.ErrForbidden

			rec := httptest.NewRecorder()
			handler.GetTicket(rec, authedRequest(http.MethodGet, "/api/v1/tickets/other", ""))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("success envelope", func() {
		It("should decorate the ticket with SLA progress", func() {
			deadline := time.Now().Add(time.Hour)
			stub.ticket = &ticket.Ticket{
				ID:           "ticket-1",
				TicketNumber: "TKT-001",
				Title:        "VPN down",
				Priority:     ticket.PriorityCritical,
				Status:       ticket.StatusOpen,
				CreatedByID:  "user-1",
				CreatedAt:    time.Now(),
				SLADeadline:  &deadline,
			}

			rec := httptest.NewRecorder()
			handler.GetTicket(rec, authedRequest(http.MethodGet, "/api/v1/tickets/ticket-1", ""))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"sla"`))
			Expect(rec.Body.String()).To(ContainSubstring("TKT-001"))
		})
	})
})
