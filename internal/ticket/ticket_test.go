package ticket_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mfirmanda/helpdesk-management/internal/ticket"
)

var _ = Describe("SLA", func() {
	Describe("ComputeSLADeadline", func() {
		It("should apply the per-priority window", func() {
			base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

			Expect(ticket.ComputeSLADeadline(ticket.PriorityCritical, base)).To(Equal(base.Add(1 * time.Hour)))
			Expect(ticket.ComputeSLADeadline(ticket.PriorityHigh, base)).To(Equal(base.Add(4 * time.Hour)))
			Expect(ticket.ComputeSLADeadline(ticket.PriorityMedium, base)).To(Equal(base.Add(24 * time.Hour)))
			Expect(ticket.ComputeSLADeadline(ticket.PriorityLow, base)).To(Equal(base.Add(72 * time.Hour)))
		})

		It("should fall back to the medium window for an unknown priority", func() {
			base := time.Now()
			Expect(ticket.ComputeSLADeadline(ticket.Priority("weird"), base)).To(Equal(base.Add(24 * time.Hour)))
		})
	})

	Describe("SLAProgressAt", func() {
		var t *ticket.Ticket

		BeforeEach(func() {
			created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
			deadline := created.Add(4 * time.Hour)
			t = &ticket.Ticket{
				Priority:    ticket.PriorityHigh,
				Status:      ticket.StatusOpen,
				CreatedAt:   created,
				SLADeadline: &deadline,
			}
		})

		It("should report on_track early in the window", func() {
			p := t.SLAProgressAt(t.CreatedAt.Add(1 * time.Hour))
			Expect(p.State).To(Equal(ticket.SLAOnTrack))
			Expect(p.PercentElapsed).To(Equal(25))
		})

		It("should report at_risk from 75 percent", func() {
			p := t.SLAProgressAt(t.CreatedAt.Add(3 * time.Hour))
			Expect(p.State).To(Equal(ticket.SLAAtRisk))
			Expect(p.PercentElapsed).To(Equal(75))
		})

		It("should report breached past the deadline and clamp at 100", func() {
			p := t.SLAProgressAt(t.CreatedAt.Add(6 * time.Hour))
			Expect(p.State).To(Equal(ticket.SLABreached))
			Expect(p.PercentElapsed).To(Equal(100))
		})

		It("should freeze at resolution time for resolved tickets", func() {
			resolved := t.CreatedAt.Add(2 * time.Hour)
			t.Status = ticket.StatusResolved
			t.ResolvedAt = &resolved

			// even long after the deadline the resolved ticket stays at 50%
			p := t.SLAProgressAt(t.CreatedAt.Add(48 * time.Hour))
			Expect(p.State).To(Equal(ticket.SLAOnTrack))
			Expect(p.PercentElapsed).To(Equal(50))
		})

		It("should stay on_track when no deadline is set", func() {
			t.SLADeadline = nil
			p := t.SLAProgressAt(time.Now())
			Expect(p.State).To(Equal(ticket.SLAOnTrack))
		})
	})
})

var _ = Describe("FormatTicketNumber", func() {
	It("should zero-pad small sequence values", func() {
		Expect(ticket.FormatTicketNumber(1)).To(Equal("TKT-001"))
		Expect(ticket.FormatTicketNumber(42)).To(Equal("TKT-042"))
	})

	It("should grow past three digits without truncating", func() {
		Expect(ticket.FormatTicketNumber(1234)).To(Equal("TKT-1234"))
	})
})
