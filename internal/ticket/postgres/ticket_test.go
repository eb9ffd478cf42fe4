package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mfirmanda/helpdesk-management/internal/ticket"
)

func TestTicketRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ticket Repository Suite")
}

// Local table shapes so the in-memory database carries everything the
// repository touches, including the tables it clears with raw SQL.
type SQLiteAttachment struct {
	ID       string `gorm:"primaryKey"`
	TicketID string `gorm:"column:ticket_id"`
	Filename string
}

func (SQLiteAttachment) TableName() string { return "attachments" }

type SQLiteAuditLog struct {
	ID       string `gorm:"primaryKey"`
	TicketID string `gorm:"column:ticket_id"`
	Action   string
}

func (SQLiteAuditLog) TableName() string { return "audit_logs" }

func newTicket(createdBy string) *ticket.Ticket {
	now := time.Now()
	deadline := now.Add(4 * time.Hour)
	return &ticket.Ticket{
		ID:          uuid.New().String(),
		Title:       "Test ticket",
		Description: "Something is broken",
		Priority:    ticket.PriorityHigh,
		Status:      ticket.StatusOpen,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		SLADeadline: &deadline,
	}
}

var _ = Describe("TicketRepository", func() {
	var (
		db   *gorm.DB
		repo ticket.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&ticket.Ticket{},
			&ticket.Comment{},
			&ticket.Counter{},
			&SQLiteAttachment{},
			&SQLiteAuditLog{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewTicketRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create", func() {
		It("should allocate sequential ticket numbers from the counter", func() {
			first := newTicket("user-1")
			second := newTicket("user-1")

			Expect(repo.Create(first)).To(Succeed())
			Expect(repo.Create(second)).To(Succeed())

			Expect(first.TicketNumber).To(Equal("TKT-001"))
			Expect(second.TicketNumber).To(Equal("TKT-002"))
		})

		It("should bootstrap the counter row when it is missing", func() {
			var count int64
			Expect(db.Model(&ticket.Counter{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())

			t := newTicket("user-1")
			Expect(repo.Create(t)).To(Succeed())
			Expect(t.TicketNumber).To(Equal("TKT-001"))
		})
	})

	Describe("GetByID", func() {
		It("should return ErrTicketNotFound for an unknown id", func() {
			_, err := repo.GetByID(uuid.New().String())
			Expect(err).To(Equal(ticket.ErrTicketNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			a := newTicket("user-1")
			a.Title = "VPN connection fails"
			a.Status = ticket.StatusOpen

			b := newTicket("user-2")
			b.Title = "Printer offline"
			b.Status = ticket.StatusResolved

			Expect(repo.Create(a)).To(Succeed())
			Expect(repo.Create(b)).To(Succeed())
		})

		It("should filter by status", func() {
			tickets, total, err := repo.List(ticket.ListTicketsQuery{
				Status: string(ticket.StatusResolved), Page: 1, Limit: 20,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(tickets[0].Title).To(Equal("Printer offline"))
		})

		It("should filter by creator", func() {
			_, total, err := repo.List(ticket.ListTicketsQuery{
				CreatedBy: "user-1", Page: 1, Limit: 20,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})

		It("should search across title and ticket number", func() {
			_, total, err := repo.List(ticket.ListTicketsQuery{
				Search: "VPN", Page: 1, Limit: 20,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))

			_, total, err = repo.List(ticket.ListTicketsQuery{
				Search: "TKT-00", Page: 1, Limit: 20,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
		})
	})

	Describe("Update", func() {
		It("should return both the prior and the committed row", func() {
			t := newTicket("user-1")
			Expect(repo.Create(t)).To(Succeed())

			old, updated, err := repo.Update(t.ID, func(t *ticket.Ticket) error {
				t.Status = ticket.StatusInProgress
				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(old.Status).To(Equal(ticket.StatusOpen))
			Expect(updated.Status).To(Equal(ticket.StatusInProgress))

			stored, err := repo.GetByID(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(ticket.StatusInProgress))
		})

		It("should return ErrTicketNotFound for an unknown id", func() {
			_, _, err := repo.Update(uuid.New().String(), func(t *ticket.Ticket) error { return nil })
			Expect(err).To(Equal(ticket.ErrTicketNotFound))
		})
	})

	Describe("Delete", func() {
		It("should cascade comments, attachment rows and audit entries", func() {
			t := newTicket("user-1")
			Expect(repo.Create(t)).To(Succeed())

			Expect(repo.AddComment(&ticket.Comment{
				ID: uuid.New().String(), TicketID: t.ID, UserID: "user-1",
				Content: "hello", CreatedAt: time.Now(),
			})).To(Succeed())
			Expect(db.Create(&SQLiteAttachment{
				ID: uuid.New().String(), TicketID: t.ID, Filename: "stored-name",
			}).Error).To(Succeed())
			Expect(db.Create(&SQLiteAuditLog{
				ID: uuid.New().String(), TicketID: t.ID, Action: "ticket_created",
			}).Error).To(Succeed())

			Expect(repo.Delete(t.ID)).To(Succeed())

			var comments, attachments, auditLogs int64
			Expect(db.Model(&ticket.Comment{}).Where("ticket_id = ?", t.ID).Count(&comments).Error).To(Succeed())
			Expect(db.Model(&SQLiteAttachment{}).Where("ticket_id = ?", t.ID).Count(&attachments).Error).To(Succeed())
			Expect(db.Model(&SQLiteAuditLog{}).Where("ticket_id = ?", t.ID).Count(&auditLogs).Error).To(Succeed())

			Expect(comments).To(BeZero())
			Expect(attachments).To(BeZero())
			Expect(auditLogs).To(BeZero())

			_, err := repo.GetByID(t.ID)
			Expect(err).To(Equal(ticket.ErrTicketNotFound))
		})
	})

	Describe("ListComments", func() {
		It("should exclude internal notes unless asked for", func() {
			t := newTicket("user-1")
			Expect(repo.Create(t)).To(Succeed())

			Expect(repo.AddComment(&ticket.Comment{
				ID: uuid.New().String(), TicketID: t.ID, UserID: "agent-1",
				Content: "public", CreatedAt: time.Now(),
			})).To(Succeed())
			Expect(repo.AddComment(&ticket.Comment{
				ID: uuid.New().String(), TicketID: t.ID, UserID: "agent-1",
				Content: "internal", IsInternal: true, CreatedAt: time.Now(),
			})).To(Succeed())

			visible, err := repo.ListComments(t.ID, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(HaveLen(1))

			all, err := repo.ListComments(t.ID, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("Stats", func() {
		It("should count breaches only for open-state tickets past the deadline", func() {
			now := time.Now()
			past := now.Add(-1 * time.Hour)
			future := now.Add(1 * time.Hour)

			breached := newTicket("user-1")
			breached.SLADeadline = &past

			resolvedLate := newTicket("user-1")
			resolvedLate.SLADeadline = &past
			resolvedLate.Status = ticket.StatusResolved

			onTrack := newTicket("user-1")
			onTrack.SLADeadline = &future

			Expect(repo.Create(breached)).To(Succeed())
			Expect(repo.Create(resolvedLate)).To(Succeed())
			Expect(repo.Create(onTrack)).To(Succeed())

			stats, err := repo.Stats(now)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(3)))
			Expect(stats.SLABreached).To(Equal(int64(1)))
			Expect(stats.ByStatus[ticket.StatusOpen]).To(Equal(int64(2)))
			Expect(stats.ByStatus[ticket.StatusResolved]).To(Equal(int64(1)))
			Expect(stats.ByPriority[ticket.PriorityHigh]).To(Equal(int64(3)))
		})
	})
})
