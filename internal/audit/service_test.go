package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mfirmanda/helpdesk-management/internal/audit"
	"github.com/mfirmanda/helpdesk-management/internal/core/events"
)

func TestAuditService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Service Suite")
}

type mockAuditRepository struct {
	auditLogs    []*audit.AuditLog
	activityLogs []*audit.ActivityLog
	createError  error
}

func (m *mockAuditRepository) CreateAuditLog(l *audit.AuditLog) error {
	if m.createError != nil {
		return m.createError
	}
	m.auditLogs = append(m.auditLogs, l)
	return nil
}

func (m *mockAuditRepository) ListAuditLogs(query audit.ListQuery) ([]*audit.AuditLog, int64, error) {
	return m.auditLogs, int64(len(m.auditLogs)), nil
}

func (m *mockAuditRepository) CreateActivityLog(l *audit.ActivityLog) error {
	if m.createError != nil {
		return m.createError
	}
	m.activityLogs = append(m.activityLogs, l)
	return nil
}

func (m *mockAuditRepository) ListActivityLogs(query audit.ListQuery) ([]*audit.ActivityLog, int64, error) {
	return m.activityLogs, int64(len(m.activityLogs)), nil
}

var _ = Describe("AuditService", func() {
	var (
		svc      *audit.Service
		mockRepo *mockAuditRepository
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = &mockAuditRepository{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = audit.NewService(mockRepo, logger)
	})

	Describe("Record", func() {
		It("should persist one audit entry", func() {
			svc.Record("ticket-1", "user-1", audit.ActionStatusChanged, "status changed from open to in_progress")

			Expect(mockRepo.auditLogs).To(HaveLen(1))
			Expect(mockRepo.auditLogs[0].TicketID).To(Equal("ticket-1"))
			Expect(mockRepo.auditLogs[0].Action).To(Equal(audit.ActionStatusChanged))
		})

		It("should swallow repository failures", func() {
			mockRepo.createError = errors.New("db down")

			// must not panic or propagate
			svc.Record("ticket-1", "user-1", audit.ActionTicketCreated, "x")
			Expect(mockRepo.auditLogs).To(BeEmpty())
		})
	})

	Describe("event subscribers", func() {
		var bus *events.EventBus

		BeforeEach(func() {
			bus = events.NewEventBus(logger)
			audit.RegisterSubscribers(bus, svc)
		})

		It("should write an entry for each ticket event", func() {
			ctx := context.Background()

			bus.Publish(ctx, events.NewTicketCreatedEvent(
				"ticket-1", "TKT-001", "VPN down", "high",
				"user-1", "J. Doe", "jdoe@example.com", "2026-03-01T13:00:00Z"))
			bus.Publish(ctx, events.NewTicketStatusChangedEvent(
				"ticket-1", "TKT-001", "VPN down", "open", "in_progress",
				"agent-1", "jdoe@example.com"))
			bus.Publish(ctx, events.NewCommentAddedEvent(
				"ticket-1", "TKT-001", "VPN down", "comment-1",
				"agent-1", "Agent", true, "jdoe@example.com"))

			Expect(mockRepo.auditLogs).To(HaveLen(3))
			Expect(mockRepo.auditLogs[1].Detail).To(ContainSubstring("open to in_progress"))
			Expect(mockRepo.auditLogs[2].Detail).To(ContainSubstring("internal note"))
		})
	})
})
