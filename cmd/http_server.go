package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfirmanda/helpdesk-management/internal"
	"github.com/mfirmanda/helpdesk-management/internal/attachment"
	attachmentPostgres "github.com/mfirmanda/helpdesk-management/internal/attachment/postgres"
	"github.com/mfirmanda/helpdesk-management/internal/audit"
	auditPostgres "github.com/mfirmanda/helpdesk-management/internal/audit/postgres"
	"github.com/mfirmanda/helpdesk-management/internal/auth"
	"github.com/mfirmanda/helpdesk-management/internal/core/events"
	"github.com/mfirmanda/helpdesk-management/internal/notification"
	"github.com/mfirmanda/helpdesk-management/internal/setting"
	settingPostgres "github.com/mfirmanda/helpdesk-management/internal/setting/postgres"
	"github.com/mfirmanda/helpdesk-management/internal/ticket"
	ticketPostgres "github.com/mfirmanda/helpdesk-management/internal/ticket/postgres"
	"github.com/mfirmanda/helpdesk-management/internal/transport/rest"
	"github.com/mfirmanda/helpdesk-management/internal/user"
	userPostgres "github.com/mfirmanda/helpdesk-management/internal/user/postgres"
	"github.com/mfirmanda/helpdesk-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Router     *chi.Mux
	Dispatcher *notification.Dispatcher
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Dispatcher.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(lg)

	// repositories
	userRepo := userPostgres.NewUserRepository(gormDB)
	ticketRepo := ticketPostgres.NewTicketRepository(gormDB)
	attachmentRepo := attachmentPostgres.NewAttachmentRepository(gormDB)
	auditRepo := auditPostgres.NewAuditRepository(gormDB)
	settingRepo := settingPostgres.NewSettingRepository(gormDB)

	// services
	storage, err := attachment.NewDiskStorage(config.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize attachment storage: %w", err)
	}

	attachmentSvc := attachment.NewService(attachmentRepo, storage, config.Storage.MaxUploadSize, lg)
	ticketSvc := ticket.NewService(ticketRepo, bus, attachmentSvc, lg)
	userSvc := user.NewService(userRepo, config.Security.BCryptCost, lg)
	settingSvc := setting.NewService(settingRepo, lg)
	auditSvc := audit.NewService(auditRepo, lg)

	sessions := auth.NewSessionManager(config.Security.SessionSecret, config.Security.SessionDuration)
	authSvc := auth.NewService(userRepo, sessions, lg)

	sender := notification.NewGomailSender(config.SMTP)
	dispatcher := notification.NewDispatcher(config.Notification, sender, lg)

	// subscribers
	audit.RegisterSubscribers(bus, auditSvc)
	notification.RegisterSubscribers(bus, dispatcher, settingSvc)

	// transport
	router := chi.NewRouter()
	handlers := rest.Handlers{
		Auth: auth.NewHandler(authSvc, auth.CookieConfig{
			Name:   config.Security.CookieName,
			Secure: config.Security.CookieSecure,
		}),
		User:       user.NewHandler(userSvc),
		Ticket:     ticket.NewHandler(ticketSvc),
		Attachment: attachment.NewHandler(attachmentSvc, ticketSvc),
		Audit:      audit.NewHandler(auditSvc),
		Setting:    setting.NewHandler(settingSvc),
	}

	rest.RegisterAllRoutes(router, db.DB, handlers, auditSvc, config.Server.AllowedOrigins, lg)

	return &Dependencies{
		Config:     config,
		DB:         db,
		Router:     router,
		Dispatcher: dispatcher,
		Logger:     lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
