package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfirmanda/helpdesk-management/internal/notification"
	"github.com/mfirmanda/helpdesk-management/pkg/logger"
)

var notifyCmd = &cobra.Command{
	Use:   "notify [recipient]",
	Short: "Send a test notification email",
	Long:  `Send a test email through the notification dispatcher to verify SMTP settings.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}

		logger.Init(os.Getenv("APP_ENV"), cfg.Observability.Logging.Level)
		lg := logger.LoggerWrapper()

		sender := notification.NewGomailSender(cfg.SMTP)
		dispatcher := notification.NewDispatcher(cfg.Notification, sender, lg)

		to := args[0]
		if !dispatcher.Enqueue(to, "Helpdesk test notification",
			"This is a test notification. SMTP delivery is working.") {
			fmt.Fprintln(os.Stderr, "notification could not be queued (disabled or queue full)")
			os.Exit(1)
		}

		// give the worker a moment before tearing the pool down
		time.Sleep(2 * time.Second)
		dispatcher.Shutdown()
	},
}
