package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mfirmanda/helpdesk-management/internal/setting"
	userDatamodel "github.com/mfirmanda/helpdesk-management/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with bootstrap data",
	Long:  `Seed the database with the bootstrap admin account and default settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"audit_logs", "activity_logs", "attachments", "comments", "tickets"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared ticket data")
		}

		seedAdmin(db, cfg.Security.BCryptCost)
		seedSettings(db)
		seedCounter(db)
	},
}

func seedAdmin(db *gorm.DB, bcryptCost int) {
	var count int64
	if err := db.Model(&userDatamodel.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		log.Fatalf("failed to check admin user: %v", err)
	}
	if count > 0 {
		fmt.Println("admin user already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	now := time.Now()
	admin := &userDatamodel.User{
		ID:           uuid.New().String(),
		EmployeeID:   "EMP-0001",
		Username:     "admin",
		PasswordHash: string(hash),
		Name:         "Administrator",
		Email:        "admin@example.com",
		Department:   "IT",
		Designation:  "System Administrator",
		Role:         userDatamodel.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("failed to insert admin user: %v", err)
	}

	fmt.Println("Seeded admin user (username: admin, password: admin123). Change the password after first login.")
}

func seedSettings(db *gorm.DB) {
	for _, def := range setting.Defaults {
		var count int64
		if err := db.Model(&setting.Setting{}).Where("key = ?", def.Key).Count(&count).Error; err != nil {
			log.Fatalf("failed to check setting %s: %v", def.Key, err)
		}
		if count > 0 {
			continue
		}

		def.UpdatedAt = time.Now()
		if err := db.Create(&def).Error; err != nil {
			log.Fatalf("failed to insert setting %s: %v", def.Key, err)
		}
		fmt.Printf("Seeded setting: %s\n", def.Key)
	}
}

func seedCounter(db *gorm.DB) {
	if err := db.Exec("INSERT INTO ticket_counters (id, value) VALUES (1, 0) ON CONFLICT (id) DO NOTHING").Error; err != nil {
		log.Fatalf("failed to seed ticket counter: %v", err)
	}
	fmt.Println("Ticket counter ready")
}
