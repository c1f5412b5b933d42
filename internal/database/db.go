package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate auto-migrates every table, shared between the postgres startup
// path and the sqlite test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.RefreshToken{},
		&model.Invitation{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Transaction{},
		&model.Recordable{},
		&model.Task{},
		&model.Document{},
		&model.Photo{},
		&model.Hajari{},
		&model.Material{},
		&model.MaterialLedgerEntry{},
		&model.Ledger{},
		&model.JournalEntry{},
		&model.AuditLog{},
	)
}
