package database

import (
	"context"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrations rules:
//
//  1. IDs are timestamps that sort ascending, formatted YYYYMMDD-HHMM.
//  2. Models are declared inline in each migration so that later changes to
//     the entity package never rewrite history.
//  3. Migrations only add; no new required columns on existing tables.
func migrationOptions() *gormigrate.Options {
	return &gormigrate.Options{
		TableName:      "schema_migrations",
		IDColumnName:   "id",
		IDColumnSize:   40,
		UseTransaction: false,
	}
}

func migrationList() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createWiringTables(),
	}
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return gormigrate.New(db.WithContext(ctx), migrationOptions(), migrationList()).Migrate()
}

// RollbackLast undoes the most recent migration.
func RollbackLast(ctx context.Context, db *gorm.DB) error {
	return gormigrate.New(db.WithContext(ctx), migrationOptions(), migrationList()).RollbackLast()
}

// Initial schema. No foreign key constraints are declared: references are
// not checked on insert and cascades run as explicit deletes in the store.
type v1Device struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Brand       string    `gorm:"size:100;not null"`
	Model       string    `gorm:"size:100;not null"`
	Category    string    `gorm:"size:50;not null"`
	ImageURL    *string   `gorm:"size:500"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type v1DeviceIO struct {
	ID            string    `gorm:"primaryKey;size:36"`
	DeviceID      string    `gorm:"size:36;not null;index"`
	Label         string    `gorm:"size:100;not null"`
	ConnectorType string    `gorm:"size:50;not null"`
	Gender        string    `gorm:"size:20;not null"`
	Direction     string    `gorm:"size:20;not null"`
	SignalType    string    `gorm:"size:20;not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

type v1Diagram struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:200;not null"`
	Description *string   `gorm:"type:text"`
	ClientName  *string   `gorm:"size:200"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null;index"`
}

type v1DiagramDevice struct {
	ID        string    `gorm:"primaryKey;size:36"`
	DiagramID string    `gorm:"size:36;not null;index"`
	DeviceID  string    `gorm:"size:36;not null;index"`
	PositionX float64   `gorm:"not null"`
	PositionY float64   `gorm:"not null"`
	Rotation  float64   `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type v1Connection struct {
	ID                    string    `gorm:"primaryKey;size:36"`
	DiagramID             string    `gorm:"size:36;not null;index"`
	SourceDiagramDeviceID string    `gorm:"size:36;not null"`
	SourceIOID            string    `gorm:"column:source_io_id;size:36;not null"`
	TargetDiagramDeviceID string    `gorm:"size:36;not null"`
	TargetIOID            string    `gorm:"column:target_io_id;size:36;not null"`
	CableLabel            *string   `gorm:"size:100"`
	CableLength           *string   `gorm:"size:50"`
	Notes                 *string   `gorm:"type:text"`
	CreatedAt             time.Time `gorm:"not null;index"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (v1Device) TableName() string { return "devices" }
func (v1DeviceIO) TableName() string { return "device_ios" }
func (v1Diagram) TableName() string { return "diagrams" }
func (v1DiagramDevice) TableName() string { return "diagram_devices" }
func (v1Connection) TableName() string { return "connections" }

func createWiringTables() *gormigrate.Migration {
	tables := []interface{}{&v1Device{}, &v1DeviceIO{}, &v1Diagram{}, &v1DiagramDevice{}, &v1Connection{}}

	return &gormigrate.Migration{
		ID: "20250301-0000",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(tables...)
		},
		Rollback: func(tx *gorm.DB) error {
			for i := len(tables) - 1; i >= 0; i-- {
				if err := tx.Migrator().DropTable(tables[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
