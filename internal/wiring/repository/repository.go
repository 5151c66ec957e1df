package repository

import (
	"errors"
	"fmt"

	"github.com/devprbtt/wiringmaster/internal/database"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// StorageError wraps any persistence failure that is not a missing row.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrap classifies a gorm error for op. Nil stays nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Repositories groups the store for every entity type.
type Repositories struct {
	Device        *DeviceRepository
	DeviceIO      *DeviceIORepository
	Diagram       *DiagramRepository
	DiagramDevice *DiagramDeviceRepository
	Connection    *ConnectionRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	tx := database.Transactor(db)
	return &Repositories{
		Device:        NewDeviceRepository(db, tx),
		DeviceIO:      NewDeviceIORepository(db),
		Diagram:       NewDiagramRepository(db, tx),
		DiagramDevice: NewDiagramDeviceRepository(db),
		Connection:    NewConnectionRepository(db),
	}
}
