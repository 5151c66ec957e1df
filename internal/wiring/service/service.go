package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devprbtt/wiringmaster/internal/database"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an operation references an id that does not exist.
var ErrNotFound = repository.ErrNotFound

// ValidationError reports a create or update payload that is missing a
// required field or sets one to null.
type ValidationError struct {
	Entity string
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Fields, "; "))
	}
	return fmt.Sprintf("invalid %s: %v", e.Entity, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// EventPublisher receives a notification after every diagram-scoped mutation.
type EventPublisher interface {
	PublishDiagramUpdate(diagramID, entityType, id, action string)
}

type noopPublisher struct{}

func (noopPublisher) PublishDiagramUpdate(string, string, string, string) {}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Services 服务集合
type Services struct {
	Device        *DeviceService
	DeviceIO      *DeviceIOService
	Diagram       *DiagramService
	DiagramDevice *DiagramDeviceService
	Connection    *ConnectionService
	Upload        *UploadService
	CableSchedule *CableScheduleService
}

// Deps carries the optional collaborators of the service layer. Nil fields
// disable the feature they back.
type Deps struct {
	Cache     *ListCache
	Files     FileStore
	Publisher EventPublisher
	Logger    *zap.Logger
}

func NewServices(repos *repository.Repositories, deps Deps) (*Services, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if deps.Publisher == nil {
		deps.Publisher = noopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Services{
		Device:        NewDeviceService(repos.Device, validator, deps.Cache),
		DeviceIO:      NewDeviceIOService(repos.DeviceIO, validator),
		Diagram:       NewDiagramService(repos.Diagram, validator, deps.Cache, deps.Publisher),
		DiagramDevice: NewDiagramDeviceService(repos.DiagramDevice, validator, deps.Publisher),
		Connection:    NewConnectionService(repos.Connection, validator, deps.Publisher),
		Upload:        NewUploadService(deps.Files, deps.Logger),
		CableSchedule: NewCableScheduleService(repos),
	}, nil
}

func newID() string {
	return uuid.New().String()
}

var now = database.Now
