package service

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
)

type DiagramDeviceService struct {
	repo      *repository.DiagramDeviceRepository
	validator *Validator
	publisher EventPublisher
}

func NewDiagramDeviceService(repo *repository.DiagramDeviceRepository, validator *Validator, publisher EventPublisher) *DiagramDeviceService {
	return &DiagramDeviceService{repo: repo, validator: validator, publisher: publisher}
}

type CreateDiagramDeviceInput struct {
	DiagramID *string  `json:"diagram_id,omitempty"`
	DeviceID  *string  `json:"device_id,omitempty"`
	PositionX *float64 `json:"position_x,omitempty"`
	PositionY *float64 `json:"position_y,omitempty"`
	Rotation  *float64 `json:"rotation,omitempty"`
}

// UpdateDiagramDeviceInput moves or rotates a placed device. The diagram and
// catalog device it refers to are fixed at creation.
type UpdateDiagramDeviceInput struct {
	PositionX Field[float64] `json:"position_x"`
	PositionY Field[float64] `json:"position_y"`
	Rotation  Field[float64] `json:"rotation"`
}

// List returns every placed device, or those of diagramID when it is not empty.
func (s *DiagramDeviceService) List(ctx context.Context, diagramID string) ([]entity.DiagramDevice, error) {
	return s.repo.List(ctx, diagramID)
}

func (s *DiagramDeviceService) Get(ctx context.Context, id string) (*entity.DiagramDevice, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DiagramDeviceService) Create(ctx context.Context, input *CreateDiagramDeviceInput) (*entity.DiagramDevice, error) {
	if err := s.validator.Validate(EntityDiagramDevice, input); err != nil {
		return nil, err
	}
	ts := now()
	dd := &entity.DiagramDevice{
		ID:        newID(),
		DiagramID: *input.DiagramID,
		DeviceID:  *input.DeviceID,
		PositionX: *input.PositionX,
		PositionY: *input.PositionY,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if input.Rotation != nil {
		dd.Rotation = *input.Rotation
	}
	if err := s.repo.Create(ctx, dd); err != nil {
		return nil, err
	}
	s.publisher.PublishDiagramUpdate(dd.DiagramID, entityTypeDiagramDevice, dd.ID, ActionCreated)
	return dd, nil
}

func (s *DiagramDeviceService) Update(ctx context.Context, id string, input *UpdateDiagramDeviceInput) (*entity.DiagramDevice, error) {
	dd, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := &merger{entity: EntityDiagramDevice}
	required(m, "position_x", input.PositionX, &dd.PositionX)
	required(m, "position_y", input.PositionY, &dd.PositionY)
	required(m, "rotation", input.Rotation, &dd.Rotation)
	if err := m.err(); err != nil {
		return nil, err
	}

	dd.UpdatedAt = now()
	if err := s.repo.Update(ctx, dd); err != nil {
		return nil, err
	}
	s.publisher.PublishDiagramUpdate(dd.DiagramID, entityTypeDiagramDevice, id, ActionUpdated)
	return s.repo.FindByID(ctx, id)
}

// Delete removes only the placement. Connections that reference it are kept.
func (s *DiagramDeviceService) Delete(ctx context.Context, id string) error {
	dd, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.PublishDiagramUpdate(dd.DiagramID, entityTypeDiagramDevice, id, ActionDeleted)
	return nil
}
