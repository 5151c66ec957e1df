package service

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
)

type DeviceIOService struct {
	repo      *repository.DeviceIORepository
	validator *Validator
}

func NewDeviceIOService(repo *repository.DeviceIORepository, validator *Validator) *DeviceIOService {
	return &DeviceIOService{repo: repo, validator: validator}
}

type CreateDeviceIOInput struct {
	DeviceID      *string `json:"device_id,omitempty"`
	Label         *string `json:"label,omitempty"`
	ConnectorType *string `json:"connector_type,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	Direction     *string `json:"direction,omitempty"`
	SignalType    *string `json:"signal_type,omitempty"`
}

// UpdateDeviceIOInput has no device_id: an IO stays on the device it was created for.
type UpdateDeviceIOInput struct {
	Label         Field[string] `json:"label"`
	ConnectorType Field[string] `json:"connector_type"`
	Gender        Field[string] `json:"gender"`
	Direction     Field[string] `json:"direction"`
	SignalType    Field[string] `json:"signal_type"`
}

// List returns every IO, or only the IOs of deviceID when it is not empty.
func (s *DeviceIOService) List(ctx context.Context, deviceID string) ([]entity.DeviceIO, error) {
	return s.repo.List(ctx, deviceID)
}

func (s *DeviceIOService) Get(ctx context.Context, id string) (*entity.DeviceIO, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new IO. The referenced device is not looked up.
func (s *DeviceIOService) Create(ctx context.Context, input *CreateDeviceIOInput) (*entity.DeviceIO, error) {
	if err := s.validator.Validate(EntityDeviceIO, input); err != nil {
		return nil, err
	}
	ts := now()
	io := &entity.DeviceIO{
		ID:            newID(),
		DeviceID:      *input.DeviceID,
		Label:         *input.Label,
		ConnectorType: *input.ConnectorType,
		Gender:        *input.Gender,
		Direction:     *input.Direction,
		SignalType:    *input.SignalType,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	if err := s.repo.Create(ctx, io); err != nil {
		return nil, err
	}
	return io, nil
}

func (s *DeviceIOService) Update(ctx context.Context, id string, input *UpdateDeviceIOInput) (*entity.DeviceIO, error) {
	io, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := &merger{entity: EntityDeviceIO}
	required(m, "label", input.Label, &io.Label)
	required(m, "connector_type", input.ConnectorType, &io.ConnectorType)
	required(m, "gender", input.Gender, &io.Gender)
	required(m, "direction", input.Direction, &io.Direction)
	required(m, "signal_type", input.SignalType, &io.SignalType)
	if err := m.err(); err != nil {
		return nil, err
	}

	io.UpdatedAt = now()
	if err := s.repo.Update(ctx, io); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *DeviceIOService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
