package service

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
)

type DeviceService struct {
	repo      *repository.DeviceRepository
	validator *Validator
	cache     *ListCache
}

func NewDeviceService(repo *repository.DeviceRepository, validator *Validator, cache *ListCache) *DeviceService {
	return &DeviceService{repo: repo, validator: validator, cache: cache}
}

type CreateDeviceInput struct {
	Brand       *string `json:"brand,omitempty"`
	Model       *string `json:"model,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Description *string `json:"description,omitempty"`
}

type UpdateDeviceInput struct {
	Brand       Field[string] `json:"brand"`
	Model       Field[string] `json:"model"`
	Category    Field[string] `json:"category"`
	ImageURL    Field[string] `json:"image_url"`
	Description Field[string] `json:"description"`
}

func (s *DeviceService) List(ctx context.Context) ([]entity.Device, error) {
	var devices []entity.Device
	slot, hit := s.cache.Get(ctx, cacheKeyDevices, &devices)
	if hit {
		return devices, nil
	}
	devices, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, slot, devices)
	return devices, nil
}

func (s *DeviceService) Get(ctx context.Context, id string) (*entity.Device, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DeviceService) Create(ctx context.Context, input *CreateDeviceInput) (*entity.Device, error) {
	if err := s.validator.Validate(EntityDevice, input); err != nil {
		return nil, err
	}
	ts := now()
	device := &entity.Device{
		ID:          newID(),
		Brand:       *input.Brand,
		Model:       *input.Model,
		Category:    *input.Category,
		ImageURL:    input.ImageURL,
		Description: input.Description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.repo.Create(ctx, device); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheKeyDevices)
	return device, nil
}

func (s *DeviceService) Update(ctx context.Context, id string, input *UpdateDeviceInput) (*entity.Device, error) {
	device, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := &merger{entity: EntityDevice}
	required(m, "brand", input.Brand, &device.Brand)
	required(m, "model", input.Model, &device.Model)
	required(m, "category", input.Category, &device.Category)
	optional(input.ImageURL, &device.ImageURL)
	optional(input.Description, &device.Description)
	if err := m.err(); err != nil {
		return nil, err
	}

	device.UpdatedAt = now()
	if err := s.repo.Update(ctx, device); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheKeyDevices)
	return s.repo.FindByID(ctx, id)
}

// Delete removes the device and, atomically, every IO defined on it.
func (s *DeviceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cacheKeyDevices)
	return nil
}
