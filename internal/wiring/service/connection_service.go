package service

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
)

type ConnectionService struct {
	repo      *repository.ConnectionRepository
	validator *Validator
	publisher EventPublisher
}

func NewConnectionService(repo *repository.ConnectionRepository, validator *Validator, publisher EventPublisher) *ConnectionService {
	return &ConnectionService{repo: repo, validator: validator, publisher: publisher}
}

type CreateConnectionInput struct {
	DiagramID             *string `json:"diagram_id,omitempty"`
	SourceDiagramDeviceID *string `json:"source_diagram_device_id,omitempty"`
	SourceIOID            *string `json:"source_io_id,omitempty"`
	TargetDiagramDeviceID *string `json:"target_diagram_device_id,omitempty"`
	TargetIOID            *string `json:"target_io_id,omitempty"`
	CableLabel            *string `json:"cable_label,omitempty"`
	CableLength           *string `json:"cable_length,omitempty"`
	Notes                 *string `json:"notes,omitempty"`
}

// UpdateConnectionInput may re-route either end of a cable but cannot move it
// to another diagram.
type UpdateConnectionInput struct {
	SourceDiagramDeviceID Field[string] `json:"source_diagram_device_id"`
	SourceIOID            Field[string] `json:"source_io_id"`
	TargetDiagramDeviceID Field[string] `json:"target_diagram_device_id"`
	TargetIOID            Field[string] `json:"target_io_id"`
	CableLabel            Field[string] `json:"cable_label"`
	CableLength           Field[string] `json:"cable_length"`
	Notes                 Field[string] `json:"notes"`
}

// List returns every connection, or those of diagramID when it is not empty,
// in creation order.
func (s *ConnectionService) List(ctx context.Context, diagramID string) ([]entity.Connection, error) {
	return s.repo.List(ctx, diagramID)
}

func (s *ConnectionService) Get(ctx context.Context, id string) (*entity.Connection, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a cable. Endpoints are not checked against the diagram or
// the devices' IO lists.
func (s *ConnectionService) Create(ctx context.Context, input *CreateConnectionInput) (*entity.Connection, error) {
	if err := s.validator.Validate(EntityConnection, input); err != nil {
		return nil, err
	}
	ts := now()
	conn := &entity.Connection{
		ID:                    newID(),
		DiagramID:             *input.DiagramID,
		SourceDiagramDeviceID: *input.SourceDiagramDeviceID,
		SourceIOID:            *input.SourceIOID,
		TargetDiagramDeviceID: *input.TargetDiagramDeviceID,
		TargetIOID:            *input.TargetIOID,
		CableLabel:            input.CableLabel,
		CableLength:           input.CableLength,
		Notes:                 input.Notes,
		CreatedAt:             ts,
		UpdatedAt:             ts,
	}
	if err := s.repo.Create(ctx, conn); err != nil {
		return nil, err
	}
	s.publisher.PublishDiagramUpdate(conn.DiagramID, entityTypeConnection, conn.ID, ActionCreated)
	return conn, nil
}

func (s *ConnectionService) Update(ctx context.Context, id string, input *UpdateConnectionInput) (*entity.Connection, error) {
	conn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := &merger{entity: EntityConnection}
	required(m, "source_diagram_device_id", input.SourceDiagramDeviceID, &conn.SourceDiagramDeviceID)
	required(m, "source_io_id", input.SourceIOID, &conn.SourceIOID)
	required(m, "target_diagram_device_id", input.TargetDiagramDeviceID, &conn.TargetDiagramDeviceID)
	required(m, "target_io_id", input.TargetIOID, &conn.TargetIOID)
	optional(input.CableLabel, &conn.CableLabel)
	optional(input.CableLength, &conn.CableLength)
	optional(input.Notes, &conn.Notes)
	if err := m.err(); err != nil {
		return nil, err
	}

	conn.UpdatedAt = now()
	if err := s.repo.Update(ctx, conn); err != nil {
		return nil, err
	}
	s.publisher.PublishDiagramUpdate(conn.DiagramID, entityTypeConnection, id, ActionUpdated)
	return s.repo.FindByID(ctx, id)
}

func (s *ConnectionService) Delete(ctx context.Context, id string) error {
	conn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.PublishDiagramUpdate(conn.DiagramID, entityTypeConnection, id, ActionDeleted)
	return nil
}
