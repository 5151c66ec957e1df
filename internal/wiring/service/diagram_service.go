package service

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
)

const (
	entityTypeDiagram       = "diagram"
	entityTypeDiagramDevice = "diagram_device"
	entityTypeConnection    = "connection"
)

type DiagramService struct {
	repo      *repository.DiagramRepository
	validator *Validator
	cache     *ListCache
	publisher EventPublisher
}

func NewDiagramService(repo *repository.DiagramRepository, validator *Validator, cache *ListCache, publisher EventPublisher) *DiagramService {
	return &DiagramService{repo: repo, validator: validator, cache: cache, publisher: publisher}
}

type CreateDiagramInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ClientName  *string `json:"client_name,omitempty"`
}

type UpdateDiagramInput struct {
	Name        Field[string] `json:"name"`
	Description Field[string] `json:"description"`
	ClientName  Field[string] `json:"client_name"`
}

// List returns all diagrams, most recently updated first.
func (s *DiagramService) List(ctx context.Context) ([]entity.Diagram, error) {
	var diagrams []entity.Diagram
	slot, hit := s.cache.Get(ctx, cacheKeyDiagrams, &diagrams)
	if hit {
		return diagrams, nil
	}
	diagrams, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, slot, diagrams)
	return diagrams, nil
}

func (s *DiagramService) Get(ctx context.Context, id string) (*entity.Diagram, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DiagramService) Create(ctx context.Context, input *CreateDiagramInput) (*entity.Diagram, error) {
	if err := s.validator.Validate(EntityDiagram, input); err != nil {
		return nil, err
	}
	ts := now()
	diagram := &entity.Diagram{
		ID:          newID(),
		Name:        *input.Name,
		Description: input.Description,
		ClientName:  input.ClientName,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.repo.Create(ctx, diagram); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheKeyDiagrams)
	return diagram, nil
}

func (s *DiagramService) Update(ctx context.Context, id string, input *UpdateDiagramInput) (*entity.Diagram, error) {
	diagram, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := &merger{entity: EntityDiagram}
	required(m, "name", input.Name, &diagram.Name)
	optional(input.Description, &diagram.Description)
	optional(input.ClientName, &diagram.ClientName)
	if err := m.err(); err != nil {
		return nil, err
	}

	diagram.UpdatedAt = now()
	if err := s.repo.Update(ctx, diagram); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheKeyDiagrams)
	s.publisher.PublishDiagramUpdate(id, entityTypeDiagram, id, ActionUpdated)
	return s.repo.FindByID(ctx, id)
}

// Delete removes the diagram together with its connections and placed devices.
func (s *DiagramService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cacheKeyDiagrams)
	s.publisher.PublishDiagramUpdate(id, entityTypeDiagram, id, ActionDeleted)
	return nil
}
