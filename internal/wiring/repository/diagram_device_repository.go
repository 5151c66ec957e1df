package repository

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"gorm.io/gorm"
)

type DiagramDeviceRepository struct {
	db *gorm.DB
}

func NewDiagramDeviceRepository(db *gorm.DB) *DiagramDeviceRepository {
	return &DiagramDeviceRepository{db: db}
}

// List returns all placed devices, or only those on diagramID when it is not empty.
func (r *DiagramDeviceRepository) List(ctx context.Context, diagramID string) ([]entity.DiagramDevice, error) {
	placed := []entity.DiagramDevice{}
	query := r.db.WithContext(ctx)
	if diagramID != "" {
		query = query.Where("diagram_id = ?", diagramID)
	}
	if err := query.Order("created_at ASC").Find(&placed).Error; err != nil {
		return nil, wrap("list diagram devices", err)
	}
	return placed, nil
}

func (r *DiagramDeviceRepository) FindByID(ctx context.Context, id string) (*entity.DiagramDevice, error) {
	var dd entity.DiagramDevice
	if err := r.db.WithContext(ctx).First(&dd, "id = ?", id).Error; err != nil {
		return nil, wrap("find diagram device", err)
	}
	return &dd, nil
}

func (r *DiagramDeviceRepository) Create(ctx context.Context, dd *entity.DiagramDevice) error {
	return wrap("create diagram device", r.db.WithContext(ctx).Create(dd).Error)
}

func (r *DiagramDeviceRepository) Update(ctx context.Context, dd *entity.DiagramDevice) error {
	res := r.db.WithContext(ctx).Model(dd).Select("*").Omit("id", "created_at").Updates(dd)
	if res.Error != nil {
		return wrap("update diagram device", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DiagramDeviceRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.DiagramDevice{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete diagram device", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
