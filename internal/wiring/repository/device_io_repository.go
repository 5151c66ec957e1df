package repository

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"gorm.io/gorm"
)

type DeviceIORepository struct {
	db *gorm.DB
}

func NewDeviceIORepository(db *gorm.DB) *DeviceIORepository {
	return &DeviceIORepository{db: db}
}

// List returns all IOs, or only those of deviceID when it is not empty.
func (r *DeviceIORepository) List(ctx context.Context, deviceID string) ([]entity.DeviceIO, error) {
	ios := []entity.DeviceIO{}
	query := r.db.WithContext(ctx)
	if deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}
	if err := query.Order("created_at ASC").Find(&ios).Error; err != nil {
		return nil, wrap("list device ios", err)
	}
	return ios, nil
}

func (r *DeviceIORepository) FindByID(ctx context.Context, id string) (*entity.DeviceIO, error) {
	var io entity.DeviceIO
	if err := r.db.WithContext(ctx).First(&io, "id = ?", id).Error; err != nil {
		return nil, wrap("find device io", err)
	}
	return &io, nil
}

func (r *DeviceIORepository) FindByIDs(ctx context.Context, ids []string) (map[string]entity.DeviceIO, error) {
	out := make(map[string]entity.DeviceIO, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var ios []entity.DeviceIO
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ios).Error; err != nil {
		return nil, wrap("find device ios", err)
	}
	for _, io := range ios {
		out[io.ID] = io
	}
	return out, nil
}

func (r *DeviceIORepository) Create(ctx context.Context, io *entity.DeviceIO) error {
	return wrap("create device io", r.db.WithContext(ctx).Create(io).Error)
}

func (r *DeviceIORepository) Update(ctx context.Context, io *entity.DeviceIO) error {
	res := r.db.WithContext(ctx).Model(io).Select("*").Omit("id", "created_at").Updates(io)
	if res.Error != nil {
		return wrap("update device io", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DeviceIORepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.DeviceIO{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete device io", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
