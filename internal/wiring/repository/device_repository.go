package repository

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/database"
	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepository struct {
	db *gorm.DB
	tx database.TransactionFunc
}

func NewDeviceRepository(db *gorm.DB, tx database.TransactionFunc) *DeviceRepository {
	return &DeviceRepository{db: db, tx: tx}
}

// List returns every device, most recently created first.
func (r *DeviceRepository) List(ctx context.Context) ([]entity.Device, error) {
	devices := []entity.Device{}
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&devices).Error
	if err != nil {
		return nil, wrap("list devices", err)
	}
	return devices, nil
}

func (r *DeviceRepository) FindByID(ctx context.Context, id string) (*entity.Device, error) {
	var device entity.Device
	if err := r.db.WithContext(ctx).First(&device, "id = ?", id).Error; err != nil {
		return nil, wrap("find device", err)
	}
	return &device, nil
}

// FindByIDs loads the devices with the given ids keyed by id. Unknown ids are skipped.
func (r *DeviceRepository) FindByIDs(ctx context.Context, ids []string) (map[string]entity.Device, error) {
	out := make(map[string]entity.Device, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var devices []entity.Device
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&devices).Error; err != nil {
		return nil, wrap("find devices", err)
	}
	for _, d := range devices {
		out[d.ID] = d
	}
	return out, nil
}

func (r *DeviceRepository) Create(ctx context.Context, device *entity.Device) error {
	return wrap("create device", r.db.WithContext(ctx).Create(device).Error)
}

// Update writes every column except created_at. A row deleted since it was
// read is reported as ErrNotFound rather than recreated.
func (r *DeviceRepository) Update(ctx context.Context, device *entity.Device) error {
	res := r.db.WithContext(ctx).Model(device).Select("*").Omit("id", "created_at").Updates(device)
	if res.Error != nil {
		return wrap("update device", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the device and all of its IOs in one transaction.
func (r *DeviceRepository) Delete(ctx context.Context, id string) error {
	err := r.tx(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&entity.Device{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("device_id = ?", id).Delete(&entity.DeviceIO{}).Error
	})
	return wrap("delete device", err)
}
