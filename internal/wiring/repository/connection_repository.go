package repository

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"gorm.io/gorm"
)

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// List returns all connections, or only those of diagramID when it is not
// empty, in creation order.
func (r *ConnectionRepository) List(ctx context.Context, diagramID string) ([]entity.Connection, error) {
	connections := []entity.Connection{}
	query := r.db.WithContext(ctx)
	if diagramID != "" {
		query = query.Where("diagram_id = ?", diagramID)
	}
	if err := query.Order("created_at ASC").Order("id ASC").Find(&connections).Error; err != nil {
		return nil, wrap("list connections", err)
	}
	return connections, nil
}

func (r *ConnectionRepository) FindByID(ctx context.Context, id string) (*entity.Connection, error) {
	var conn entity.Connection
	if err := r.db.WithContext(ctx).First(&conn, "id = ?", id).Error; err != nil {
		return nil, wrap("find connection", err)
	}
	return &conn, nil
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *entity.Connection) error {
	return wrap("create connection", r.db.WithContext(ctx).Create(conn).Error)
}

func (r *ConnectionRepository) Update(ctx context.Context, conn *entity.Connection) error {
	res := r.db.WithContext(ctx).Model(conn).Select("*").Omit("id", "created_at").Updates(conn)
	if res.Error != nil {
		return wrap("update connection", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.Connection{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete connection", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
