package repository

import (
	"context"

	"github.com/devprbtt/wiringmaster/internal/database"
	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DiagramRepository struct {
	db *gorm.DB
	tx database.TransactionFunc
}

func NewDiagramRepository(db *gorm.DB, tx database.TransactionFunc) *DiagramRepository {
	return &DiagramRepository{db: db, tx: tx}
}

// List returns every diagram, most recently updated first.
func (r *DiagramRepository) List(ctx context.Context) ([]entity.Diagram, error) {
	diagrams := []entity.Diagram{}
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "updated_at"}, Desc: true}).
		Find(&diagrams).Error
	if err != nil {
		return nil, wrap("list diagrams", err)
	}
	return diagrams, nil
}

func (r *DiagramRepository) FindByID(ctx context.Context, id string) (*entity.Diagram, error) {
	var diagram entity.Diagram
	if err := r.db.WithContext(ctx).First(&diagram, "id = ?", id).Error; err != nil {
		return nil, wrap("find diagram", err)
	}
	return &diagram, nil
}

func (r *DiagramRepository) Create(ctx context.Context, diagram *entity.Diagram) error {
	return wrap("create diagram", r.db.WithContext(ctx).Create(diagram).Error)
}

func (r *DiagramRepository) Update(ctx context.Context, diagram *entity.Diagram) error {
	res := r.db.WithContext(ctx).Model(diagram).Select("*").Omit("id", "created_at").Updates(diagram)
	if res.Error != nil {
		return wrap("update diagram", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the diagram together with its placed devices and
// connections in one transaction.
func (r *DiagramRepository) Delete(ctx context.Context, id string) error {
	err := r.tx(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&entity.Diagram{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("diagram_id = ?", id).Delete(&entity.Connection{}).Error; err != nil {
			return err
		}
		return tx.Where("diagram_id = ?", id).Delete(&entity.DiagramDevice{}).Error
	})
	return wrap("delete diagram", err)
}
