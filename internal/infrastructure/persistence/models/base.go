package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/shared"
)

// BaseModel holds the columns shared by every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func baseModelOf(e shared.BaseEntity) BaseModel {
	return BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// Entity returns the domain identity and timestamps
func (m BaseModel) Entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// All lists every model parents first, for AutoMigrate in tests
func All() []any {
	return []any{
		&AdminModel{},
		&BrandModel{},
		&CategoryModel{},
		&ProductModel{},
		&StockModel{},
		&BillModel{},
		&BillItemModel{},
	}
}
