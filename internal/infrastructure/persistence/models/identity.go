package models

import "github.com/solepos/backend/internal/domain/identity"

// AdminModel is the persistence model for the Admin domain entity.
type AdminModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}

// ToDomain converts the persistence model to a domain Admin entity.
func (m *AdminModel) ToDomain() *identity.Admin {
	return &identity.Admin{
		BaseEntity:   m.Entity(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
	}
}

// AdminModelFromDomain creates a new persistence model from a domain Admin entity.
func AdminModelFromDomain(a *identity.Admin) *AdminModel {
	m := &AdminModel{
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
	}
	m.BaseModel = baseModelOf(a.BaseEntity)
	return m
}
