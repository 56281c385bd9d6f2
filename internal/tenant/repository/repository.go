package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/scholara/internal/tenant/domain"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}
