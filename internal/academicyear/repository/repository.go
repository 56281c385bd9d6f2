package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/scholara/internal/academicyear/domain"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*domain.AcademicYear, error) {
	var year domain.AcademicYear
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&year).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAcademicYearNotFound
	}
	if err != nil {
		return nil, err
	}
	return &year, nil
}
