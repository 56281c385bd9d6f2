package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/scholara/internal/student/domain"
	"gorm.io/gorm"
)

type Directory struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Directory {
	return &Directory{db: db}
}

func (d *Directory) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*domain.Student, error) {
	var student domain.Student
	err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (d *Directory) ListByClass(ctx context.Context, tenantID, classID snowflake.ID) ([]domain.Student, error) {
	var students []domain.Student
	err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND class_id = ?", tenantID, classID).
		Order("id").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}
