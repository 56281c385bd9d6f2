package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	academicyeardomain "github.com/smallbiznis/scholara/internal/academicyear/domain"
	tenantdomain "github.com/smallbiznis/scholara/internal/tenant/domain"
	"gorm.io/gorm"
)

const (
	defaultTenantName = "Demo School"
	defaultYearName   = "2026-27"
)

// EnsureDefaultTenant seeds a tenant and its academic year for local
// development bootstrap. The academic year runs April through March.
func EnsureDefaultTenant(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant tenantdomain.Tenant
		err := tx.WithContext(ctx).
			Where("name = ?", defaultTenantName).
			First(&tenant).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			now := time.Now().UTC()
			tenant = tenantdomain.Tenant{
				ID:                   node.Generate(),
				Name:                 defaultTenantName,
				NotificationsEnabled: false,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
				return err
			}
		}

		var year academicyeardomain.AcademicYear
		err = tx.WithContext(ctx).
			Where("tenant_id = ? AND name = ?", tenant.ID, defaultYearName).
			First(&year).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		year = academicyeardomain.AcademicYear{
			ID:        node.Generate(),
			TenantID:  tenant.ID,
			Name:      defaultYearName,
			StartsOn:  time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
			EndsOn:    time.Date(2027, time.March, 31, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Now().UTC(),
		}
		return tx.WithContext(ctx).Create(&year).Error
	})
}
