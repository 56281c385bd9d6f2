package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/scholara/internal/cache"
	"github.com/smallbiznis/scholara/internal/feecatalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cache cache.Cache[string, *domain.FeeStructure]
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("feecatalog.service"),
		cache: cache.NewTTLCache[string, *domain.FeeStructure](),
	}
}

func (s *Service) FindForScope(ctx context.Context, tenantID, classID, academicYearID snowflake.ID) (*domain.FeeStructure, error) {
	key := scopeKey(tenantID, classID, academicYearID)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	var structure domain.FeeStructure
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("fee_catalog_entries.id") }).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB { return db.Order("discount_rules.id") }).
		Where("tenant_id = ? AND class_id = ? AND academic_year_id = ?", tenantID, classID, academicYearID).
		First(&structure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrFeeStructureNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, entry := range structure.Entries {
		if err := entry.Validate(); err != nil {
			s.log.Warn("invalid fee catalog entry",
				zap.String("entry_id", entry.ID.String()),
				zap.Error(err))
			return nil, err
		}
	}

	s.cache.Set(key, &structure, cacheTTL)
	return &structure, nil
}

func scopeKey(tenantID, classID, academicYearID snowflake.ID) string {
	return fmt.Sprintf("%d:%d:%d", tenantID, classID, academicYearID)
}
