package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/scholara/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
	}
}

func (s *Service) AuditLog(ctx context.Context, tenantID *snowflake.ID, actorID string, action, targetType string, targetID *string, metadata map[string]any) error {
	actorType := domain.ActorTypeSystem
	var actorIDValue *string
	if trimmed := strings.TrimSpace(actorID); trimmed != "" {
		actorType = domain.ActorTypeUser
		actorIDValue = &trimmed
	}

	payload := datatypes.JSONMap{}
	for key, value := range metadata {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	entry := domain.AuditLog{
		ID:         s.genID.Generate(),
		TenantID:   tenantID,
		ActorType:  string(actorType),
		ActorID:    actorIDValue,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   payload,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}
