package service

import (
	"context"
	"encoding/json"
	"strconv"

	"ecr/internal/models"
	"ecr/internal/repository"
	"ecr/pkg/logger"
)

type AuditEntry struct {
	UserID     uint
	Action     string
	Resource   string
	ResourceID uint
	IP         string
	UserAgent  string
	Metadata   map[string]interface{}
}

type AuditService struct {
	repo *repository.AuditLogRepository
}

func NewAuditService(repo *repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record never fails the caller; a lost audit row is logged.
func (s *AuditService) Record(ctx context.Context, e AuditEntry) {
	if s == nil || s.repo == nil {
		return
	}
	row := &models.AuditLog{
		Action:    e.Action,
		Resource:  e.Resource,
		IP:        e.IP,
		UserAgent: e.UserAgent,
	}
	if e.UserID != 0 {
		uid := e.UserID
		row.UserID = &uid
	}
	if e.ResourceID != 0 {
		row.ResourceID = strconv.FormatUint(uint64(e.ResourceID), 10)
	}
	if e.Metadata != nil {
		b, _ := json.Marshal(e.Metadata)
		row.Metadata = string(b)
	}
	if err := s.repo.Create(ctx, row); err != nil {
		logger.Warn(ctx).Err(err).Str("action", e.Action).Msg("audit log write failed")
	}
}
