package service

import (
	"context"

	"farmledger/internal/dto"
	"farmledger/internal/repository"

	"github.com/google/uuid"
)

// ChangeLogService exposes the ration audit trail read-only.
type ChangeLogService interface {
	ComponentLogs(ctx context.Context, componentID *uuid.UUID) ([]dto.ComponentChangeLogResponse, error)
	TableLogs(ctx context.Context, tableID *uuid.UUID) ([]dto.RationTableLogResponse, error)
	TableComponentLogs(ctx context.Context, tableComponentID, tableID *uuid.UUID) ([]dto.RationTableComponentLogResponse, error)
}

type changeLogService struct{ repo repository.ChangeLogRepository }

func NewChangeLogService(repo repository.ChangeLogRepository) ChangeLogService {
	return &changeLogService{repo: repo}
}

func (s *changeLogService) ComponentLogs(ctx context.Context, componentID *uuid.UUID) ([]dto.ComponentChangeLogResponse, error) {
	rows, err := s.repo.ListComponentLogs(ctx, componentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ComponentChangeLogResponse, len(rows))
	for i, l := range rows {
		out[i] = dto.ComponentChangeLogResponse{
			ID:          l.ID.String(),
			ComponentID: l.ComponentID.String(),
			FieldName:   l.FieldName,
			OldValue:    l.OldValue,
			NewValue:    l.NewValue,
			ChangedAt:   l.ChangedAt,
		}
	}
	return out, nil
}

func (s *changeLogService) TableLogs(ctx context.Context, tableID *uuid.UUID) ([]dto.RationTableLogResponse, error) {
	rows, err := s.repo.ListTableLogs(ctx, tableID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RationTableLogResponse, len(rows))
	for i, l := range rows {
		out[i] = dto.RationTableLogResponse{
			ID:            l.ID.String(),
			RationTableID: l.RationTableID.String(),
			Action:        l.Action,
			Description:   l.Description,
			ChangedAt:     l.ChangedAt,
		}
	}
	return out, nil
}

func (s *changeLogService) TableComponentLogs(ctx context.Context, tableComponentID, tableID *uuid.UUID) ([]dto.RationTableComponentLogResponse, error) {
	rows, err := s.repo.ListTableComponentLogs(ctx, tableComponentID, tableID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RationTableComponentLogResponse, len(rows))
	for i, l := range rows {
		out[i] = dto.RationTableComponentLogResponse{
			ID:               l.ID.String(),
			TableComponentID: l.TableComponentID.String(),
			Action:           l.Action,
			OldQuantity:      l.OldQuantity,
			NewQuantity:      l.NewQuantity,
			ChangedAt:        l.ChangedAt,
		}
	}
	return out, nil
}
