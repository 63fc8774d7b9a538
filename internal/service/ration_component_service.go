package service

import (
	"context"
	"fmt"
	"time"

	"farmledger/internal/calc"
	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RationCostCache caches computed ration-table totals. A nil cache disables
// caching.
type RationCostCache interface {
	Get(ctx context.Context, tableID uuid.UUID) (calc.RationTotals, bool)
	Set(ctx context.Context, tableID uuid.UUID, t calc.RationTotals) error
	Invalidate(ctx context.Context, tableIDs ...uuid.UUID) error
}

func invalidateCost(ctx context.Context, cache RationCostCache, ids ...uuid.UUID) {
	if cache == nil || len(ids) == 0 {
		return
	}
	if err := cache.Invalidate(ctx, ids...); err != nil {
		log.Warn().Err(err).Int("tables", len(ids)).Msg("ration cost cache invalidation failed")
	}
}

// Tracked component fields, as written to ComponentChangeLog.FieldName.
const (
	fieldPrice     = "price"
	fieldDryMatter = "dry_matter"
	fieldCalorie   = "calorie"
	fieldStarch    = "starch"
	fieldDeletedAt = "deleted_at"
)

type RationComponentService interface {
	List(ctx context.Context, vis model.Visibility) ([]dto.RationComponentResponse, error)
	Get(ctx context.Context, id uuid.UUID, vis model.Visibility) (*dto.RationComponentResponse, error)
	Create(ctx context.Context, req dto.RationComponentRequest) (*dto.RationComponentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRationComponentRequest) (*dto.RationComponentResponse, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*dto.RationComponentResponse, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type rationComponentService struct {
	repo  repository.RationComponentRepository
	logs  repository.ChangeLogRepository
	cache RationCostCache
	now   func() time.Time
}

func NewRationComponentService(
	repo repository.RationComponentRepository,
	logs repository.ChangeLogRepository,
	cache RationCostCache,
) RationComponentService {
	return &rationComponentService{repo: repo, logs: logs, cache: cache, now: time.Now}
}

func (s *rationComponentService) List(ctx context.Context, vis model.Visibility) ([]dto.RationComponentResponse, error) {
	rows, err := s.repo.List(ctx, vis)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RationComponentResponse, len(rows))
	for i := range rows {
		out[i] = componentToResponse(&rows[i])
	}
	return out, nil
}

func (s *rationComponentService) Get(ctx context.Context, id uuid.UUID, vis model.Visibility) (*dto.RationComponentResponse, error) {
	c, err := s.repo.FindByID(ctx, id, vis)
	if err != nil {
		return nil, notFound(err, "ration component")
	}
	resp := componentToResponse(c)
	return &resp, nil
}

func (s *rationComponentService) Create(ctx context.Context, req dto.RationComponentRequest) (*dto.RationComponentResponse, error) {
	c := &model.RationComponent{
		Name:        req.Name,
		Description: req.Description,
		DryMatter:   req.DryMatter,
		Calorie:     req.Calorie,
		Starch:      req.Starch,
		Price:       req.Price,
		Status:      model.StatusActive,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, c); err != nil {
			return err
		}
		at := s.now()
		return s.logs.CreateComponentLogsTx(tx, []model.ComponentChangeLog{
			fieldLog(c.ID, fieldPrice, nil, strPtr(c.Price.String()), at),
			fieldLog(c.ID, fieldDryMatter, nil, strPtr(c.DryMatter.String()), at),
			fieldLog(c.ID, fieldCalorie, nil, strPtr(c.Calorie.String()), at),
			fieldLog(c.ID, fieldStarch, nil, strPtr(c.Starch.String()), at),
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("component", c.Name).Msg("ration component created")
	resp := componentToResponse(c)
	return &resp, nil
}

func (s *rationComponentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRationComponentRequest) (*dto.RationComponentResponse, error) {
	c, err := s.repo.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return nil, notFound(err, "ration component")
	}
	if c.IsDeleted() {
		return nil, fmt.Errorf("ration component is soft deleted, restore it first: %w", ErrInvalidState)
	}

	at := s.now()
	var changes []model.ComponentChangeLog
	track := func(field string, cur *decimal.Decimal, next *decimal.Decimal) {
		if next == nil || cur.Equal(*next) {
			return
		}
		changes = append(changes, fieldLog(c.ID, field, strPtr(cur.String()), strPtr(next.String()), at))
		*cur = *next
	}
	track(fieldPrice, &c.Price, req.Price)
	track(fieldDryMatter, &c.DryMatter, req.DryMatter)
	track(fieldCalorie, &c.Calorie, req.Calorie)
	track(fieldStarch, &c.Starch, req.Starch)
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, c); err != nil {
			return err
		}
		return s.logs.CreateComponentLogsTx(tx, changes)
	})
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		s.invalidateUsers(ctx, c.ID)
	}
	resp := componentToResponse(c)
	return &resp, nil
}

func (s *rationComponentService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return notFound(err, "ration component")
	}
	if c.IsDeleted() {
		return fmt.Errorf("ration component is already soft deleted: %w", ErrInvalidState)
	}
	at := s.now()
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SetStatusTx(tx, c.ID, model.StatusDeleted, at); err != nil {
			return err
		}
		return s.logs.CreateComponentLogsTx(tx, []model.ComponentChangeLog{
			fieldLog(c.ID, fieldDeletedAt, nil, strPtr(at.UTC().Format(time.RFC3339)), at),
		})
	})
	if err != nil {
		return err
	}
	s.invalidateUsers(ctx, c.ID)
	return nil
}

func (s *rationComponentService) Restore(ctx context.Context, id uuid.UUID) (*dto.RationComponentResponse, error) {
	c, err := s.repo.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return nil, notFound(err, "ration component")
	}
	if !c.IsDeleted() {
		return nil, fmt.Errorf("ration component is not deleted: %w", ErrInvalidState)
	}
	at := s.now()
	var old *string
	if c.DeletedAt != nil {
		old = strPtr(c.DeletedAt.UTC().Format(time.RFC3339))
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SetStatusTx(tx, c.ID, model.StatusActive, at); err != nil {
			return err
		}
		return s.logs.CreateComponentLogsTx(tx, []model.ComponentChangeLog{
			fieldLog(c.ID, fieldDeletedAt, old, nil, at),
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidateUsers(ctx, c.ID)
	c.Status, c.DeletedAt = model.StatusActive, nil
	resp := componentToResponse(c)
	return &resp, nil
}

func (s *rationComponentService) HardDelete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return notFound(err, "ration component")
	}
	if !c.IsDeleted() {
		return fmt.Errorf("ration component must be soft deleted before hard delete: %w", ErrInvalidState)
	}
	tables, err := s.repo.TableIDsUsing(ctx, c.ID)
	if err != nil {
		return err
	}
	if len(tables) > 0 {
		return fmt.Errorf("ration component is used by %d ration table(s): %w", len(tables), ErrConflict)
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.HardDeleteTx(tx, c.ID)
	})
	if err != nil {
		return notFound(err, "ration component")
	}
	log.Info().Str("component", c.Name).Msg("ration component hard deleted")
	return nil
}

func (s *rationComponentService) invalidateUsers(ctx context.Context, componentID uuid.UUID) {
	if s.cache == nil {
		return
	}
	ids, err := s.repo.TableIDsUsing(ctx, componentID)
	if err != nil {
		log.Warn().Err(err).Msg("ration tables using component not resolved")
		return
	}
	invalidateCost(ctx, s.cache, ids...)
}

func fieldLog(componentID uuid.UUID, field string, oldV, newV *string, at time.Time) model.ComponentChangeLog {
	return model.ComponentChangeLog{
		ComponentID: componentID,
		FieldName:   field,
		OldValue:    oldV,
		NewValue:    newV,
		ChangedAt:   at,
	}
}

func strPtr(s string) *string { return &s }

func componentToResponse(c *model.RationComponent) dto.RationComponentResponse {
	return dto.RationComponentResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		DryMatter:   c.DryMatter,
		Calorie:     c.Calorie,
		Starch:      c.Starch,
		Price:       c.Price,
		Status:      string(c.Status),
		DeletedAt:   c.DeletedAt,
	}
}
