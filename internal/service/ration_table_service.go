package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// BaseRationName is the ration table every new animal starts on.
const BaseRationName = "Base Ration"

type RationTableService interface {
	List(ctx context.Context, vis model.Visibility) ([]dto.RationTableResponse, error)
	Get(ctx context.Context, id uuid.UUID, vis model.Visibility) (*dto.RationTableResponse, error)
	Create(ctx context.Context, req dto.RationTableRequest) (*dto.RationTableResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.RationTableRequest) (*dto.RationTableResponse, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*dto.RationTableResponse, error)
	HardDelete(ctx context.Context, id uuid.UUID) error

	// Totals returns the aggregate cost and nutrients of an active table.
	Totals(ctx context.Context, id uuid.UUID) (calc.RationTotals, error)
	ComputeCost(ctx context.Context, id uuid.UUID) (*dto.RationCostResponse, error)
	// EnsureBaseRation creates (or restores) the table named BaseRationName.
	EnsureBaseRation(ctx context.Context) (*model.RationTable, error)

	ListComponents(ctx context.Context, filter dto.RationTableComponentFilter) ([]dto.RationTableComponentResponse, error)
	GetComponent(ctx context.Context, id uuid.UUID, vis model.Visibility) (*dto.RationTableComponentResponse, error)
	AddComponent(ctx context.Context, req dto.RationTableComponentRequest) (*dto.RationTableComponentResponse, error)
	UpdateComponent(ctx context.Context, id uuid.UUID, req dto.UpdateRationTableComponentRequest) (*dto.RationTableComponentResponse, error)
	SoftDeleteComponent(ctx context.Context, id uuid.UUID) error
	RestoreComponent(ctx context.Context, id uuid.UUID) (*dto.RationTableComponentResponse, error)
	HardDeleteComponent(ctx context.Context, id uuid.UUID) error
}

type rationTableService struct {
	tables     repository.RationTableRepository
	items      repository.RationTableComponentRepository
	components repository.RationComponentRepository
	logs       repository.ChangeLogRepository
	cache      RationCostCache
	now        func() time.Time
}

func NewRationTableService(
	tables repository.RationTableRepository,
	items repository.RationTableComponentRepository,
	components repository.RationComponentRepository,
	logs repository.ChangeLogRepository,
	cache RationCostCache,
) RationTableService {
	return &rationTableService{
		tables:     tables,
		items:      items,
		components: components,
		logs:       logs,
		cache:      cache,
		now:        time.Now,
	}
}

// ── Tables ───────────────────────────────────────────────────────────────────

func (s *rationTableService) List(ctx context.Context, vis model.Visibility) ([]dto.RationTableResponse, error) {
	rows, err := s.tables.List(ctx, vis)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RationTableResponse, len(rows))
	for i := range rows {
		out[i] = tableToResponse(&rows[i], vis)
	}
	return out, nil
}

func (s *rationTableService) Get(ctx context.Context, id uuid.UUID, vis model.Visibility) (*dto.RationTableResponse, error) {
	t, err := s.tables.FindByID(ctx, id, vis)
	if err != nil {
		return nil, notFound(err, "ration table")
	}
	resp := tableToResponse(t, vis)
	return &resp, nil
}

func (s *rationTableService) Create(ctx context.Context, req dto.RationTableRequest) (*dto.RationTableResponse, error) {
	t := &model.RationTable{Name: req.Name, Description: req.Description, Status: model.StatusActive}
	err := runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		if err := s.tables.CreateTx(tx, t); err != nil {
			return err
		}
		return s.tableLog(tx, t.ID, model.ActionCreated, fmt.Sprintf("ration table %q created", t.Name))
	})
	if err != nil {
		return nil, err
	}
	resp := tableToResponse(t, model.VisibleActive)
	return &resp, nil
}

func (s *rationTableService) Update(ctx context.Context, id uuid.UUID, req dto.RationTableRequest) (*dto.RationTableResponse, error) {
	t, err := s.tables.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return nil, notFound(err, "ration table")
	}
	if t.IsDeleted() {
		return nil, fmt.Errorf("ration table is soft deleted, restore it first: %w", ErrInvalidState)
	}

	var changed []string
	if t.Name != req.Name {
		changed = append(changed, fmt.Sprintf("name %q -> %q", t.Name, req.Name))
		t.Name = req.Name
	}
	if derefStr(t.Description) != derefStr(req.Description) {
		changed = append(changed, "description")
		t.Description = req.Description
	}
	if len(changed) == 0 {
		resp := tableToResponse(t, model.VisibleActive)
		return &resp, nil
	}

	err = runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		if err := s.tables.UpdateTx(tx, t); err != nil {
			return err
		}
		return s.tableLog(tx, t.ID, model.ActionUpdated, "changed "+strings.Join(changed, ", "))
	})
	if err != nil {
		return nil, err
	}
	resp := tableToResponse(t, model.VisibleActive)
	return &resp, nil
}

func (s *rationTableService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	t, err := s.tables.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return notFound(err, "ration table")
	}
	if t.IsDeleted() {
		return fmt.Errorf("ration table is already soft deleted: %w", ErrInvalidState)
	}
	err = runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		if err := s.tables.SetStatusTx(tx, t.ID, model.StatusDeleted, s.now()); err != nil {
			return err
		}
		return s.tableLog(tx, t.ID, model.ActionSoftDeleted, "")
	})
	if err != nil {
		return err
	}
	invalidateCost(ctx, s.cache, t.ID)
	return nil
}

func (s *rationTableService) Restore(ctx context.Context, id uuid.UUID) (*dto.RationTableResponse, error) {
	t, err := s.tables.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return nil, notFound(err, "ration table")
	}
	if !t.IsDeleted() {
		return nil, fmt.Errorf("ration table is not deleted: %w", ErrInvalidState)
	}
	err = runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		if err := s.tables.SetStatusTx(tx, t.ID, model.StatusActive, s.now()); err != nil {
			return err
		}
		return s.tableLog(tx, t.ID, model.ActionRestored, "")
	})
	if err != nil {
		return nil, err
	}
	invalidateCost(ctx, s.cache, t.ID)
	t.Status, t.DeletedAt = model.StatusActive, nil
	resp := tableToResponse(t, model.VisibleActive)
	return &resp, nil
}

func (s *rationTableService) HardDelete(ctx context.Context, id uuid.UUID) error {
	t, err := s.tables.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return notFound(err, "ration table")
	}
	if !t.IsDeleted() {
		return fmt.Errorf("ration table must be soft deleted before hard delete: %w", ErrInvalidState)
	}
	// Deleting would cascade into assignment logs and drop active ones.
	n, err := s.tables.CountRationLogs(ctx, t.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("ration table is referenced by %d ration log(s): %w", n, ErrConflict)
	}
	err = runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		return s.tables.HardDeleteTx(tx, t.ID)
	})
	if err != nil {
		return notFound(err, "ration table")
	}
	invalidateCost(ctx, s.cache, t.ID)
	log.Info().Str("ration_table", t.Name).Msg("ration table hard deleted")
	return nil
}

func (s *rationTableService) Totals(ctx context.Context, id uuid.UUID) (calc.RationTotals, error) {
	if s.cache != nil {
		if t, ok := s.cache.Get(ctx, id); ok {
			return t, nil
		}
	}
	table, err := s.tables.FindByID(ctx, id, model.VisibleActive)
	if err != nil {
		return calc.RationTotals{}, notFound(err, "ration table")
	}
	totals := calc.TableTotals(table)
	if s.cache != nil {
		if err := s.cache.Set(ctx, id, totals); err != nil {
			log.Warn().Err(err).Str("ration_table_id", id.String()).Msg("ration cost cache write failed")
		}
	}
	return totals, nil
}

func (s *rationTableService) ComputeCost(ctx context.Context, id uuid.UUID) (*dto.RationCostResponse, error) {
	t, err := s.Totals(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RationCostResponse{
		RationTableID: id.String(),
		Cost:          t.Cost,
		DryMatter:     t.DryMatter,
		Calories:      t.Calories,
		Starch:        t.Starch,
	}, nil
}

func (s *rationTableService) EnsureBaseRation(ctx context.Context) (*model.RationTable, error) {
	t, err := s.tables.FindByName(ctx, BaseRationName, model.VisibleAll)
	switch {
	case err == nil && !t.IsDeleted():
		return t, nil
	case err == nil:
		if _, err := s.Restore(ctx, t.ID); err != nil {
			return nil, err
		}
		log.Warn().Msg("base ration was soft deleted; restored")
		t.Status, t.DeletedAt = model.StatusActive, nil
		return t, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	desc := "Default ration assigned to new animals"
	if _, err := s.Create(ctx, dto.RationTableRequest{Name: BaseRationName, Description: &desc}); err != nil {
		return nil, err
	}
	log.Info().Msg("base ration created")
	return s.tables.FindByName(ctx, BaseRationName, model.VisibleActive)
}

func (s *rationTableService) tableLog(tx *gorm.DB, tableID uuid.UUID, action, description string) error {
	l := &model.RationTableLog{RationTableID: tableID, Action: action, ChangedAt: s.now()}
	if description != "" {
		l.Description = &description
	}
	return s.logs.CreateTableLogTx(tx, l)
}

// ── Table components ─────────────────────────────────────────────────────────

func (s *rationTableService) ListComponents(ctx context.Context, filter dto.RationTableComponentFilter) ([]dto.RationTableComponentResponse, error) {
	vis, ok := model.ParseVisibility(filter.Visibility)
	if !ok {
		return nil, fieldError("visibility", "must be active, deleted or all")
	}
	tableID, err := optionalUUID("ration_table_id", filter.RationTableID)
	if err != nil {
		return nil, err
	}
	rows, err := s.items.List(ctx, vis, tableID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RationTableComponentResponse, len(rows))
	for i := range rows {
		out[i] = tableComponentToResponse(&rows[i])
	}
	return out, nil
}

func (s *rationTableService) GetComponent(ctx context.Context, id uuid.UUID, vis model.Visibility) (*dto.RationTableComponentResponse, error) {
	tc, err := s.items.FindByID(ctx, id, vis)
	if err != nil {
		return nil, notFound(err, "ration table component")
	}
	resp := tableComponentToResponse(tc)
	return &resp, nil
}

func (s *rationTableService) AddComponent(ctx context.Context, req dto.RationTableComponentRequest) (*dto.RationTableComponentResponse, error) {
	tableID, err := uuid.Parse(req.RationTableID)
	if err != nil {
		return nil, fieldError("ration_table_id", "invalid id")
	}
	componentID, err := uuid.Parse(req.ComponentID)
	if err != nil {
		return nil, fieldError("component_id", "invalid id")
	}
	if _, err := s.tables.FindByID(ctx, tableID, model.VisibleActive); err != nil {
		return nil, notFound(err, "ration table")
	}
	comp, err := s.components.FindByID(ctx, componentID, model.VisibleActive)
	if err != nil {
		return nil, notFound(err, "ration component")
	}
	existing, err := s.items.FindByPair(ctx, tableID, componentID)
	if err == nil {
		if existing.IsDeleted() {
			return nil, fmt.Errorf("component is already in this table (soft deleted, restore %s): %w", existing.ID, ErrConflict)
		}
		return nil, fmt.Errorf("component is already in this table: %w", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tc := &model.RationTableComponent{
		RationTableID: tableID,
		ComponentID:   componentID,
		Quantity:      req.Quantity,
		Status:        model.StatusActive,
	}
	err = runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if err := s.items.CreateTx(tx, tc); err != nil {
			return err
		}
		return s.itemLog(tx, tc.ID, model.ActionCreated, decimal.NullDecimal{}, nullDec(tc.Quantity))
	})
	if err != nil {
		return nil, err
	}
	invalidateCost(ctx, s.cache, tableID)
	tc.Component = comp
	resp := tableComponentToResponse(tc)
	return &resp, nil
}

func (s *rationTableService) UpdateComponent(ctx context.Context, id uuid.UUID, req dto.UpdateRationTableComponentRequest) (*dto.RationTableComponentResponse, error) {
	tc, err := s.items.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return nil, notFound(err, "ration table component")
	}
	if tc.IsDeleted() {
		return nil, fmt.Errorf("ration table component is soft deleted, restore it first: %w", ErrInvalidState)
	}
	if tc.Quantity.Equal(req.Quantity) {
		resp := tableComponentToResponse(tc)
		return &resp, nil
	}
	old := tc.Quantity
	err = runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if err := s.items.UpdateQuantityTx(tx, tc.ID, req.Quantity); err != nil {
			return err
		}
		return s.itemLog(tx, tc.ID, model.ActionUpdated, nullDec(old), nullDec(req.Quantity))
	})
	if err != nil {
		return nil, err
	}
	invalidateCost(ctx, s.cache, tc.RationTableID)
	tc.Quantity = req.Quantity
	resp := tableComponentToResponse(tc)
	return &resp, nil
}

func (s *rationTableService) SoftDeleteComponent(ctx context.Context, id uuid.UUID) error {
	tc, err := s.items.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return notFound(err, "ration table component")
	}
	if tc.IsDeleted() {
		return fmt.Errorf("ration table component is already soft deleted: %w", ErrInvalidState)
	}
	err = runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if err := s.items.SetStatusTx(tx, tc.ID, model.StatusDeleted, s.now()); err != nil {
			return err
		}
		return s.itemLog(tx, tc.ID, model.ActionSoftDeleted, nullDec(tc.Quantity), decimal.NullDecimal{})
	})
	if err != nil {
		return err
	}
	invalidateCost(ctx, s.cache, tc.RationTableID)
	return nil
}

func (s *rationTableService) RestoreComponent(ctx context.Context, id uuid.UUID) (*dto.RationTableComponentResponse, error) {
	tc, err := s.items.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return nil, notFound(err, "ration table component")
	}
	if !tc.IsDeleted() {
		return nil, fmt.Errorf("ration table component is not deleted: %w", ErrInvalidState)
	}
	err = runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if err := s.items.SetStatusTx(tx, tc.ID, model.StatusActive, s.now()); err != nil {
			return err
		}
		return s.itemLog(tx, tc.ID, model.ActionRestored, decimal.NullDecimal{}, nullDec(tc.Quantity))
	})
	if err != nil {
		return nil, err
	}
	invalidateCost(ctx, s.cache, tc.RationTableID)
	tc.Status, tc.DeletedAt = model.StatusActive, nil
	resp := tableComponentToResponse(tc)
	return &resp, nil
}

func (s *rationTableService) HardDeleteComponent(ctx context.Context, id uuid.UUID) error {
	tc, err := s.items.FindByID(ctx, id, model.VisibleAll)
	if err != nil {
		return notFound(err, "ration table component")
	}
	if !tc.IsDeleted() {
		return fmt.Errorf("ration table component must be soft deleted before hard delete: %w", ErrInvalidState)
	}
	err = runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		return s.items.HardDeleteTx(tx, tc.ID)
	})
	if err != nil {
		return notFound(err, "ration table component")
	}
	invalidateCost(ctx, s.cache, tc.RationTableID)
	return nil
}

func (s *rationTableService) itemLog(tx *gorm.DB, id uuid.UUID, action string, oldQ, newQ decimal.NullDecimal) error {
	return s.logs.CreateTableComponentLogTx(tx, &model.RationTableComponentLog{
		TableComponentID: id,
		Action:           action,
		OldQuantity:      oldQ,
		NewQuantity:      newQ,
		ChangedAt:        s.now(),
	})
}

func nullDec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func tableToResponse(t *model.RationTable, vis model.Visibility) dto.RationTableResponse {
	resp := dto.RationTableResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		DeletedAt:   t.DeletedAt,
		Components:  []dto.RationTableComponentResponse{},
	}
	for i := range t.Components {
		if vis.Admits(t.Components[i].Status) {
			resp.Components = append(resp.Components, tableComponentToResponse(&t.Components[i]))
		}
	}
	return resp
}

func tableComponentToResponse(tc *model.RationTableComponent) dto.RationTableComponentResponse {
	resp := dto.RationTableComponentResponse{
		ID:            tc.ID.String(),
		RationTableID: tc.RationTableID.String(),
		ComponentID:   tc.ComponentID.String(),
		Quantity:      tc.Quantity,
		Status:        string(tc.Status),
		DeletedAt:     tc.DeletedAt,
	}
	if tc.Component != nil {
		resp.ComponentName = tc.Component.Name
	}
	return resp
}
