package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RationLogService owns the ration assignment state machine: an animal has at
// most one active log, activating a log closes the previous one at the new
// start date, and deleting the active log reopens the most recently closed
// one. Every transition runs in one transaction holding a row lock on the
// animal.
type RationLogService interface {
	Create(ctx context.Context, req dto.AnimalRationLogRequest) (*dto.AnimalRationLogResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AnimalRationLogResponse, error)
	List(ctx context.Context, filter dto.AnimalRationLogFilter) ([]dto.AnimalRationLogResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.AnimalRationLogRequest) (*dto.AnimalRationLogResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID, req dto.DeactivateRationLogRequest) (*dto.AnimalRationLogResponse, error)
}

type rationLogService struct {
	logs    repository.RationLogRepository
	animals repository.AnimalRepository
	tables  repository.RationTableRepository
	now     func() time.Time
}

func NewRationLogService(
	logs repository.RationLogRepository,
	animals repository.AnimalRepository,
	tables repository.RationTableRepository,
) RationLogService {
	return &rationLogService{logs: logs, animals: animals, tables: tables, now: time.Now}
}

func (s *rationLogService) resolve(ctx context.Context, req dto.AnimalRationLogRequest) (*model.Animal, *model.RationTable, error) {
	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		return nil, nil, fieldError("animal_id", "invalid id")
	}
	tableID, err := uuid.Parse(req.RationTableID)
	if err != nil {
		return nil, nil, fieldError("ration_table_id", "invalid id")
	}
	animal, err := s.animals.FindByID(ctx, animalID)
	if err != nil {
		return nil, nil, notFound(err, "animal")
	}
	table, err := s.tables.FindByID(ctx, tableID, model.VisibleActive)
	if err != nil {
		return nil, nil, notFound(err, "ration table")
	}
	return animal, table, nil
}

func (s *rationLogService) Create(ctx context.Context, req dto.AnimalRationLogRequest) (*dto.AnimalRationLogResponse, error) {
	animal, table, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	l := &model.AnimalRationLog{
		AnimalID:      animal.ID,
		RationTableID: table.ID,
		StartDate:     s.now(),
		EndDate:       req.EndDate,
		IsActive:      true,
	}
	if req.StartDate != nil {
		l.StartDate = *req.StartDate
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if err := validateLogDates(l); err != nil {
		return nil, err
	}
	if l.IsActive {
		l.EndDate = nil
	}

	err = runTx(ctx, s.logs.DB(), func(tx *gorm.DB) error {
		locked, err := s.animals.LockTx(tx, animal.ID)
		if err != nil {
			return notFound(err, "animal")
		}
		if l.IsActive {
			if locked.IsSlaughtered {
				return fmt.Errorf("animal %s is slaughtered and cannot receive an active ration: %w", locked.Eartag, ErrInvalidState)
			}
			if _, err := s.logs.DeactivateActiveTx(tx, animal.ID, nil, l.StartDate); err != nil {
				return err
			}
		}
		return s.logs.CreateTx(tx, l)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("eartag", animal.Eartag).Str("ration_table", table.Name).Bool("active", l.IsActive).Msg("ration log created")
	l.Animal, l.RationTable = animal, table
	resp := rationLogToResponse(l)
	return &resp, nil
}

func (s *rationLogService) Get(ctx context.Context, id uuid.UUID) (*dto.AnimalRationLogResponse, error) {
	l, err := s.logs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "ration log")
	}
	resp := rationLogToResponse(l)
	return &resp, nil
}

func (s *rationLogService) List(ctx context.Context, filter dto.AnimalRationLogFilter) ([]dto.AnimalRationLogResponse, error) {
	var f repository.RationLogFilter
	var err error
	if f.AnimalID, err = optionalUUID("animal", filter.AnimalID); err != nil {
		return nil, err
	}
	if f.RationTableID, err = optionalUUID("ration_table", filter.RationTableID); err != nil {
		return nil, err
	}
	switch filter.Active {
	case "true", "1":
		t := true
		f.Active = &t
	case "false", "0":
		v := false
		f.Active = &v
	}
	rows, err := s.logs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnimalRationLogResponse, len(rows))
	for i := range rows {
		out[i] = rationLogToResponse(&rows[i])
	}
	return out, nil
}

func (s *rationLogService) Update(ctx context.Context, id uuid.UUID, req dto.AnimalRationLogRequest) (*dto.AnimalRationLogResponse, error) {
	l, err := s.logs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "ration log")
	}
	animal, table, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	if animal.ID != l.AnimalID {
		return nil, fieldError("animal_id", "the animal of a ration log cannot change")
	}

	l.RationTableID = table.ID
	if req.StartDate != nil {
		l.StartDate = *req.StartDate
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	l.EndDate = req.EndDate
	if l.IsActive {
		l.EndDate = nil
	} else if l.EndDate == nil {
		now := s.now()
		l.EndDate = &now
	}
	if err := validateLogDates(l); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.logs.DB(), func(tx *gorm.DB) error {
		locked, err := s.animals.LockTx(tx, animal.ID)
		if err != nil {
			return notFound(err, "animal")
		}
		if l.IsActive {
			if locked.IsSlaughtered {
				return fmt.Errorf("animal %s is slaughtered and cannot receive an active ration: %w", locked.Eartag, ErrInvalidState)
			}
			if _, err := s.logs.DeactivateActiveTx(tx, animal.ID, &l.ID, l.StartDate); err != nil {
				return err
			}
		}
		return s.logs.UpdateTx(tx, l)
	})
	if err != nil {
		return nil, err
	}
	l.Animal, l.RationTable = animal, table
	resp := rationLogToResponse(l)
	return &resp, nil
}

func (s *rationLogService) Delete(ctx context.Context, id uuid.UUID) error {
	l, err := s.logs.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "ration log")
	}

	return runTx(ctx, s.logs.DB(), func(tx *gorm.DB) error {
		locked, err := s.animals.LockTx(tx, l.AnimalID)
		if err != nil {
			return notFound(err, "animal")
		}
		if err := s.logs.DeleteTx(tx, l.ID); err != nil {
			return notFound(err, "ration log")
		}
		if !l.IsActive || locked.IsSlaughtered {
			return nil
		}
		prev, err := s.logs.FindLatestInactiveTx(tx, l.AnimalID, l.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Str("eartag", locked.Eartag).Str("log_id", prev.ID.String()).Msg("previous ration log reactivated")
		return s.logs.ReactivateTx(tx, prev.ID)
	})
}

func (s *rationLogService) Deactivate(ctx context.Context, id uuid.UUID, req dto.DeactivateRationLogRequest) (*dto.AnimalRationLogResponse, error) {
	l, err := s.logs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "ration log")
	}
	if !l.IsActive {
		return nil, fmt.Errorf("ration log is already inactive: %w", ErrInvalidState)
	}
	end := s.now()
	if req.EndDate != nil {
		end = *req.EndDate
	}
	l.IsActive = false
	l.EndDate = &end
	if err := validateLogDates(l); err != nil {
		return nil, err
	}
	err = runTx(ctx, s.logs.DB(), func(tx *gorm.DB) error {
		if _, err := s.animals.LockTx(tx, l.AnimalID); err != nil {
			return notFound(err, "animal")
		}
		return s.logs.UpdateTx(tx, l)
	})
	if err != nil {
		return nil, err
	}
	resp := rationLogToResponse(l)
	return &resp, nil
}

func validateLogDates(l *model.AnimalRationLog) error {
	if l.EndDate != nil && l.EndDate.Before(l.StartDate) {
		return fieldError("end_date", "end date is before start date")
	}
	return nil
}

func rationLogToResponse(l *model.AnimalRationLog) dto.AnimalRationLogResponse {
	resp := dto.AnimalRationLogResponse{
		ID:            l.ID.String(),
		AnimalID:      l.AnimalID.String(),
		RationTableID: l.RationTableID.String(),
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		IsActive:      l.IsActive,
	}
	if l.Animal != nil {
		resp.Eartag = l.Animal.Eartag
	}
	if l.RationTable != nil {
		resp.RationTableName = l.RationTable.Name
	}
	return resp
}
