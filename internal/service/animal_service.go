package service

import (
	"context"
	"errors"
	"fmt"

	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AnimalService interface {
	Create(ctx context.Context, req dto.AnimalRequest) (*dto.AnimalResponse, error)
	// CreateBulk creates every animal or none.
	CreateBulk(ctx context.Context, reqs []dto.AnimalRequest) ([]dto.AnimalResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AnimalResponse, error)
	List(ctx context.Context, filter dto.AnimalFilter) (*dto.AnimalListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.AnimalRequest) (*dto.AnimalResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// AssignBaseRation gives the base ration to every animal that has never
	// had a ration log and returns how many were assigned.
	AssignBaseRation(ctx context.Context) (int, error)
}

type animalService struct {
	animals   repository.AnimalRepository
	companies repository.CompanyRepository
	tables    repository.RationTableRepository
	logs      repository.RationLogRepository
}

func NewAnimalService(
	animals repository.AnimalRepository,
	companies repository.CompanyRepository,
	tables repository.RationTableRepository,
	logs repository.RationLogRepository,
) AnimalService {
	return &animalService{animals: animals, companies: companies, tables: tables, logs: logs}
}

func (s *animalService) Create(ctx context.Context, req dto.AnimalRequest) (*dto.AnimalResponse, error) {
	out, err := s.CreateBulk(ctx, []dto.AnimalRequest{req})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *animalService) CreateBulk(ctx context.Context, reqs []dto.AnimalRequest) ([]dto.AnimalResponse, error) {
	if len(reqs) == 0 {
		return nil, fieldError("animals", "at least one animal is required")
	}

	animals := make([]*model.Animal, len(reqs))
	seen := make(map[string]int, len(reqs))
	for i, req := range reqs {
		prefix := ""
		if len(reqs) > 1 {
			prefix = fmt.Sprintf("[%d].", i)
		}
		if j, dup := seen[req.Eartag]; dup {
			return nil, fieldError(prefix+"eartag", fmt.Sprintf("duplicates item %d", j))
		}
		seen[req.Eartag] = i

		a := &model.Animal{FeedCost: decimal.Zero, Cost: decimal.Zero}
		if err := s.apply(ctx, a, req, nil, prefix); err != nil {
			return nil, err
		}
		animals[i] = a
	}

	base, err := s.tables.FindByName(ctx, BaseRationName, model.VisibleActive)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Str("ration_table", BaseRationName).Msg("base ration missing; animals created without a ration log")
		base = nil
	} else if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.animals.DB(), func(tx *gorm.DB) error {
		for _, a := range animals {
			if err := s.animals.CreateTx(tx, a); err != nil {
				return err
			}
			if base == nil {
				continue
			}
			if err := s.logs.CreateTx(tx, &model.AnimalRationLog{
				AnimalID:      a.ID,
				RationTableID: base.ID,
				StartDate:     a.CreatedAt,
				IsActive:      true,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.AnimalResponse, len(animals))
	for i, a := range animals {
		out[i] = animalToResponse(a)
	}
	log.Info().Int("count", len(out)).Bool("base_ration", base != nil).Msg("animals created")
	return out, nil
}

// apply copies req onto a after validating the company and eartag.
func (s *animalService) apply(ctx context.Context, a *model.Animal, req dto.AnimalRequest, self *uuid.UUID, prefix string) error {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return fieldError(prefix+"company_id", "invalid id")
	}
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return notFound(err, "company")
	}
	exists, err := s.animals.EartagExists(ctx, req.Eartag, self)
	if err != nil {
		return err
	}
	if exists {
		return fieldError(prefix+"eartag", "an animal with this eartag already exists")
	}
	a.Eartag = req.Eartag
	a.CompanyID = companyID
	a.Race = req.Race
	a.Gender = req.Gender
	a.Room = req.Room
	if req.Cost != nil {
		a.Cost = *req.Cost
	}
	return nil
}

func (s *animalService) Get(ctx context.Context, id uuid.UUID) (*dto.AnimalResponse, error) {
	a, err := s.animals.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "animal")
	}
	resp := animalToResponse(a)
	return &resp, nil
}

func (s *animalService) List(ctx context.Context, filter dto.AnimalFilter) (*dto.AnimalListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.CompanyID != "" {
		if _, err := uuid.Parse(filter.CompanyID); err != nil {
			return nil, fieldError("company_id", "invalid id")
		}
	}
	rows, total, err := s.animals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AnimalResponse, len(rows))
	for i := range rows {
		data[i] = animalToResponse(&rows[i])
	}
	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.AnimalListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pages,
	}, nil
}

func (s *animalService) Update(ctx context.Context, id uuid.UUID, req dto.AnimalRequest) (*dto.AnimalResponse, error) {
	a, err := s.animals.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "animal")
	}
	if err := s.apply(ctx, a, req, &a.ID, ""); err != nil {
		return nil, err
	}
	if err := s.animals.Update(ctx, a); err != nil {
		return nil, err
	}
	// Re-read so feed_cost and is_slaughtered reflect concurrent writers.
	if fresh, err := s.animals.FindByID(ctx, id); err == nil {
		a = fresh
	}
	resp := animalToResponse(a)
	return &resp, nil
}

func (s *animalService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.animals.Delete(ctx, id), "animal")
}

func (s *animalService) AssignBaseRation(ctx context.Context) (int, error) {
	base, err := s.tables.FindByName(ctx, BaseRationName, model.VisibleActive)
	if err != nil {
		return 0, notFound(err, "base ration")
	}
	animals, err := s.animals.ListWithoutRationLog(ctx)
	if err != nil {
		return 0, err
	}
	assigned := 0
	for i := range animals {
		a := &animals[i]
		if a.IsSlaughtered {
			log.Info().Str("eartag", a.Eartag).Msg("slaughtered animal skipped")
			continue
		}
		err := runTx(ctx, s.logs.DB(), func(tx *gorm.DB) error {
			return s.logs.CreateTx(tx, &model.AnimalRationLog{
				AnimalID:      a.ID,
				RationTableID: base.ID,
				StartDate:     a.CreatedAt,
				IsActive:      true,
			})
		})
		if err != nil {
			return assigned, fmt.Errorf("assign base ration to %s: %w", a.Eartag, err)
		}
		assigned++
		log.Info().Str("eartag", a.Eartag).Msg("base ration assigned")
	}
	return assigned, nil
}

func animalToResponse(a *model.Animal) dto.AnimalResponse {
	return dto.AnimalResponse{
		ID:            a.ID.String(),
		Eartag:        a.Eartag,
		CompanyID:     a.CompanyID.String(),
		Race:          a.Race,
		Gender:        a.Gender,
		Room:          a.Room,
		Cost:          a.Cost,
		FeedCost:      a.FeedCost,
		IsSlaughtered: a.IsSlaughtered,
		CreatedAt:     a.CreatedAt,
	}
}
