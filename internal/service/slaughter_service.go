package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"farmledger/internal/calc"
	"farmledger/internal/dto"
	"farmledger/internal/infra"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SlaughterService interface {
	Create(ctx context.Context, req dto.SlaughterRequest) (*dto.SlaughterResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SlaughterResponse, error)
	List(ctx context.Context) ([]dto.SlaughterResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SlaughterRequest) (*dto.SlaughterResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Profit(ctx context.Context, id uuid.UUID) (*dto.ProfitResponse, error)
	TotalProfit(ctx context.Context) (*dto.TotalProfitResponse, error)
	// WriteStatement renders the slaughter statement PDF into w.
	WriteStatement(ctx context.Context, id uuid.UUID, w io.Writer) error
}

type slaughterService struct {
	slaughters repository.SlaughterRepository
	animals    repository.AnimalRepository
	companies  repository.CompanyRepository
	logs       repository.RationLogRepository
}

func NewSlaughterService(
	slaughters repository.SlaughterRepository,
	animals repository.AnimalRepository,
	companies repository.CompanyRepository,
	logs repository.RationLogRepository,
) SlaughterService {
	return &slaughterService{slaughters: slaughters, animals: animals, companies: companies, logs: logs}
}

// Create records the slaughter, flags the animal and closes its active ration
// log at the slaughter date, all in one transaction.
func (s *slaughterService) Create(ctx context.Context, req dto.SlaughterRequest) (*dto.SlaughterResponse, error) {
	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		return nil, fieldError("animal_id", "invalid id")
	}
	day, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return nil, fieldError("date", "expected YYYY-MM-DD")
	}
	if _, err := s.animals.FindByID(ctx, animalID); err != nil {
		return nil, notFound(err, "animal")
	}

	sl := &model.Slaughter{
		AnimalID:      animalID,
		Date:          datatypes.Date(day),
		CarcassWeight: req.CarcassWeight,
		SalePrice:     req.SalePrice,
		KDV:           req.KDV,
	}
	var animal *model.Animal
	err = runTx(ctx, s.slaughters.DB(), func(tx *gorm.DB) error {
		a, err := s.animals.LockTx(tx, animalID)
		if err != nil {
			return notFound(err, "animal")
		}
		animal = a
		exists, err := s.slaughters.ExistsForAnimalTx(tx, animalID, nil)
		if err != nil {
			return err
		}
		if exists || a.IsSlaughtered {
			return fmt.Errorf("animal %s is already slaughtered: %w", a.Eartag, ErrConflict)
		}
		if err := s.slaughters.CreateTx(tx, sl); err != nil {
			return err
		}
		if err := s.animals.SetSlaughteredTx(tx, animalID, true); err != nil {
			return err
		}
		closed, err := s.logs.DeactivateActiveTx(tx, animalID, nil, day)
		if err != nil {
			return err
		}
		if closed > 0 {
			log.Info().Str("eartag", a.Eartag).Msg("active ration log closed by slaughter")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sl.Animal = animal
	log.Info().Str("eartag", animal.Eartag).Str("date", req.Date).Msg("animal slaughtered")
	resp := slaughterToResponse(sl)
	return &resp, nil
}

func (s *slaughterService) Get(ctx context.Context, id uuid.UUID) (*dto.SlaughterResponse, error) {
	sl, err := s.slaughters.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "slaughter")
	}
	resp := slaughterToResponse(sl)
	return &resp, nil
}

func (s *slaughterService) List(ctx context.Context) ([]dto.SlaughterResponse, error) {
	rows, err := s.slaughters.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SlaughterResponse, len(rows))
	for i := range rows {
		out[i] = slaughterToResponse(&rows[i])
	}
	return out, nil
}

func (s *slaughterService) Update(ctx context.Context, id uuid.UUID, req dto.SlaughterRequest) (*dto.SlaughterResponse, error) {
	sl, err := s.slaughters.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "slaughter")
	}
	if req.AnimalID != sl.AnimalID.String() {
		return nil, fieldError("animal_id", "the animal of a slaughter cannot change")
	}
	day, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return nil, fieldError("date", "expected YYYY-MM-DD")
	}
	sl.Date = datatypes.Date(day)
	sl.CarcassWeight = req.CarcassWeight
	sl.SalePrice = req.SalePrice
	sl.KDV = req.KDV
	err = runTx(ctx, s.slaughters.DB(), func(tx *gorm.DB) error {
		return s.slaughters.UpdateTx(tx, sl)
	})
	if err != nil {
		return nil, err
	}
	resp := slaughterToResponse(sl)
	return &resp, nil
}

// Delete removes the slaughter and clears the animal's slaughtered flag. The
// ration log closed at slaughter stays closed.
func (s *slaughterService) Delete(ctx context.Context, id uuid.UUID) error {
	sl, err := s.slaughters.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "slaughter")
	}
	return runTx(ctx, s.slaughters.DB(), func(tx *gorm.DB) error {
		if err := s.slaughters.DeleteTx(tx, sl.ID); err != nil {
			return notFound(err, "slaughter")
		}
		return s.animals.SetSlaughteredTx(tx, sl.AnimalID, false)
	})
}

// ── Profit ───────────────────────────────────────────────────────────────────

func (s *slaughterService) breakdown(ctx context.Context, sl *model.Slaughter) (*model.Animal, calc.ProfitBreakdown, error) {
	a := sl.Animal
	if a == nil {
		var err error
		if a, err = s.animals.FindByID(ctx, sl.AnimalID); err != nil {
			return nil, calc.ProfitBreakdown{}, notFound(err, "animal")
		}
	}
	return a, calc.Profit(calc.ProfitInput{
		SalePrice:     sl.SalePrice,
		CarcassWeight: sl.CarcassWeight,
		KDV:           sl.KDV,
		AnimalCost:    a.Cost,
		FeedCost:      a.FeedCost,
	}), nil
}

func (s *slaughterService) Profit(ctx context.Context, id uuid.UUID) (*dto.ProfitResponse, error) {
	sl, err := s.slaughters.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "slaughter")
	}
	a, p, err := s.breakdown(ctx, sl)
	if err != nil {
		return nil, err
	}
	return &dto.ProfitResponse{
		SlaughterID: sl.ID.String(),
		AnimalID:    a.ID.String(),
		Eartag:      a.Eartag,
		Revenue:     p.Revenue,
		AnimalCost:  a.Cost,
		FeedCost:    a.FeedCost,
		Tax:         p.Tax,
		TotalCost:   p.TotalCost,
		Profit:      p.Profit,
	}, nil
}

func (s *slaughterService) TotalProfit(ctx context.Context) (*dto.TotalProfitResponse, error) {
	rows, err := s.slaughters.List(ctx)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for i := range rows {
		_, p, err := s.breakdown(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		total = total.Add(p.Profit)
	}
	return &dto.TotalProfitResponse{Count: len(rows), TotalProfit: total}, nil
}

func (s *slaughterService) WriteStatement(ctx context.Context, id uuid.UUID, w io.Writer) error {
	sl, err := s.slaughters.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "slaughter")
	}
	a, p, err := s.breakdown(ctx, sl)
	if err != nil {
		return err
	}
	st := infra.SlaughterStatement{
		Eartag:        a.Eartag,
		Date:          time.Time(sl.Date),
		CarcassWeight: sl.CarcassWeight,
		SalePrice:     sl.SalePrice,
		KDV:           sl.KDV,
		Revenue:       p.Revenue,
		AnimalCost:    a.Cost,
		FeedCost:      a.FeedCost,
		Tax:           p.Tax,
		TotalCost:     p.TotalCost,
		Profit:        p.Profit,
	}
	if c, err := s.companies.FindByID(ctx, a.CompanyID); err == nil {
		st.CompanyName = c.Name
	}
	return infra.WriteSlaughterStatementPDF(w, st)
}

func slaughterToResponse(sl *model.Slaughter) dto.SlaughterResponse {
	resp := dto.SlaughterResponse{
		ID:            sl.ID.String(),
		AnimalID:      sl.AnimalID.String(),
		Date:          time.Time(sl.Date).Format(dto.DateLayout),
		CarcassWeight: sl.CarcassWeight,
		SalePrice:     sl.SalePrice,
		KDV:           sl.KDV,
	}
	if sl.Animal != nil {
		resp.Eartag = sl.Animal.Eartag
	}
	return resp
}
