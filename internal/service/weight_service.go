package service

import (
	"context"
	"errors"
	"time"

	"farmledger/internal/calc"
	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WeightService records weighings and derives daily gain from them.
type WeightService interface {
	Create(ctx context.Context, req dto.WeightRequest) (*dto.WeightResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.WeightResponse, error)
	List(ctx context.Context, filter dto.WeightFilter) ([]dto.WeightResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.WeightRequest) (*dto.WeightResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	DailyGain(ctx context.Context, animalID uuid.UUID) (*dto.DailyGainResponse, error)
	AllGain(ctx context.Context, animalID uuid.UUID) (*dto.GainHistoryResponse, error)
	GroupDailyGain(ctx context.Context, groupID uuid.UUID) (*dto.GroupGainResponse, error)
	GroupAllGain(ctx context.Context, groupID uuid.UUID) (*dto.GroupGainResponse, error)
}

type weightService struct {
	weights repository.WeightRepository
	animals repository.AnimalRepository
	groups  repository.GroupRepository
	members repository.MembershipRepository
	now     func() time.Time
}

func NewWeightService(
	weights repository.WeightRepository,
	animals repository.AnimalRepository,
	groups repository.GroupRepository,
	members repository.MembershipRepository,
) WeightService {
	return &weightService{weights: weights, animals: animals, groups: groups, members: members, now: time.Now}
}

func (s *weightService) validate(ctx context.Context, req dto.WeightRequest, self *uuid.UUID) (uuid.UUID, time.Time, error) {
	fe := &FieldErrors{Fields: map[string]string{}}
	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		fe.Fields["animal_id"] = "invalid id"
	}
	if !req.Weight.IsPositive() {
		fe.Fields["weight"] = "weight must be greater than zero"
	}
	day, err := time.Parse(dto.DateLayout, req.RecordedAt)
	if err != nil {
		fe.Fields["recorded_at"] = "expected YYYY-MM-DD"
	} else if calc.DaysBetween(s.now(), day) > 0 {
		fe.Fields["recorded_at"] = "date cannot be in the future"
	}
	if len(fe.Fields) > 0 {
		return uuid.Nil, time.Time{}, fe
	}

	if _, err := s.animals.FindByID(ctx, animalID); err != nil {
		return uuid.Nil, time.Time{}, notFound(err, "animal")
	}
	exists, err := s.weights.ExistsOnDate(ctx, animalID, day, self)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	if exists {
		return uuid.Nil, time.Time{}, fieldError("recorded_at", "a weight is already recorded for this animal on this date")
	}
	return animalID, day, nil
}

func (s *weightService) Create(ctx context.Context, req dto.WeightRequest) (*dto.WeightResponse, error) {
	animalID, day, err := s.validate(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	w := &model.Weight{AnimalID: animalID, Weight: req.Weight, RecordedAt: datatypes.Date(day)}
	if err := s.weights.Create(ctx, w); err != nil {
		return nil, err
	}
	resp := weightToResponse(w)
	return &resp, nil
}

func (s *weightService) Get(ctx context.Context, id uuid.UUID) (*dto.WeightResponse, error) {
	w, err := s.weights.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "weight")
	}
	resp := weightToResponse(w)
	return &resp, nil
}

func (s *weightService) List(ctx context.Context, filter dto.WeightFilter) ([]dto.WeightResponse, error) {
	animalID, err := optionalUUID("animal_id", filter.AnimalID)
	if err != nil {
		return nil, err
	}
	rows, err := s.weights.List(ctx, animalID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WeightResponse, len(rows))
	for i := range rows {
		out[i] = weightToResponse(&rows[i])
	}
	return out, nil
}

func (s *weightService) Update(ctx context.Context, id uuid.UUID, req dto.WeightRequest) (*dto.WeightResponse, error) {
	w, err := s.weights.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "weight")
	}
	animalID, day, err := s.validate(ctx, req, &w.ID)
	if err != nil {
		return nil, err
	}
	w.AnimalID = animalID
	w.Weight = req.Weight
	w.RecordedAt = datatypes.Date(day)
	if err := s.weights.Update(ctx, w); err != nil {
		return nil, err
	}
	resp := weightToResponse(w)
	return &resp, nil
}

func (s *weightService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.weights.Delete(ctx, id), "weight")
}

// ── Gain read-models ─────────────────────────────────────────────────────────

func (s *weightService) DailyGain(ctx context.Context, animalID uuid.UUID) (*dto.DailyGainResponse, error) {
	a, err := s.animals.FindByID(ctx, animalID)
	if err != nil {
		return nil, notFound(err, "animal")
	}
	step, err := s.latestGain(ctx, a.ID)
	if err != nil {
		return nil, gainError(err)
	}
	return &dto.DailyGainResponse{AnimalID: a.ID.String(), Eartag: a.Eartag, GainStepResponse: gainStepToResponse(step)}, nil
}

func (s *weightService) AllGain(ctx context.Context, animalID uuid.UUID) (*dto.GainHistoryResponse, error) {
	a, err := s.animals.FindByID(ctx, animalID)
	if err != nil {
		return nil, notFound(err, "animal")
	}
	steps, err := s.history(ctx, a.ID)
	if err != nil {
		return nil, gainError(err)
	}
	return &dto.GainHistoryResponse{AnimalID: a.ID.String(), Eartag: a.Eartag, GainHistory: steps}, nil
}

func (s *weightService) GroupDailyGain(ctx context.Context, groupID uuid.UUID) (*dto.GroupGainResponse, error) {
	return s.forGroup(ctx, groupID, func(a *model.Animal, r *dto.GroupGainResult) error {
		step, err := s.latestGain(ctx, a.ID)
		if err != nil {
			return err
		}
		resp := gainStepToResponse(step)
		r.DailyGain = &resp
		return nil
	})
}

func (s *weightService) GroupAllGain(ctx context.Context, groupID uuid.UUID) (*dto.GroupGainResponse, error) {
	return s.forGroup(ctx, groupID, func(a *model.Animal, r *dto.GroupGainResult) error {
		steps, err := s.history(ctx, a.ID)
		if err != nil {
			return err
		}
		r.GainHistory = steps
		return nil
	})
}

// forGroup runs fn for every member. Data errors are reported per member;
// anything else aborts the request.
func (s *weightService) forGroup(ctx context.Context, groupID uuid.UUID, fn func(*model.Animal, *dto.GroupGainResult) error) (*dto.GroupGainResponse, error) {
	g, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	ids, err := s.members.MemberIDs(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	animals, err := s.animals.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Animal, len(animals))
	for i := range animals {
		byID[animals[i].ID] = &animals[i]
	}

	resp := &dto.GroupGainResponse{GroupID: g.ID.String(), GroupName: g.Name, Results: []dto.GroupGainResult{}}
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			continue
		}
		r := dto.GroupGainResult{AnimalID: a.ID.String(), Eartag: a.Eartag}
		if err := fn(a, &r); err != nil {
			if !isGainDataError(err) {
				return nil, err
			}
			r.Error = err.Error()
		}
		resp.Results = append(resp.Results, r)
	}
	return resp, nil
}

func (s *weightService) latestGain(ctx context.Context, animalID uuid.UUID) (calc.GainStep, error) {
	rows, err := s.weights.History(ctx, animalID)
	if err != nil {
		return calc.GainStep{}, err
	}
	points := make([]calc.WeightPoint, len(rows))
	for i := range rows {
		points[len(rows)-1-i] = weightPoint(&rows[i])
	}
	return calc.LatestGain(points)
}

func (s *weightService) history(ctx context.Context, animalID uuid.UUID) ([]dto.GainStepResponse, error) {
	rows, err := s.weights.History(ctx, animalID)
	if err != nil {
		return nil, err
	}
	points := make([]calc.WeightPoint, len(rows))
	for i := range rows {
		points[i] = weightPoint(&rows[i])
	}
	steps, err := calc.GainHistory(points)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GainStepResponse, len(steps))
	for i, st := range steps {
		out[i] = gainStepToResponse(st)
	}
	return out, nil
}

func isGainDataError(err error) bool {
	return errors.Is(err, calc.ErrNotEnoughWeights) || errors.Is(err, calc.ErrSameDay)
}

// gainError turns missing or degenerate weighings into a field error.
func gainError(err error) error {
	if isGainDataError(err) {
		return fieldError("weights", err.Error())
	}
	return err
}

func weightPoint(w *model.Weight) calc.WeightPoint {
	return calc.WeightPoint{Weight: w.Weight, Date: time.Time(w.RecordedAt)}
}

func weightToResponse(w *model.Weight) dto.WeightResponse {
	return dto.WeightResponse{
		ID:         w.ID.String(),
		AnimalID:   w.AnimalID.String(),
		Weight:     w.Weight,
		RecordedAt: time.Time(w.RecordedAt).Format(dto.DateLayout),
	}
}

func gainStepToResponse(st calc.GainStep) dto.GainStepResponse {
	return dto.GainStepResponse{
		FromDate:   st.From.Date.Format(dto.DateLayout),
		ToDate:     st.To.Date.Format(dto.DateLayout),
		FromWeight: st.From.Weight,
		ToWeight:   st.To.Weight,
		Days:       st.Days,
		DailyGain:  st.DailyGain,
	}
}
