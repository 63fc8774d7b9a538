package service

import (
	"context"
	"time"

	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VaccineService interface {
	Create(ctx context.Context, req dto.VaccineRequest) (*dto.VaccineResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.VaccineResponse, error)
	List(ctx context.Context) ([]dto.VaccineResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.VaccineRequest) (*dto.VaccineResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateRecord(ctx context.Context, req dto.VaccineRecordRequest) (*dto.VaccineRecordResponse, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*dto.VaccineRecordResponse, error)
	ListRecords(ctx context.Context, filter dto.VaccineRecordFilter) ([]dto.VaccineRecordResponse, error)
	UpdateRecord(ctx context.Context, id uuid.UUID, req dto.VaccineRecordRequest) (*dto.VaccineRecordResponse, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
}

type vaccineService struct {
	repo    repository.VaccineRepository
	animals repository.AnimalRepository
	now     func() time.Time
}

func NewVaccineService(repo repository.VaccineRepository, animals repository.AnimalRepository) VaccineService {
	return &vaccineService{repo: repo, animals: animals, now: time.Now}
}

func (s *vaccineService) Create(ctx context.Context, req dto.VaccineRequest) (*dto.VaccineResponse, error) {
	v := &model.Vaccine{Name: req.Name, Description: req.Description, Manufacturer: req.Manufacturer}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	resp := vaccineToResponse(v)
	return &resp, nil
}

func (s *vaccineService) Get(ctx context.Context, id uuid.UUID) (*dto.VaccineResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "vaccine")
	}
	resp := vaccineToResponse(v)
	return &resp, nil
}

func (s *vaccineService) List(ctx context.Context) ([]dto.VaccineResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VaccineResponse, len(rows))
	for i := range rows {
		out[i] = vaccineToResponse(&rows[i])
	}
	return out, nil
}

func (s *vaccineService) Update(ctx context.Context, id uuid.UUID, req dto.VaccineRequest) (*dto.VaccineResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "vaccine")
	}
	v.Name = req.Name
	v.Description = req.Description
	v.Manufacturer = req.Manufacturer
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	resp := vaccineToResponse(v)
	return &resp, nil
}

func (s *vaccineService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id), "vaccine")
}

// ── Records ──────────────────────────────────────────────────────────────────

func (s *vaccineService) applyRecord(ctx context.Context, rec *model.AnimalVaccineRecord, req dto.VaccineRecordRequest) error {
	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		return fieldError("animal_id", "invalid id")
	}
	vaccineID, err := uuid.Parse(req.VaccineID)
	if err != nil {
		return fieldError("vaccine_id", "invalid id")
	}
	day := s.now()
	if req.DateAdministered != "" {
		if day, err = time.Parse(dto.DateLayout, req.DateAdministered); err != nil {
			return fieldError("date_administered", "expected YYYY-MM-DD")
		}
	}
	if _, err := s.animals.FindByID(ctx, animalID); err != nil {
		return notFound(err, "animal")
	}
	v, err := s.repo.FindByID(ctx, vaccineID)
	if err != nil {
		return notFound(err, "vaccine")
	}
	rec.AnimalID = animalID
	rec.VaccineID = vaccineID
	rec.DateAdministered = datatypes.Date(day)
	rec.AdministeredBy = req.AdministeredBy
	rec.Remarks = req.Remarks
	rec.Vaccine = v
	return nil
}

func (s *vaccineService) CreateRecord(ctx context.Context, req dto.VaccineRecordRequest) (*dto.VaccineRecordResponse, error) {
	rec := &model.AnimalVaccineRecord{}
	if err := s.applyRecord(ctx, rec, req); err != nil {
		return nil, err
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}
	resp := vaccineRecordToResponse(rec)
	return &resp, nil
}

func (s *vaccineService) GetRecord(ctx context.Context, id uuid.UUID) (*dto.VaccineRecordResponse, error) {
	rec, err := s.repo.FindRecordByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "vaccine record")
	}
	resp := vaccineRecordToResponse(rec)
	return &resp, nil
}

func (s *vaccineService) ListRecords(ctx context.Context, filter dto.VaccineRecordFilter) ([]dto.VaccineRecordResponse, error) {
	animalID, err := optionalUUID("animal_id", filter.AnimalID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRecords(ctx, animalID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VaccineRecordResponse, len(rows))
	for i := range rows {
		out[i] = vaccineRecordToResponse(&rows[i])
	}
	return out, nil
}

func (s *vaccineService) UpdateRecord(ctx context.Context, id uuid.UUID, req dto.VaccineRecordRequest) (*dto.VaccineRecordResponse, error) {
	rec, err := s.repo.FindRecordByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "vaccine record")
	}
	if err := s.applyRecord(ctx, rec, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRecord(ctx, rec); err != nil {
		return nil, err
	}
	resp := vaccineRecordToResponse(rec)
	return &resp, nil
}

func (s *vaccineService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.DeleteRecord(ctx, id), "vaccine record")
}

func vaccineToResponse(v *model.Vaccine) dto.VaccineResponse {
	return dto.VaccineResponse{ID: v.ID.String(), Name: v.Name, Description: v.Description, Manufacturer: v.Manufacturer}
}

func vaccineRecordToResponse(rec *model.AnimalVaccineRecord) dto.VaccineRecordResponse {
	resp := dto.VaccineRecordResponse{
		ID:               rec.ID.String(),
		AnimalID:         rec.AnimalID.String(),
		VaccineID:        rec.VaccineID.String(),
		DateAdministered: time.Time(rec.DateAdministered).Format(dto.DateLayout),
		AdministeredBy:   rec.AdministeredBy,
		Remarks:          rec.Remarks,
	}
	if rec.Vaccine != nil {
		resp.VaccineName = rec.Vaccine.Name
	}
	return resp
}
