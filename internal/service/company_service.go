package service

import (
	"context"

	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
)

type CompanyService interface {
	CreateCompany(ctx context.Context, req dto.CompanyRequest) (*dto.CompanyResponse, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error)
	ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, req dto.CompanyRequest) (*dto.CompanyResponse, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error

	CreateFarmer(ctx context.Context, req dto.FarmerRequest) (*dto.FarmerResponse, error)
	GetFarmer(ctx context.Context, id uuid.UUID) (*dto.FarmerResponse, error)
	ListFarmers(ctx context.Context, filter dto.FarmerFilter) ([]dto.FarmerResponse, error)
	UpdateFarmer(ctx context.Context, id uuid.UUID, req dto.FarmerRequest) (*dto.FarmerResponse, error)
	DeleteFarmer(ctx context.Context, id uuid.UUID) error
}

type companyService struct {
	companies repository.CompanyRepository
	farmers   repository.FarmerRepository
}

func NewCompanyService(companies repository.CompanyRepository, farmers repository.FarmerRepository) CompanyService {
	return &companyService{companies: companies, farmers: farmers}
}

func (s *companyService) CreateCompany(ctx context.Context, req dto.CompanyRequest) (*dto.CompanyResponse, error) {
	c := &model.Company{Name: req.Name, Address: req.Address}
	if err := s.companies.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := companyToResponse(c)
	return &resp, nil
}

func (s *companyService) GetCompany(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "company")
	}
	resp := companyToResponse(c)
	return &resp, nil
}

func (s *companyService) ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error) {
	rows, err := s.companies.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, len(rows))
	for i := range rows {
		out[i] = companyToResponse(&rows[i])
	}
	return out, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, id uuid.UUID, req dto.CompanyRequest) (*dto.CompanyResponse, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "company")
	}
	c.Name = req.Name
	c.Address = req.Address
	if err := s.companies.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := companyToResponse(c)
	return &resp, nil
}

func (s *companyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return notFound(s.companies.Delete(ctx, id), "company")
}

// ── Farmers ──────────────────────────────────────────────────────────────────

func (s *companyService) farmerFromRequest(ctx context.Context, f *model.Farmer, req dto.FarmerRequest) error {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return fieldError("company_id", "invalid id")
	}
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return notFound(err, "company")
	}
	f.Name = req.Name
	f.Age = req.Age
	f.Position = req.Position
	f.Email = req.Email
	f.CompanyID = companyID
	return nil
}

func (s *companyService) CreateFarmer(ctx context.Context, req dto.FarmerRequest) (*dto.FarmerResponse, error) {
	f := &model.Farmer{}
	if err := s.farmerFromRequest(ctx, f, req); err != nil {
		return nil, err
	}
	if err := s.farmers.Create(ctx, f); err != nil {
		return nil, err
	}
	resp := farmerToResponse(f)
	return &resp, nil
}

func (s *companyService) GetFarmer(ctx context.Context, id uuid.UUID) (*dto.FarmerResponse, error) {
	f, err := s.farmers.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "farmer")
	}
	resp := farmerToResponse(f)
	return &resp, nil
}

func (s *companyService) ListFarmers(ctx context.Context, filter dto.FarmerFilter) ([]dto.FarmerResponse, error) {
	companyID, err := optionalUUID("company_id", filter.CompanyID)
	if err != nil {
		return nil, err
	}
	rows, err := s.farmers.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FarmerResponse, len(rows))
	for i := range rows {
		out[i] = farmerToResponse(&rows[i])
	}
	return out, nil
}

func (s *companyService) UpdateFarmer(ctx context.Context, id uuid.UUID, req dto.FarmerRequest) (*dto.FarmerResponse, error) {
	f, err := s.farmers.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "farmer")
	}
	if err := s.farmerFromRequest(ctx, f, req); err != nil {
		return nil, err
	}
	if err := s.farmers.Update(ctx, f); err != nil {
		return nil, err
	}
	resp := farmerToResponse(f)
	return &resp, nil
}

func (s *companyService) DeleteFarmer(ctx context.Context, id uuid.UUID) error {
	return notFound(s.farmers.Delete(ctx, id), "farmer")
}

// optionalUUID parses a filter value; empty means no filter.
func optionalUUID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fieldError(field, "invalid id")
	}
	return &id, nil
}

func companyToResponse(c *model.Company) dto.CompanyResponse {
	return dto.CompanyResponse{ID: c.ID.String(), Name: c.Name, Address: c.Address, CreatedAt: c.CreatedAt}
}

func farmerToResponse(f *model.Farmer) dto.FarmerResponse {
	return dto.FarmerResponse{
		ID:        f.ID.String(),
		Name:      f.Name,
		Age:       f.Age,
		Position:  f.Position,
		Email:     f.Email,
		CompanyID: f.CompanyID.String(),
	}
}
