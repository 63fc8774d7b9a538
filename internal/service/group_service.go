package service

import (
	"context"
	"fmt"

	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupService interface {
	Create(ctx context.Context, req dto.GroupRequest) (*dto.GroupResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.GroupResponse, error)
	List(ctx context.Context) ([]dto.GroupResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.GroupRequest) (*dto.GroupResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddMembers(ctx context.Context, reqs []dto.AnimalGroupRequest) ([]dto.AnimalGroupResponse, error)
	GetMember(ctx context.Context, id uuid.UUID) (*dto.AnimalGroupResponse, error)
	ListMembers(ctx context.Context, filter dto.AnimalGroupFilter) ([]dto.AnimalGroupResponse, error)
	UpdateMember(ctx context.Context, id uuid.UUID, req dto.AnimalGroupRequest) (*dto.AnimalGroupResponse, error)
	RemoveMember(ctx context.Context, id uuid.UUID) error
}

type groupService struct {
	groups  repository.GroupRepository
	members repository.MembershipRepository
	animals repository.AnimalRepository
}

func NewGroupService(groups repository.GroupRepository, members repository.MembershipRepository, animals repository.AnimalRepository) GroupService {
	return &groupService{groups: groups, members: members, animals: animals}
}

func (s *groupService) Create(ctx context.Context, req dto.GroupRequest) (*dto.GroupResponse, error) {
	g := &model.Group{Name: req.Name, DryMatter: req.DryMatter}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}
	resp := groupToResponse(g)
	return &resp, nil
}

func (s *groupService) Get(ctx context.Context, id uuid.UUID) (*dto.GroupResponse, error) {
	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "group")
	}
	resp := groupToResponse(g)
	return &resp, nil
}

func (s *groupService) List(ctx context.Context) ([]dto.GroupResponse, error) {
	rows, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GroupResponse, len(rows))
	for i := range rows {
		out[i] = groupToResponse(&rows[i])
	}
	return out, nil
}

func (s *groupService) Update(ctx context.Context, id uuid.UUID, req dto.GroupRequest) (*dto.GroupResponse, error) {
	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "group")
	}
	g.Name = req.Name
	g.DryMatter = req.DryMatter
	if err := s.groups.Update(ctx, g); err != nil {
		return nil, err
	}
	resp := groupToResponse(g)
	return &resp, nil
}

func (s *groupService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.groups.Delete(ctx, id), "group")
}

// ── Memberships ──────────────────────────────────────────────────────────────

func (s *groupService) resolveMember(ctx context.Context, req dto.AnimalGroupRequest) (*model.Animal, *model.Group, error) {
	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		return nil, nil, fieldError("animal_id", "invalid id")
	}
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return nil, nil, fieldError("group_id", "invalid id")
	}
	a, err := s.animals.FindByID(ctx, animalID)
	if err != nil {
		return nil, nil, notFound(err, "animal")
	}
	g, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, nil, notFound(err, "group")
	}
	return a, g, nil
}

func (s *groupService) AddMembers(ctx context.Context, reqs []dto.AnimalGroupRequest) ([]dto.AnimalGroupResponse, error) {
	if len(reqs) == 0 {
		return nil, fieldError("memberships", "at least one membership is required")
	}
	rows := make([]*model.AnimalGroup, len(reqs))
	seen := map[[2]string]bool{}
	for i, req := range reqs {
		a, g, err := s.resolveMember(ctx, req)
		if err != nil {
			return nil, err
		}
		key := [2]string{a.ID.String(), g.ID.String()}
		exists, err := s.members.Exists(ctx, a.ID, g.ID, nil)
		if err != nil {
			return nil, err
		}
		if exists || seen[key] {
			return nil, fmt.Errorf("animal %s is already in group %s: %w", a.Eartag, g.Name, ErrConflict)
		}
		seen[key] = true
		rows[i] = &model.AnimalGroup{AnimalID: a.ID, GroupID: g.ID, Animal: a, Group: g}
	}

	err := runTx(ctx, s.members.DB(), func(tx *gorm.DB) error {
		for _, m := range rows {
			animal, group := m.Animal, m.Group
			m.Animal, m.Group = nil, nil
			err := s.members.CreateTx(tx, m)
			m.Animal, m.Group = animal, group
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnimalGroupResponse, len(rows))
	for i, m := range rows {
		out[i] = memberToResponse(m)
	}
	return out, nil
}

func (s *groupService) GetMember(ctx context.Context, id uuid.UUID) (*dto.AnimalGroupResponse, error) {
	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "membership")
	}
	resp := memberToResponse(m)
	return &resp, nil
}

func (s *groupService) ListMembers(ctx context.Context, filter dto.AnimalGroupFilter) ([]dto.AnimalGroupResponse, error) {
	animalID, err := optionalUUID("animal_id", filter.AnimalID)
	if err != nil {
		return nil, err
	}
	groupID, err := optionalUUID("group_id", filter.GroupID)
	if err != nil {
		return nil, err
	}
	rows, err := s.members.List(ctx, animalID, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnimalGroupResponse, len(rows))
	for i := range rows {
		out[i] = memberToResponse(&rows[i])
	}
	return out, nil
}

func (s *groupService) UpdateMember(ctx context.Context, id uuid.UUID, req dto.AnimalGroupRequest) (*dto.AnimalGroupResponse, error) {
	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "membership")
	}
	a, g, err := s.resolveMember(ctx, req)
	if err != nil {
		return nil, err
	}
	exists, err := s.members.Exists(ctx, a.ID, g.ID, &m.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("animal %s is already in group %s: %w", a.Eartag, g.Name, ErrConflict)
	}
	m.AnimalID, m.GroupID = a.ID, g.ID
	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}
	m.Animal, m.Group = a, g
	resp := memberToResponse(m)
	return &resp, nil
}

func (s *groupService) RemoveMember(ctx context.Context, id uuid.UUID) error {
	return notFound(s.members.Delete(ctx, id), "membership")
}

func groupToResponse(g *model.Group) dto.GroupResponse {
	return dto.GroupResponse{ID: g.ID.String(), Name: g.Name, DryMatter: g.DryMatter}
}

func memberToResponse(m *model.AnimalGroup) dto.AnimalGroupResponse {
	resp := dto.AnimalGroupResponse{
		ID:        m.ID.String(),
		AnimalID:  m.AnimalID.String(),
		GroupID:   m.GroupID.String(),
		CreatedAt: m.CreatedAt,
	}
	if m.Animal != nil {
		resp.Eartag = m.Animal.Eartag
	}
	if m.Group != nil {
		resp.GroupName = m.Group.Name
	}
	return resp
}
