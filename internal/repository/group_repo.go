package repository

import (
	"context"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(ctx context.Context, g *model.Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	Update(ctx context.Context, g *model.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type groupRepo struct{ db *gorm.DB }

func NewGroupRepository(db *gorm.DB) GroupRepository { return &groupRepo{db: db} }

func (r *groupRepo) Create(ctx context.Context, g *model.Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *groupRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var g model.Group
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	return &g, err
}

func (r *groupRepo) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).Order("name ASC").Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Update(ctx context.Context, g *model.Group) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *groupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Group](ctx, r.db, id)
}

// ── Memberships ──────────────────────────────────────────────────────────────

// MembershipRepository manages AnimalGroup rows.
type MembershipRepository interface {
	CreateTx(tx *gorm.DB, m *model.AnimalGroup) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AnimalGroup, error)
	Exists(ctx context.Context, animalID, groupID uuid.UUID, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, animalID, groupID *uuid.UUID) ([]model.AnimalGroup, error)
	Update(ctx context.Context, m *model.AnimalGroup) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FirstGroupOf returns the group of the oldest membership of an animal.
	FirstGroupOf(ctx context.Context, animalID uuid.UUID) (*model.Group, error)
	// MemberIDs returns the animal ids of a group, in membership order.
	MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)

	DB() *gorm.DB
}

type membershipRepo struct{ db *gorm.DB }

func NewMembershipRepository(db *gorm.DB) MembershipRepository { return &membershipRepo{db: db} }

func (r *membershipRepo) CreateTx(tx *gorm.DB, m *model.AnimalGroup) error {
	return tx.Create(m).Error
}

func (r *membershipRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AnimalGroup, error) {
	var m model.AnimalGroup
	err := r.db.WithContext(ctx).Preload("Animal").Preload("Group").First(&m, "id = ?", id).Error
	return &m, err
}

func (r *membershipRepo) Exists(ctx context.Context, animalID, groupID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.AnimalGroup{}).
		Where("animal_id = ? AND group_id = ?", animalID, groupID)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *membershipRepo) List(ctx context.Context, animalID, groupID *uuid.UUID) ([]model.AnimalGroup, error) {
	var rows []model.AnimalGroup
	q := r.db.WithContext(ctx).Preload("Animal").Preload("Group")
	if animalID != nil {
		q = q.Where("animal_id = ?", *animalID)
	}
	if groupID != nil {
		q = q.Where("group_id = ?", *groupID)
	}
	err := q.Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *membershipRepo) Update(ctx context.Context, m *model.AnimalGroup) error {
	return r.db.WithContext(ctx).Model(&model.AnimalGroup{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{"animal_id": m.AnimalID, "group_id": m.GroupID}).Error
}

func (r *membershipRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.AnimalGroup](ctx, r.db, id)
}

func (r *membershipRepo) FirstGroupOf(ctx context.Context, animalID uuid.UUID) (*model.Group, error) {
	var m model.AnimalGroup
	err := r.db.WithContext(ctx).Preload("Group").
		Where("animal_id = ?", animalID).
		Order("created_at ASC, id ASC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return m.Group, nil
}

func (r *membershipRepo) MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.AnimalGroup{}).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Pluck("animal_id", &ids).Error
	return ids, err
}

func (r *membershipRepo) DB() *gorm.DB { return r.db }
