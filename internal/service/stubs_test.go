package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"farmledger/internal/calc"
	"farmledger/internal/dto"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// In-memory repositories. Every DB() returns nil so runTx calls fn(nil).

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// ── Animals ──────────────────────────────────────────────────────────────────

type stubAnimalRepo struct {
	mu      sync.Mutex
	animals map[uuid.UUID]*model.Animal
	order   []uuid.UUID
	logged  map[uuid.UUID]bool
	// beforeUpdate runs between the service's read and its write.
	beforeUpdate func()
}

var _ repository.AnimalRepository = (*stubAnimalRepo)(nil)

func newStubAnimalRepo() *stubAnimalRepo {
	return &stubAnimalRepo{animals: map[uuid.UUID]*model.Animal{}, logged: map[uuid.UUID]bool{}}
}

func (r *stubAnimalRepo) seed(eartag string) *model.Animal {
	a := &model.Animal{
		ID:        uuid.New(),
		Eartag:    eartag,
		CompanyID: uuid.New(),
		Room:      "A1",
		Cost:      decimal.Zero,
		FeedCost:  decimal.Zero,
		CreatedAt: time.Now(),
	}
	r.animals[a.ID] = a
	r.order = append(r.order, a.ID)
	return a
}

func (r *stubAnimalRepo) CreateTx(_ *gorm.DB, a *model.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	r.animals[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *stubAnimalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.animals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAnimalRepo) FindByEartag(_ context.Context, eartag string) (*model.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.animals {
		if a.Eartag == eartag {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAnimalRepo) EartagExists(_ context.Context, eartag string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.animals {
		if a.Eartag == eartag && (excludeID == nil || a.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAnimalRepo) List(_ context.Context, f dto.AnimalFilter) ([]model.Animal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Animal
	for _, id := range r.order {
		a := r.animals[id]
		if f.Eartag != "" && a.Eartag != f.Eartag {
			continue
		}
		if f.Race != "" && (a.Race == nil || !strings.EqualFold(*a.Race, f.Race)) {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAnimalRepo) ListAll(_ context.Context) ([]model.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Animal, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.animals[id])
	}
	return out, nil
}

func (r *stubAnimalRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Animal
	for _, id := range ids {
		if a, ok := r.animals[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

// Update copies only the edit-owned columns, like the GORM repository.
func (r *stubAnimalRepo) Update(_ context.Context, a *model.Animal) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.animals[a.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Eartag, cur.CompanyID, cur.Race, cur.Gender = a.Eartag, a.CompanyID, a.Race, a.Gender
	cur.Room, cur.Cost, cur.UpdatedAt = a.Room, a.Cost, time.Now()
	return nil
}

func (r *stubAnimalRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.animals[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.animals, id)
	return nil
}

func (r *stubAnimalRepo) ListWithoutRationLog(_ context.Context) ([]model.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Animal
	for _, id := range r.order {
		if !r.logged[id] {
			out = append(out, *r.animals[id])
		}
	}
	return out, nil
}

func (r *stubAnimalRepo) SetSlaughteredTx(_ *gorm.DB, id uuid.UUID, slaughtered bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.animals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.IsSlaughtered = slaughtered
	return nil
}

func (r *stubAnimalRepo) AddFeedCostTx(_ *gorm.DB, id uuid.UUID, increment decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.animals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.FeedCost = a.FeedCost.Add(increment)
	return nil
}

func (r *stubAnimalRepo) LockTx(_ *gorm.DB, id uuid.UUID) (*model.Animal, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubAnimalRepo) DB() *gorm.DB { return nil }

// ── Companies ────────────────────────────────────────────────────────────────

type stubCompanyRepo struct {
	companies map[uuid.UUID]*model.Company
}

var _ repository.CompanyRepository = (*stubCompanyRepo)(nil)

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{companies: map[uuid.UUID]*model.Company{}}
}

func (r *stubCompanyRepo) seed(name string) *model.Company {
	c := &model.Company{ID: uuid.New(), Name: name}
	r.companies[c.ID] = c
	return c
}

func (r *stubCompanyRepo) Create(_ context.Context, c *model.Company) error {
	c.ID = uuid.New()
	r.companies[c.ID] = c
	return nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCompanyRepo) List(_ context.Context) ([]model.Company, error) {
	out := make([]model.Company, 0, len(r.companies))
	for _, c := range r.companies {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCompanyRepo) Update(_ context.Context, c *model.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *stubCompanyRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.companies[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.companies, id)
	return nil
}

// ── Ration logs ──────────────────────────────────────────────────────────────

type stubRationLogRepo struct {
	mu      sync.Mutex
	logs    map[uuid.UUID]*model.AnimalRationLog
	animals *stubAnimalRepo
}

var _ repository.RationLogRepository = (*stubRationLogRepo)(nil)

func newStubRationLogRepo(animals *stubAnimalRepo) *stubRationLogRepo {
	return &stubRationLogRepo{logs: map[uuid.UUID]*model.AnimalRationLog{}, animals: animals}
}

func (r *stubRationLogRepo) seed(animalID, tableID uuid.UUID, start time.Time, active bool) *model.AnimalRationLog {
	l := &model.AnimalRationLog{ID: uuid.New(), AnimalID: animalID, RationTableID: tableID, StartDate: start, IsActive: active}
	if !active {
		end := start.Add(24 * time.Hour)
		l.EndDate = &end
	}
	r.logs[l.ID] = l
	if r.animals != nil {
		r.animals.logged[animalID] = true
	}
	return l
}

func (r *stubRationLogRepo) active(animalID uuid.UUID) []*model.AnimalRationLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AnimalRationLog
	for _, l := range r.logs {
		if l.AnimalID == animalID && l.IsActive {
			out = append(out, l)
		}
	}
	return out
}

func (r *stubRationLogRepo) CreateTx(_ *gorm.DB, l *model.AnimalRationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	cp.Animal, cp.RationTable = nil, nil
	r.logs[l.ID] = &cp
	if r.animals != nil {
		r.animals.logged[l.AnimalID] = true
	}
	return nil
}

func (r *stubRationLogRepo) UpdateTx(_ *gorm.DB, l *model.AnimalRationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[l.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *l
	cp.Animal, cp.RationTable = nil, nil
	r.logs[l.ID] = &cp
	return nil
}

func (r *stubRationLogRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.logs, id)
	return nil
}

func (r *stubRationLogRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AnimalRationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubRationLogRepo) List(_ context.Context, f repository.RationLogFilter) ([]model.AnimalRationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AnimalRationLog
	for _, l := range r.logs {
		if f.AnimalID != nil && l.AnimalID != *f.AnimalID {
			continue
		}
		if f.RationTableID != nil && l.RationTableID != *f.RationTableID {
			continue
		}
		if f.Active != nil && l.IsActive != *f.Active {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *stubRationLogRepo) FindActiveByAnimal(_ context.Context, animalID uuid.UUID) (*model.AnimalRationLog, error) {
	act := r.active(animalID)
	if len(act) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *act[0]
	return &cp, nil
}

func (r *stubRationLogRepo) ListActive(_ context.Context) ([]model.AnimalRationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AnimalRationLog
	for _, l := range r.logs {
		if !l.IsActive {
			continue
		}
		cp := *l
		if r.animals != nil {
			if a, ok := r.animals.animals[l.AnimalID]; ok {
				ac := *a
				cp.Animal = &ac
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

func (r *stubRationLogRepo) DeactivateActiveTx(_ *gorm.DB, animalID uuid.UUID, exceptID *uuid.UUID, endDate time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.logs {
		if l.AnimalID != animalID || !l.IsActive || (exceptID != nil && l.ID == *exceptID) {
			continue
		}
		end := endDate
		l.IsActive, l.EndDate = false, &end
		n++
	}
	return n, nil
}

func (r *stubRationLogRepo) FindLatestInactiveTx(_ *gorm.DB, animalID uuid.UUID, exceptID uuid.UUID) (*model.AnimalRationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *model.AnimalRationLog
	for _, l := range r.logs {
		if l.AnimalID != animalID || l.IsActive || l.ID == exceptID || l.EndDate == nil {
			continue
		}
		if best == nil || l.EndDate.After(*best.EndDate) {
			best = l
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *best
	return &cp, nil
}

func (r *stubRationLogRepo) ReactivateTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.IsActive, l.EndDate = true, nil
	return nil
}

func (r *stubRationLogRepo) DB() *gorm.DB { return nil }

// ── Ration tables and components ─────────────────────────────────────────────

type stubTableRepo struct {
	tables   map[uuid.UUID]*model.RationTable
	logCount map[uuid.UUID]int64
}

var _ repository.RationTableRepository = (*stubTableRepo)(nil)

func newStubTableRepo() *stubTableRepo {
	return &stubTableRepo{tables: map[uuid.UUID]*model.RationTable{}, logCount: map[uuid.UUID]int64{}}
}

func (r *stubTableRepo) seed(name string, components ...model.RationTableComponent) *model.RationTable {
	t := &model.RationTable{ID: uuid.New(), Name: name, Status: model.StatusActive, Components: components}
	for i := range t.Components {
		t.Components[i].RationTableID = t.ID
	}
	r.tables[t.ID] = t
	return t
}

func (r *stubTableRepo) CreateTx(_ *gorm.DB, t *model.RationTable) error {
	t.ID = uuid.New()
	r.tables[t.ID] = t
	return nil
}

func (r *stubTableRepo) UpdateTx(_ *gorm.DB, t *model.RationTable) error {
	r.tables[t.ID] = t
	return nil
}

func (r *stubTableRepo) SetStatusTx(_ *gorm.DB, id uuid.UUID, status model.RecordStatus, at time.Time) error {
	t, ok := r.tables[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	if status == model.StatusDeleted {
		t.DeletedAt = &at
	} else {
		t.DeletedAt = nil
	}
	return nil
}

func (r *stubTableRepo) HardDeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.tables[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.tables, id)
	return nil
}

func (r *stubTableRepo) FindByID(_ context.Context, id uuid.UUID, vis model.Visibility) (*model.RationTable, error) {
	t, ok := r.tables[id]
	if !ok || !vis.Admits(t.Status) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTableRepo) FindByName(_ context.Context, name string, vis model.Visibility) (*model.RationTable, error) {
	for _, t := range r.tables {
		if t.Name == name && vis.Admits(t.Status) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTableRepo) List(_ context.Context, vis model.Visibility) ([]model.RationTable, error) {
	var out []model.RationTable
	for _, t := range r.tables {
		if vis.Admits(t.Status) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTableRepo) CountRationLogs(_ context.Context, id uuid.UUID) (int64, error) {
	return r.logCount[id], nil
}

func (r *stubTableRepo) DB() *gorm.DB { return nil }

type stubComponentRepo struct {
	components map[uuid.UUID]*model.RationComponent
	usedBy     map[uuid.UUID][]uuid.UUID
}

var _ repository.RationComponentRepository = (*stubComponentRepo)(nil)

func newStubComponentRepo() *stubComponentRepo {
	return &stubComponentRepo{components: map[uuid.UUID]*model.RationComponent{}, usedBy: map[uuid.UUID][]uuid.UUID{}}
}

func (r *stubComponentRepo) CreateTx(_ *gorm.DB, c *model.RationComponent) error {
	c.ID = uuid.New()
	cp := *c
	r.components[c.ID] = &cp
	return nil
}

func (r *stubComponentRepo) UpdateTx(_ *gorm.DB, c *model.RationComponent) error {
	cp := *c
	r.components[c.ID] = &cp
	return nil
}

func (r *stubComponentRepo) SetStatusTx(_ *gorm.DB, id uuid.UUID, status model.RecordStatus, at time.Time) error {
	c, ok := r.components[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	if status == model.StatusDeleted {
		c.DeletedAt = &at
	} else {
		c.DeletedAt = nil
	}
	return nil
}

func (r *stubComponentRepo) HardDeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.components[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.components, id)
	return nil
}

func (r *stubComponentRepo) FindByID(_ context.Context, id uuid.UUID, vis model.Visibility) (*model.RationComponent, error) {
	c, ok := r.components[id]
	if !ok || !vis.Admits(c.Status) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubComponentRepo) List(_ context.Context, vis model.Visibility) ([]model.RationComponent, error) {
	var out []model.RationComponent
	for _, c := range r.components {
		if vis.Admits(c.Status) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubComponentRepo) TableIDsUsing(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return r.usedBy[id], nil
}

func (r *stubComponentRepo) DB() *gorm.DB { return nil }

type stubChangeLogRepo struct {
	components      []model.ComponentChangeLog
	tables          []model.RationTableLog
	tableComponents []model.RationTableComponentLog
}

var _ repository.ChangeLogRepository = (*stubChangeLogRepo)(nil)

func (r *stubChangeLogRepo) CreateComponentLogsTx(_ *gorm.DB, logs []model.ComponentChangeLog) error {
	r.components = append(r.components, logs...)
	return nil
}

func (r *stubChangeLogRepo) CreateTableLogTx(_ *gorm.DB, l *model.RationTableLog) error {
	r.tables = append(r.tables, *l)
	return nil
}

func (r *stubChangeLogRepo) CreateTableComponentLogTx(_ *gorm.DB, l *model.RationTableComponentLog) error {
	r.tableComponents = append(r.tableComponents, *l)
	return nil
}

func (r *stubChangeLogRepo) ListComponentLogs(_ context.Context, componentID *uuid.UUID) ([]model.ComponentChangeLog, error) {
	var out []model.ComponentChangeLog
	for _, l := range r.components {
		if componentID == nil || l.ComponentID == *componentID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubChangeLogRepo) ListTableLogs(_ context.Context, tableID *uuid.UUID) ([]model.RationTableLog, error) {
	var out []model.RationTableLog
	for _, l := range r.tables {
		if tableID == nil || l.RationTableID == *tableID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubChangeLogRepo) ListTableComponentLogs(_ context.Context, tableComponentID, _ *uuid.UUID) ([]model.RationTableComponentLog, error) {
	var out []model.RationTableComponentLog
	for _, l := range r.tableComponents {
		if tableComponentID == nil || l.TableComponentID == *tableComponentID {
			out = append(out, l)
		}
	}
	return out, nil
}

type stubCostCache struct {
	entries     map[uuid.UUID]calc.RationTotals
	invalidated []uuid.UUID
}

func newStubCostCache() *stubCostCache {
	return &stubCostCache{entries: map[uuid.UUID]calc.RationTotals{}}
}

func (c *stubCostCache) Get(_ context.Context, id uuid.UUID) (calc.RationTotals, bool) {
	t, ok := c.entries[id]
	return t, ok
}

func (c *stubCostCache) Set(_ context.Context, id uuid.UUID, t calc.RationTotals) error {
	c.entries[id] = t
	return nil
}

func (c *stubCostCache) Invalidate(_ context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		delete(c.entries, id)
	}
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

// ── Weights ──────────────────────────────────────────────────────────────────

type stubWeightRepo struct {
	weights map[uuid.UUID]*model.Weight
}

var _ repository.WeightRepository = (*stubWeightRepo)(nil)

func newStubWeightRepo() *stubWeightRepo {
	return &stubWeightRepo{weights: map[uuid.UUID]*model.Weight{}}
}

func (r *stubWeightRepo) seed(animalID uuid.UUID, weight, on string) *model.Weight {
	w := &model.Weight{ID: uuid.New(), AnimalID: animalID, Weight: d(weight), RecordedAt: datatypes.Date(day(on))}
	r.weights[w.ID] = w
	return w
}

func (r *stubWeightRepo) Create(_ context.Context, w *model.Weight) error {
	w.ID = uuid.New()
	cp := *w
	r.weights[w.ID] = &cp
	return nil
}

func (r *stubWeightRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Weight, error) {
	w, ok := r.weights[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *stubWeightRepo) List(_ context.Context, animalID *uuid.UUID) ([]model.Weight, error) {
	var out []model.Weight
	for _, w := range r.weights {
		if animalID == nil || w.AnimalID == *animalID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *stubWeightRepo) Update(_ context.Context, w *model.Weight) error {
	cp := *w
	r.weights[w.ID] = &cp
	return nil
}

func (r *stubWeightRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.weights[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.weights, id)
	return nil
}

func (r *stubWeightRepo) ExistsOnDate(_ context.Context, animalID uuid.UUID, on time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, w := range r.weights {
		if w.AnimalID != animalID || (excludeID != nil && w.ID == *excludeID) {
			continue
		}
		if calc.DaysBetween(time.Time(w.RecordedAt), on) == 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubWeightRepo) Latest(ctx context.Context, animalID uuid.UUID) (*model.Weight, error) {
	rows, _ := r.History(ctx, animalID)
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[len(rows)-1], nil
}

func (r *stubWeightRepo) History(_ context.Context, animalID uuid.UUID) ([]model.Weight, error) {
	var out []model.Weight
	for _, w := range r.weights {
		if w.AnimalID == animalID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return time.Time(out[i].RecordedAt).Before(time.Time(out[j].RecordedAt))
	})
	return out, nil
}

// ── Groups ───────────────────────────────────────────────────────────────────

type stubGroupRepo struct {
	groups map[uuid.UUID]*model.Group
}

var _ repository.GroupRepository = (*stubGroupRepo)(nil)

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{groups: map[uuid.UUID]*model.Group{}}
}

func (r *stubGroupRepo) seed(name, dryMatter string) *model.Group {
	g := &model.Group{ID: uuid.New(), Name: name, DryMatter: d(dryMatter)}
	r.groups[g.ID] = g
	return g
}

func (r *stubGroupRepo) Create(_ context.Context, g *model.Group) error {
	g.ID = uuid.New()
	r.groups[g.ID] = g
	return nil
}

func (r *stubGroupRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *stubGroupRepo) List(_ context.Context) ([]model.Group, error) {
	var out []model.Group
	for _, g := range r.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (r *stubGroupRepo) Update(_ context.Context, g *model.Group) error {
	r.groups[g.ID] = g
	return nil
}

func (r *stubGroupRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.groups, id)
	return nil
}

type stubMembershipRepo struct {
	members []model.AnimalGroup
	groups  *stubGroupRepo
}

var _ repository.MembershipRepository = (*stubMembershipRepo)(nil)

func newStubMembershipRepo(groups *stubGroupRepo) *stubMembershipRepo {
	return &stubMembershipRepo{groups: groups}
}

func (r *stubMembershipRepo) add(animalID, groupID uuid.UUID) {
	r.members = append(r.members, model.AnimalGroup{ID: uuid.New(), AnimalID: animalID, GroupID: groupID})
}

func (r *stubMembershipRepo) CreateTx(_ *gorm.DB, m *model.AnimalGroup) error {
	m.ID = uuid.New()
	r.members = append(r.members, *m)
	return nil
}

func (r *stubMembershipRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AnimalGroup, error) {
	for i := range r.members {
		if r.members[i].ID == id {
			cp := r.members[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMembershipRepo) Exists(_ context.Context, animalID, groupID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	for _, m := range r.members {
		if m.AnimalID == animalID && m.GroupID == groupID && (excludeID == nil || m.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubMembershipRepo) List(_ context.Context, animalID, groupID *uuid.UUID) ([]model.AnimalGroup, error) {
	var out []model.AnimalGroup
	for _, m := range r.members {
		if animalID != nil && m.AnimalID != *animalID {
			continue
		}
		if groupID != nil && m.GroupID != *groupID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *stubMembershipRepo) Update(_ context.Context, m *model.AnimalGroup) error {
	for i := range r.members {
		if r.members[i].ID == m.ID {
			r.members[i] = *m
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubMembershipRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.members {
		if r.members[i].ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubMembershipRepo) FirstGroupOf(ctx context.Context, animalID uuid.UUID) (*model.Group, error) {
	for _, m := range r.members {
		if m.AnimalID == animalID {
			return r.groups.FindByID(ctx, m.GroupID)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMembershipRepo) MemberIDs(_ context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, m := range r.members {
		if m.GroupID == groupID {
			out = append(out, m.AnimalID)
		}
	}
	return out, nil
}

func (r *stubMembershipRepo) DB() *gorm.DB { return nil }

// ── Feed cost runs ───────────────────────────────────────────────────────────

type stubRunRepo struct {
	runs []*model.FeedCostRun
}

var _ repository.FeedCostRunRepository = (*stubRunRepo)(nil)

func (r *stubRunRepo) Create(_ context.Context, run *model.FeedCostRun) error {
	run.ID = uuid.New()
	r.runs = append(r.runs, run)
	return nil
}

func (r *stubRunRepo) Update(_ context.Context, run *model.FeedCostRun) error {
	for i := range r.runs {
		if r.runs[i].ID == run.ID {
			r.runs[i] = run
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubRunRepo) ExistsBetween(_ context.Context, from, to time.Time, excludeID uuid.UUID) (bool, error) {
	for _, run := range r.runs {
		if run.ID != excludeID && !run.StartedAt.Before(from) && run.StartedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRunRepo) List(_ context.Context, limit int) ([]model.FeedCostRun, error) {
	var out []model.FeedCostRun
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.runs[i])
	}
	return out, nil
}

// ── Slaughters ───────────────────────────────────────────────────────────────

type stubSlaughterRepo struct {
	slaughters map[uuid.UUID]*model.Slaughter
	animals    *stubAnimalRepo
	// existsTx records the handle each existence check ran on.
	existsTx []*gorm.DB
}

var _ repository.SlaughterRepository = (*stubSlaughterRepo)(nil)

func newStubSlaughterRepo(animals *stubAnimalRepo) *stubSlaughterRepo {
	return &stubSlaughterRepo{slaughters: map[uuid.UUID]*model.Slaughter{}, animals: animals}
}

func (r *stubSlaughterRepo) CreateTx(_ *gorm.DB, s *model.Slaughter) error {
	s.ID = uuid.New()
	cp := *s
	r.slaughters[s.ID] = &cp
	return nil
}

func (r *stubSlaughterRepo) UpdateTx(_ *gorm.DB, s *model.Slaughter) error {
	cp := *s
	r.slaughters[s.ID] = &cp
	return nil
}

func (r *stubSlaughterRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.slaughters[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.slaughters, id)
	return nil
}

func (r *stubSlaughterRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Slaughter, error) {
	s, ok := r.slaughters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	if a, err := r.animals.FindByID(ctx, s.AnimalID); err == nil {
		cp.Animal = a
	}
	return &cp, nil
}

func (r *stubSlaughterRepo) ExistsForAnimalTx(tx *gorm.DB, animalID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	r.existsTx = append(r.existsTx, tx)
	for _, s := range r.slaughters {
		if s.AnimalID == animalID && (excludeID == nil || s.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSlaughterRepo) List(ctx context.Context) ([]model.Slaughter, error) {
	var out []model.Slaughter
	for id := range r.slaughters {
		s, _ := r.FindByID(ctx, id)
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSlaughterRepo) DB() *gorm.DB { return nil }

// ── Vaccines ─────────────────────────────────────────────────────────────────

type stubVaccineRepo struct {
	vaccines map[uuid.UUID]*model.Vaccine
	records  []model.AnimalVaccineRecord
}

var _ repository.VaccineRepository = (*stubVaccineRepo)(nil)

func newStubVaccineRepo() *stubVaccineRepo {
	return &stubVaccineRepo{vaccines: map[uuid.UUID]*model.Vaccine{}}
}

func (r *stubVaccineRepo) seed(name string) *model.Vaccine {
	v := &model.Vaccine{ID: uuid.New(), Name: name}
	r.vaccines[v.ID] = v
	return v
}

func (r *stubVaccineRepo) Create(_ context.Context, v *model.Vaccine) error {
	v.ID = uuid.New()
	cp := *v
	r.vaccines[v.ID] = &cp
	return nil
}

func (r *stubVaccineRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vaccine, error) {
	v, ok := r.vaccines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVaccineRepo) List(_ context.Context) ([]model.Vaccine, error) {
	out := make([]model.Vaccine, 0, len(r.vaccines))
	for _, v := range r.vaccines {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubVaccineRepo) Update(_ context.Context, v *model.Vaccine) error {
	cp := *v
	r.vaccines[v.ID] = &cp
	return nil
}

func (r *stubVaccineRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.vaccines[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.vaccines, id)
	return nil
}

func (r *stubVaccineRepo) CreateRecord(_ context.Context, rec *model.AnimalVaccineRecord) error {
	rec.ID = uuid.New()
	r.records = append(r.records, *rec)
	return nil
}

func (r *stubVaccineRepo) FindRecordByID(_ context.Context, id uuid.UUID) (*model.AnimalVaccineRecord, error) {
	for i := range r.records {
		if r.records[i].ID == id {
			cp := r.records[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVaccineRepo) ListRecords(_ context.Context, animalID *uuid.UUID) ([]model.AnimalVaccineRecord, error) {
	var out []model.AnimalVaccineRecord
	for _, rec := range r.records {
		if animalID == nil || rec.AnimalID == *animalID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *stubVaccineRepo) UpdateRecord(_ context.Context, rec *model.AnimalVaccineRecord) error {
	for i := range r.records {
		if r.records[i].ID == rec.ID {
			r.records[i] = *rec
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubVaccineRepo) DeleteRecord(_ context.Context, id uuid.UUID) error {
	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
