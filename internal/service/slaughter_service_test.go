package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"farmledger/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slaughterFixture struct {
	animals    *stubAnimalRepo
	companies  *stubCompanyRepo
	logs       *stubRationLogRepo
	slaughters *stubSlaughterRepo
	svc        SlaughterService
}

func newSlaughterFixture() *slaughterFixture {
	f := &slaughterFixture{animals: newStubAnimalRepo(), companies: newStubCompanyRepo()}
	f.logs = newStubRationLogRepo(f.animals)
	f.slaughters = newStubSlaughterRepo(f.animals)
	f.svc = NewSlaughterService(f.slaughters, f.animals, f.companies, f.logs)
	return f
}

func slaughterReq(animalID uuid.UUID) dto.SlaughterRequest {
	return dto.SlaughterRequest{
		AnimalID:      animalID.String(),
		Date:          "2024-07-01",
		CarcassWeight: d("250"),
		SalePrice:     d("10"),
		KDV:           d("0.18"),
	}
}

func TestSlaughterCreate_FlagsAnimalAndClosesLog(t *testing.T) {
	f := newSlaughterFixture()
	a := f.animals.seed("S-001")
	l := f.logs.seed(a.ID, uuid.New(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true)

	resp, err := f.svc.Create(context.Background(), slaughterReq(a.ID))
	require.NoError(t, err)
	assert.Equal(t, "S-001", resp.Eartag)
	assert.Equal(t, "2024-07-01", resp.Date)

	got, _ := f.animals.FindByID(context.Background(), a.ID)
	assert.True(t, got.IsSlaughtered)

	closed, _ := f.logs.FindByID(context.Background(), l.ID)
	assert.False(t, closed.IsActive)
	require.NotNil(t, closed.EndDate)
	assert.Equal(t, "2024-07-01", closed.EndDate.Format(dto.DateLayout))
}

func TestSlaughterCreate_SecondIsConflict(t *testing.T) {
	f := newSlaughterFixture()
	a := f.animals.seed("S-002")

	_, err := f.svc.Create(context.Background(), slaughterReq(a.ID))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), slaughterReq(a.ID))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, f.slaughters.slaughters, 1)
}

func TestSlaughterCreate_ExistingRowIsConflictEvenIfFlagIsClear(t *testing.T) {
	f := newSlaughterFixture()
	a := f.animals.seed("S-006")
	_, err := f.svc.Create(context.Background(), slaughterReq(a.ID))
	require.NoError(t, err)
	f.animals.animals[a.ID].IsSlaughtered = false
	f.slaughters.existsTx = nil

	_, err = f.svc.Create(context.Background(), slaughterReq(a.ID))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, f.slaughters.existsTx, 1, "checked once, inside the slaughter transaction")
	assert.Len(t, f.slaughters.slaughters, 1)
}

func TestSlaughterCreate_BadInput(t *testing.T) {
	f := newSlaughterFixture()
	a := f.animals.seed("S-003")

	req := slaughterReq(a.ID)
	req.Date = "July 1"
	_, err := f.svc.Create(context.Background(), req)
	var fe *FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "date")

	_, err = f.svc.Create(context.Background(), slaughterReq(uuid.New()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSlaughterUpdate_AnimalCannotChange(t *testing.T) {
	f := newSlaughterFixture()
	a := f.animals.seed("S-004")
	other := f.animals.seed("S-005")
	created, err := f.svc.Create(context.Background(), slaughterReq(a.ID))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), uuid.MustParse(created.ID), slaughterReq(other.ID))
	var fe *FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "animal_id")
}

func TestSlaughterDelete_ClearsFlag(t *testing.T) {
	f := newSlaughterFixture()
	a := f.animals.seed("S-006")
	created, err := f.svc.Create(context.Background(), slaughterReq(a.ID))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), uuid.MustParse(created.ID)))
	got, _ := f.animals.FindByID(context.Background(), a.ID)
	assert.False(t, got.IsSlaughtered)
}

func TestSlaughterProfit(t *testing.T) {
	f := newSlaughterFixture()
	a := f.animals.seed("S-007")
	a.Cost = d("1000")
	a.FeedCost = d("300")
	created, err := f.svc.Create(context.Background(), slaughterReq(a.ID))
	require.NoError(t, err)

	// revenue 10×250 = 2500, tax 2500×0.18 = 450, cost 1000+300+450 = 1750
	p, err := f.svc.Profit(context.Background(), uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "2500.00", p.Revenue.StringFixed(2))
	assert.Equal(t, "450.00", p.Tax.StringFixed(2))
	assert.Equal(t, "1750.00", p.TotalCost.StringFixed(2))
	assert.Equal(t, "750.00", p.Profit.StringFixed(2))

	b := f.animals.seed("S-008")
	_, err = f.svc.Create(context.Background(), slaughterReq(b.ID))
	require.NoError(t, err)

	total, err := f.svc.TotalProfit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total.Count)
	// second animal: 2500 − 450 = 2050
	assert.Equal(t, "2800.00", total.TotalProfit.StringFixed(2))
}

func TestSlaughterStatement_WritesPDF(t *testing.T) {
	f := newSlaughterFixture()
	co := f.companies.seed("Acme Farms")
	a := f.animals.seed("S-009")
	a.CompanyID = co.ID
	created, err := f.svc.Create(context.Background(), slaughterReq(a.ID))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteStatement(context.Background(), uuid.MustParse(created.ID), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
