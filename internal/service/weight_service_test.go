package service

import (
	"context"
	"testing"
	"time"

	"farmledger/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWeightFixture() (*weightService, *stubAnimalRepo, *stubWeightRepo, *stubGroupRepo, *stubMembershipRepo) {
	animals := newStubAnimalRepo()
	weights := newStubWeightRepo()
	groups := newStubGroupRepo()
	members := newStubMembershipRepo(groups)
	svc := NewWeightService(weights, animals, groups, members).(*weightService)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	return svc, animals, weights, groups, members
}

// ── Validation ───────────────────────────────────────────────────────────────

func TestWeightCreate(t *testing.T) {
	svc, animals, _, _, _ := newWeightFixture()
	a := animals.seed("W-001")

	resp, err := svc.Create(context.Background(), dto.WeightRequest{
		AnimalID: a.ID.String(), Weight: d("412.5"), RecordedAt: "2024-03-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", resp.RecordedAt)
	assert.True(t, resp.Weight.Equal(d("412.5")))
}

func TestWeightCreate_Validation(t *testing.T) {
	svc, animals, weights, _, _ := newWeightFixture()
	a := animals.seed("W-002")
	weights.seed(a.ID, "400", "2024-03-01")

	tests := []struct {
		name  string
		req   dto.WeightRequest
		field string
	}{
		{"zero weight", dto.WeightRequest{AnimalID: a.ID.String(), Weight: d("0"), RecordedAt: "2024-03-02"}, "weight"},
		{"negative weight", dto.WeightRequest{AnimalID: a.ID.String(), Weight: d("-3"), RecordedAt: "2024-03-02"}, "weight"},
		{"future date", dto.WeightRequest{AnimalID: a.ID.String(), Weight: d("400"), RecordedAt: "2024-03-16"}, "recorded_at"},
		{"bad date", dto.WeightRequest{AnimalID: a.ID.String(), Weight: d("400"), RecordedAt: "15/03/2024"}, "recorded_at"},
		{"same day twice", dto.WeightRequest{AnimalID: a.ID.String(), Weight: d("405"), RecordedAt: "2024-03-01"}, "recorded_at"},
		{"bad animal id", dto.WeightRequest{AnimalID: "x", Weight: d("405"), RecordedAt: "2024-03-02"}, "animal_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			var fe *FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe.Fields, tt.field)
		})
	}
}

func TestWeightCreate_UnknownAnimal(t *testing.T) {
	svc, _, _, _, _ := newWeightFixture()
	_, err := svc.Create(context.Background(), dto.WeightRequest{
		AnimalID: uuid.NewString(), Weight: d("400"), RecordedAt: "2024-03-01",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWeightUpdate_SameDayAllowedForSelf(t *testing.T) {
	svc, animals, weights, _, _ := newWeightFixture()
	a := animals.seed("W-003")
	w := weights.seed(a.ID, "400", "2024-03-01")

	resp, err := svc.Update(context.Background(), w.ID, dto.WeightRequest{
		AnimalID: a.ID.String(), Weight: d("402"), RecordedAt: "2024-03-01",
	})
	require.NoError(t, err)
	assert.True(t, resp.Weight.Equal(d("402")))
}

// ── Gain ─────────────────────────────────────────────────────────────────────

func TestDailyGain_LatestPair(t *testing.T) {
	svc, animals, weights, _, _ := newWeightFixture()
	a := animals.seed("W-010")
	weights.seed(a.ID, "300", "2024-01-01")
	weights.seed(a.ID, "350", "2024-02-01")
	weights.seed(a.ID, "380", "2024-02-11")

	resp, err := svc.DailyGain(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "W-010", resp.Eartag)
	assert.Equal(t, 10, resp.Days)
	assert.Equal(t, "2024-02-01", resp.FromDate)
	assert.Equal(t, "2024-02-11", resp.ToDate)
	assert.Equal(t, "3.00", resp.DailyGain.StringFixed(2))
}

func TestDailyGain_NotEnoughWeights(t *testing.T) {
	svc, animals, weights, _, _ := newWeightFixture()
	a := animals.seed("W-011")
	weights.seed(a.ID, "300", "2024-01-01")

	_, err := svc.DailyGain(context.Background(), a.ID)
	var fe *FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "weights")
}

func TestAllGain_History(t *testing.T) {
	svc, animals, weights, _, _ := newWeightFixture()
	a := animals.seed("W-012")
	weights.seed(a.ID, "300", "2024-01-01")
	weights.seed(a.ID, "330", "2024-01-11")
	weights.seed(a.ID, "350", "2024-01-21")

	resp, err := svc.AllGain(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, resp.GainHistory, 2)
	assert.Equal(t, "3.00", resp.GainHistory[0].DailyGain.StringFixed(2))
	assert.Equal(t, "2.00", resp.GainHistory[1].DailyGain.StringFixed(2))
}

func TestGroupDailyGain_PerMemberErrors(t *testing.T) {
	svc, animals, weights, groups, members := newWeightFixture()
	g := groups.seed("Pen 4", "0.02")

	ok := animals.seed("W-020")
	weights.seed(ok.ID, "300", "2024-01-01")
	weights.seed(ok.ID, "320", "2024-01-05")
	members.add(ok.ID, g.ID)

	sparse := animals.seed("W-021")
	weights.seed(sparse.ID, "300", "2024-01-01")
	members.add(sparse.ID, g.ID)

	resp, err := svc.GroupDailyGain(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pen 4", resp.GroupName)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, "W-020", resp.Results[0].Eartag)
	require.NotNil(t, resp.Results[0].DailyGain)
	assert.Equal(t, "5.00", resp.Results[0].DailyGain.DailyGain.StringFixed(2))
	assert.Empty(t, resp.Results[0].Error)

	assert.Equal(t, "W-021", resp.Results[1].Eartag)
	assert.Nil(t, resp.Results[1].DailyGain)
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestGroupAllGain(t *testing.T) {
	svc, animals, weights, groups, members := newWeightFixture()
	g := groups.seed("Pen 5", "0.02")
	a := animals.seed("W-030")
	weights.seed(a.ID, "300", "2024-01-01")
	weights.seed(a.ID, "310", "2024-01-03")
	weights.seed(a.ID, "330", "2024-01-08")
	members.add(a.ID, g.ID)
	empty := animals.seed("W-031")
	members.add(empty.ID, g.ID)

	resp, err := svc.GroupAllGain(context.Background(), g.ID)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Len(t, resp.Results[0].GainHistory, 2)
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestGroupGain_UnknownGroup(t *testing.T) {
	svc, _, _, _, _ := newWeightFixture()
	_, err := svc.GroupDailyGain(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
