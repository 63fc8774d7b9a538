package service

import (
	"context"
	"testing"

	"farmledger/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupFixture struct {
	animals *stubAnimalRepo
	groups  *stubGroupRepo
	members *stubMembershipRepo
	svc     GroupService
}

func newGroupFixture() *groupFixture {
	f := &groupFixture{animals: newStubAnimalRepo(), groups: newStubGroupRepo()}
	f.members = newStubMembershipRepo(f.groups)
	f.svc = NewGroupService(f.groups, f.members, f.animals)
	return f
}

func memberReq(animalID, groupID uuid.UUID) dto.AnimalGroupRequest {
	return dto.AnimalGroupRequest{AnimalID: animalID.String(), GroupID: groupID.String()}
}

// ── Groups ───────────────────────────────────────────────────────────────────

func TestGroupCreateUpdate(t *testing.T) {
	f := newGroupFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.GroupRequest{Name: "Finishers", DryMatter: d("0.025")})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	updated, err := f.svc.Update(ctx, id, dto.GroupRequest{Name: "Finishers", DryMatter: d("0.03")})
	require.NoError(t, err)
	assert.True(t, updated.DryMatter.Equal(d("0.03")))

	_, err = f.svc.Update(ctx, uuid.New(), dto.GroupRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Memberships ──────────────────────────────────────────────────────────────

func TestAddMembers_Bulk(t *testing.T) {
	f := newGroupFixture()
	g := f.groups.seed("Pen 4", "0.025")
	a := f.animals.seed("G-001")
	b := f.animals.seed("G-002")

	out, err := f.svc.AddMembers(context.Background(), []dto.AnimalGroupRequest{memberReq(a.ID, g.ID), memberReq(b.ID, g.ID)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "G-001", out[0].Eartag)
	assert.Equal(t, "Pen 4", out[1].GroupName)
	assert.NotEqual(t, uuid.Nil.String(), out[0].ID)

	ids, _ := f.members.MemberIDs(context.Background(), g.ID)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)
}

func TestAddMembers_DuplicatePairIsConflict(t *testing.T) {
	f := newGroupFixture()
	ctx := context.Background()
	g := f.groups.seed("Pen 5", "0.025")
	a := f.animals.seed("G-003")
	b := f.animals.seed("G-004")
	f.members.add(a.ID, g.ID)

	_, err := f.svc.AddMembers(ctx, []dto.AnimalGroupRequest{memberReq(b.ID, g.ID), memberReq(a.ID, g.ID)})
	assert.ErrorIs(t, err, ErrConflict, "already stored")
	assert.Len(t, f.members.members, 1, "nothing is added when one pair fails")

	_, err = f.svc.AddMembers(ctx, []dto.AnimalGroupRequest{memberReq(b.ID, g.ID), memberReq(b.ID, g.ID)})
	assert.ErrorIs(t, err, ErrConflict, "repeated within the request")
	assert.Len(t, f.members.members, 1)
}

func TestAddMembers_BadInput(t *testing.T) {
	f := newGroupFixture()
	ctx := context.Background()
	g := f.groups.seed("Pen 6", "0.025")
	a := f.animals.seed("G-005")

	_, err := f.svc.AddMembers(ctx, nil)
	var fe *FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "memberships")

	_, err = f.svc.AddMembers(ctx, []dto.AnimalGroupRequest{{AnimalID: "x", GroupID: g.ID.String()}})
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "animal_id")

	_, err = f.svc.AddMembers(ctx, []dto.AnimalGroupRequest{memberReq(uuid.New(), g.ID)})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.AddMembers(ctx, []dto.AnimalGroupRequest{memberReq(a.ID, uuid.New())})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMember_IntoExistingPairIsConflict(t *testing.T) {
	f := newGroupFixture()
	ctx := context.Background()
	pen1 := f.groups.seed("Pen 1", "0.02")
	pen2 := f.groups.seed("Pen 2", "0.03")
	a := f.animals.seed("G-006")
	f.members.add(a.ID, pen1.ID)
	f.members.add(a.ID, pen2.ID)
	first := f.members.members[0].ID

	_, err := f.svc.UpdateMember(ctx, first, memberReq(a.ID, pen2.ID))
	assert.ErrorIs(t, err, ErrConflict)

	resp, err := f.svc.UpdateMember(ctx, first, memberReq(a.ID, pen1.ID))
	require.NoError(t, err, "keeping its own pair is not a conflict")
	assert.Equal(t, "Pen 1", resp.GroupName)
}

func TestListAndRemoveMembers(t *testing.T) {
	f := newGroupFixture()
	ctx := context.Background()
	g := f.groups.seed("Pen 7", "0.025")
	other := f.groups.seed("Pen 8", "0.025")
	a := f.animals.seed("G-007")
	f.members.add(a.ID, g.ID)
	f.members.add(a.ID, other.ID)

	rows, err := f.svc.ListMembers(ctx, dto.AnimalGroupFilter{GroupID: g.ID.String()})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = f.svc.ListMembers(ctx, dto.AnimalGroupFilter{AnimalID: "nope"})
	var fe *FieldErrors
	assert.ErrorAs(t, err, &fe)

	id := uuid.MustParse(rows[0].ID)
	require.NoError(t, f.svc.RemoveMember(ctx, id))
	assert.ErrorIs(t, f.svc.RemoveMember(ctx, id), ErrNotFound)
	rows, _ = f.svc.ListMembers(ctx, dto.AnimalGroupFilter{AnimalID: a.ID.String()})
	assert.Len(t, rows, 1)
}
