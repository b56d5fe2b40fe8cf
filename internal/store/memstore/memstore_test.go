package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/store"
)

func newUser(name string, role models.Role) *models.User {
	return &models.User{
		Base:     models.NewBase(time.Now()),
		Username: name,
		Password: "hash",
		Role:     role,
	}
}

func TestCollection_InsertGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("alice", models.RoleMember)
	require.NoError(t, s.Users.Insert(ctx, u))

	got, err := s.Users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, models.RoleMember, got.Role)
	assert.Nil(t, got.CurrentMembership)

	_, err = s.Users.Get(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCollection_UniqueKeys(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Users.Insert(ctx, newUser("alice", models.RoleUser)))
	assert.ErrorIs(t, s.Users.Insert(ctx, newUser("alice", models.RoleAdmin)), store.ErrDuplicate)

	bob := newUser("bob", models.RoleUser)
	require.NoError(t, s.Users.Insert(ctx, bob))
	_, err := s.Users.Update(ctx, bob.ID, bson.M{"username": "alice"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// renaming to its own name is not a clash
	_, err = s.Users.Update(ctx, bob.ID, bson.M{"username": "bob"})
	assert.NoError(t, err)

	// bills carry no unique keys
	b1 := &models.Bill{Base: models.NewBase(time.Now()), Member: bob.ID, Amount: 10}
	b2 := &models.Bill{Base: models.NewBase(time.Now()), Member: bob.ID, Amount: 10}
	require.NoError(t, s.Bills.Insert(ctx, b1))
	require.NoError(t, s.Bills.Insert(ctx, b2))
}

func TestCollection_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := New()

	admin := newUser("admin", models.RoleAdmin)
	alice := newUser("alice", models.RoleMember)
	bob := newUser("bob", models.RoleUser)
	for _, u := range []*models.User{admin, alice, bob} {
		require.NoError(t, s.Users.Insert(ctx, u))
	}

	all, err := s.Users.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	members, err := s.Users.List(ctx, store.Filter{"role": models.RoleMember})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].Username)

	others, err := s.Users.List(ctx, store.Filter{"_id": bson.M{"$ne": admin.ID}})
	require.NoError(t, err)
	assert.Len(t, others, 2)

	picked, err := s.Users.List(ctx, store.Filter{"_id": bson.M{"$in": []primitive.ObjectID{admin.ID, bob.ID}}})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "admin", picked[0].Username)
	assert.Equal(t, "bob", picked[1].Username)

	none, err := s.Users.List(ctx, store.Filter{"role": "Owner"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.Users.List(ctx, store.Filter{"role": bson.M{"$regex": "A"}})
	assert.Error(t, err)
}

func TestCollection_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := &models.FeePackage{Base: models.NewBase(time.Now().Add(-time.Hour)), Name: "Gold", Duration: "3 Months", Cost: 90, Description: "desc"}
	require.NoError(t, s.FeePackages.Insert(ctx, p))

	updated, err := s.FeePackages.Update(ctx, p.ID, bson.M{"cost": 120.0})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Cost)
	assert.Equal(t, "Gold", updated.Name)
	assert.Equal(t, "3 Months", updated.Duration)
	assert.Equal(t, "desc", updated.Description)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = s.FeePackages.Update(ctx, primitive.NewObjectID(), bson.M{"cost": 1.0})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCollection_UpdatePointerFields(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("alice", models.RoleUser)
	require.NoError(t, s.Users.Insert(ctx, u))

	pkg := primitive.NewObjectID()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	got, err := s.Users.Update(ctx, u.ID, bson.M{
		"currentMembership":   pkg,
		"membershipStartDate": start,
		"membershipEndDate":   end,
		"role":                models.RoleMember,
	})
	require.NoError(t, err)
	require.NotNil(t, got.CurrentMembership)
	assert.Equal(t, pkg, *got.CurrentMembership)
	assert.True(t, start.Equal(*got.MembershipStartDate))
	assert.True(t, end.Equal(*got.MembershipEndDate))
	assert.Equal(t, models.RoleMember, got.Role)
}

func TestCollection_DeleteCountSum(t *testing.T) {
	ctx := context.Background()
	s := New()
	member := primitive.NewObjectID()

	bills := []*models.Bill{
		{Base: models.NewBase(time.Now()), Member: member, Amount: 50, Status: models.BillPaid},
		{Base: models.NewBase(time.Now()), Member: member, Amount: 25.5, Status: models.BillPaid},
		{Base: models.NewBase(time.Now()), Member: member, Amount: 99, Status: models.BillPending},
	}
	for _, b := range bills {
		require.NoError(t, s.Bills.Insert(ctx, b))
	}

	pending, err := s.Bills.Count(ctx, store.Filter{"status": models.BillPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	revenue, err := s.Bills.Sum(ctx, store.Filter{"status": models.BillPaid}, "amount")
	require.NoError(t, err)
	assert.InDelta(t, 75.5, revenue, 1e-9)

	require.NoError(t, s.Bills.Delete(ctx, bills[0].ID))
	assert.ErrorIs(t, s.Bills.Delete(ctx, bills[0].ID), store.ErrNotFound)

	total, err := s.Bills.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
