// ABOUTME: Tests for per-entity CRUD and kind-generic dispatch
// ABOUTME: Covers round trips, nullable columns, NotFound, and unique email mapping
package db

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "owner@example.com")

	closeDate := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	deal := &models.Deal{
		Title:             "Big Deal",
		Value:             125000.5,
		Description:       strPtr("Annual contract"),
		Stage:             models.StageProposal,
		Probability:       60,
		ExpectedCloseDate: &closeDate,
		UserID:            "u1",
		CompanyID:         strPtr("c1"),
	}
	deal.Stamp("d1", testTime)

	if err := CreateDeal(ctx, db, deal); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}

	got, err := GetDeal(ctx, db, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Big Deal", got.Title)
	assert.Equal(t, 125000.5, got.Value)
	assert.Equal(t, models.StageProposal, got.Stage)
	assert.Equal(t, 60, got.Probability)
	require.NotNil(t, got.ExpectedCloseDate)
	assert.True(t, got.ExpectedCloseDate.Equal(closeDate))
	assert.Nil(t, got.ActualCloseDate)
	assert.Nil(t, got.ContactID)
	assert.Equal(t, "c1", *got.CompanyID)
	assert.True(t, got.CreatedAt.Equal(testTime))
	assert.True(t, got.UpdatedAt.Equal(got.CreatedAt))
}

func TestLeadRoundTripNullableColumns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	score := 80
	lead := &models.Lead{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Status:    models.LeadQualified,
		Score:     &score,
		UserID:    "u1",
	}
	lead.Stamp("l1", testTime)
	require.NoError(t, CreateLead(ctx, db, lead))

	got, err := GetLead(ctx, db, "l1")
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 80, *got.Score)
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.ConvertedToContactID)

	got.Score = nil
	got.Phone = strPtr("555-0199")
	got.Touch(testTime.Add(time.Hour))
	require.NoError(t, UpdateLead(ctx, db, got))

	again, err := GetLead(ctx, db, "l1")
	require.NoError(t, err)
	assert.Nil(t, again.Score)
	assert.Equal(t, "555-0199", *again.Phone)
	assert.True(t, again.UpdatedAt.After(again.CreatedAt))
}

func TestGetMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := GetContact(ctx, db, "nope")
	assert.True(t, crmerr.IsNotFound(err))

	_, err = GetRecord(ctx, db, models.KindActivity, "nope")
	assert.True(t, crmerr.IsNotFound(err))
}

func TestUpdateAndDeleteMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	n := &models.Note{Content: "ghost", UserID: "u1"}
	n.Stamp("missing", testTime)
	assert.True(t, crmerr.IsNotFound(UpdateNote(ctx, db, n)))
	assert.True(t, crmerr.IsNotFound(DeleteNote(ctx, db, "missing")))
	assert.True(t, crmerr.IsNotFound(DeleteRecord(ctx, db, models.KindCompany, "missing")))
}

func TestDeleteThenGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	c := &models.Company{Name: "Acme", UserID: "u1"}
	c.Stamp("c1", testTime)
	require.NoError(t, CreateCompany(ctx, db, c))
	require.NoError(t, DeleteCompany(ctx, db, "c1"))

	_, err := GetCompany(ctx, db, "c1")
	assert.True(t, crmerr.IsNotFound(err))
}

func TestDuplicateEmailIsValidationError(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1", "dup@example.com")

	u := &models.User{Email: "dup@example.com"}
	u.Stamp("u2", testTime)
	err := CreateUser(context.Background(), db, u)
	require.Error(t, err)
	assert.True(t, crmerr.IsValidation(err))
	assert.Equal(t, "email", crmerr.FieldOf(err))
}

func TestFindUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "ada@example.com")

	u, err := FindUserByEmail(ctx, db, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	u, err = FindUserByEmail(ctx, db, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGenericDispatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := &models.Activity{Title: "Call", Type: "CALL", Status: models.ActivityPending, Priority: models.PriorityHigh, UserID: "u1"}
	a.Stamp("a1", testTime)
	require.NoError(t, InsertRecord(ctx, db, a))

	rec, err := GetRecord(ctx, db, models.KindActivity, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Call", rec.Label())

	a.Title = "Follow-up call"
	require.NoError(t, UpdateRecord(ctx, db, a))

	recs, err := ListRecords(ctx, db, models.KindActivity)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Follow-up call", recs[0].Label())

	empty, err := ListRecords(ctx, db, models.KindNote)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListOrderedByCreation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i, id := range []string{"b", "a", "c"} {
		c := &models.Contact{FirstName: id, LastName: "X", Email: id + "@example.com", UserID: "u1"}
		c.Stamp(id, testTime.Add(time.Duration(i)*time.Minute))
		require.NoError(t, CreateContact(ctx, db, c))
	}

	contacts, err := ListContacts(ctx, db)
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	assert.Equal(t, "b", contacts[0].ID)
	assert.Equal(t, "a", contacts[1].ID)
	assert.Equal(t, "c", contacts[2].ID)
}
