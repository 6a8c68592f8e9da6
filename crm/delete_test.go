// ABOUTME: Tests for the delete policy
// ABOUTME: Covers NotFound, restrictions, and detaching of dangling references
package crm

import (
	"context"
	"testing"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteThenGetIsNotFound(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	for _, kind := range []models.Kind{models.KindNote, models.KindActivity, models.KindLead} {
		payload := map[string]any{"userId": user.ID}
		switch kind {
		case models.KindNote:
			payload["content"] = "x"
		case models.KindActivity:
			payload["title"], payload["type"] = "x", "CALL"
		case models.KindLead:
			payload["firstName"], payload["lastName"], payload["email"] = "a", "b", "a@b.c"
		}
		rec, err := s.Create(ctx, kind, payload)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, kind, rec.RecordID()))
		_, err = s.Get(ctx, kind, rec.RecordID())
		assert.True(t, crmerr.IsNotFound(err), kind)
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	s, _ := setupTestService(t)
	for _, kind := range models.Kinds {
		err := s.Delete(context.Background(), kind, "ghost")
		assert.True(t, crmerr.IsNotFound(err), kind)
	}
}

func TestDeleteUserRestricted(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	note, err := s.Create(ctx, models.KindNote, map[string]any{"content": "x", "userId": user.ID})
	require.NoError(t, err)

	err = s.Delete(ctx, models.KindUser, user.ID)
	assert.True(t, crmerr.IsConflict(err))

	require.NoError(t, s.Delete(ctx, models.KindNote, note.RecordID()))
	require.NoError(t, s.Delete(ctx, models.KindUser, user.ID))
}

func TestDeleteCompanyDetachesReferences(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	company, err := s.Create(ctx, models.KindCompany, map[string]any{"name": "Acme", "userId": user.ID})
	require.NoError(t, err)
	contact, err := s.Create(ctx, models.KindContact, map[string]any{
		"firstName": "A", "lastName": "B", "email": "a@b.c", "userId": user.ID, "companyId": company.RecordID(),
	})
	require.NoError(t, err)
	deal, err := s.Create(ctx, models.KindDeal, map[string]any{
		"title": "D", "value": 1, "userId": user.ID, "companyId": company.RecordID(), "contactId": contact.RecordID(),
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, models.KindCompany, company.RecordID()))

	rec, err := s.Get(ctx, models.KindContact, contact.RecordID())
	require.NoError(t, err)
	assert.Nil(t, rec.(*models.Contact).CompanyID)

	rec, err = s.Get(ctx, models.KindDeal, deal.RecordID())
	require.NoError(t, err)
	assert.Nil(t, rec.(*models.Deal).CompanyID)
	assert.NotNil(t, rec.(*models.Deal).ContactID)

	_, err = s.Update(ctx, models.KindDeal, deal.RecordID(), map[string]any{"title": "Still valid"})
	assert.NoError(t, err)
}

func TestDeleteConvertedContactRestricted(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	lead := createTestLead(t, s, user.ID)

	conv, err := s.ConvertLead(ctx, lead.ID, nil)
	require.NoError(t, err)

	err = s.Delete(ctx, models.KindContact, conv.Contact.ID)
	assert.True(t, crmerr.IsConflict(err))

	_, err = s.Get(ctx, models.KindContact, conv.Contact.ID)
	require.NoError(t, err)
	rec, err := s.Get(ctx, models.KindLead, lead.ID)
	require.NoError(t, err)
	got := rec.(*models.Lead)
	require.NotNil(t, got.ConvertedToContactID)
	assert.Equal(t, conv.Contact.ID, *got.ConvertedToContactID)

	// Once the lead is gone the contact is an ordinary record again.
	require.NoError(t, s.Delete(ctx, models.KindLead, lead.ID))
	require.NoError(t, s.Delete(ctx, models.KindContact, conv.Contact.ID))
}
