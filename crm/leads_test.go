// ABOUTME: Tests for lead status rules and lead conversion
// ABOUTME: Verifies conversion is one-shot and leaves nothing behind when it fails
package crm

import (
	"context"
	"testing"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLead(t *testing.T, s *Service, userID string) *models.Lead {
	t.Helper()
	lead, err := s.CreateLead(context.Background(), &models.LeadFields{
		FirstName: patch.Value("Grace"),
		LastName:  patch.Value("Hopper"),
		Email:     patch.Value("grace@example.com"),
		Phone:     patch.Value("555-0142"),
		Company:   patch.Value("Navy"),
		UserID:    patch.Value(userID),
	})
	require.NoError(t, err)
	return lead
}

func countContacts(t *testing.T, s *Service) int {
	t.Helper()
	recs, err := s.List(context.Background(), models.KindContact)
	require.NoError(t, err)
	return len(recs)
}

func TestLeadDefaultsToNew(t *testing.T) {
	s, _ := setupTestService(t)
	user := createTestUser(t, s, "owner@example.com")
	lead := createTestLead(t, s, user.ID)
	assert.Equal(t, models.LeadNew, lead.Status)
	assert.Nil(t, lead.ConvertedToContactID)
}

func TestConvertLeadTwice(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	lead := createTestLead(t, s, user.ID)

	conv, err := s.ConvertLead(ctx, lead.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Grace", conv.Contact.FirstName)
	assert.Equal(t, "Hopper", conv.Contact.LastName)
	assert.Equal(t, "grace@example.com", conv.Contact.Email)
	assert.Equal(t, "555-0142", *conv.Contact.Phone)
	assert.Equal(t, user.ID, conv.Contact.UserID)
	assert.Nil(t, conv.Contact.CompanyID)

	assert.Equal(t, models.LeadConverted, conv.Lead.Status)
	require.NotNil(t, conv.Lead.ConvertedToContactID)
	assert.Equal(t, conv.Contact.ID, *conv.Lead.ConvertedToContactID)

	stored, err := s.Get(ctx, models.KindLead, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadConverted, stored.(*models.Lead).Status)

	_, err = s.ConvertLead(ctx, lead.ID, nil)
	require.Error(t, err)
	assert.True(t, crmerr.IsConflict(err))
	assert.Equal(t, 1, countContacts(t, s))
}

func TestConvertLeadWithCompany(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	company, err := s.CreateCompany(ctx, &models.CompanyFields{Name: patch.Value("Navy"), UserID: patch.Value(user.ID)})
	require.NoError(t, err)
	lead := createTestLead(t, s, user.ID)

	conv, err := s.ConvertLead(ctx, lead.ID, &company.ID)
	require.NoError(t, err)
	require.NotNil(t, conv.Contact.CompanyID)
	assert.Equal(t, company.ID, *conv.Contact.CompanyID)
}

func TestConvertLeadMissingCompanyRollsBack(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	lead := createTestLead(t, s, user.ID)

	ghost := "ghost"
	_, err := s.ConvertLead(ctx, lead.ID, &ghost)
	require.Error(t, err)
	assert.True(t, crmerr.IsReference(err))
	assert.Equal(t, "companyId", crmerr.FieldOf(err))

	assert.Equal(t, 0, countContacts(t, s))
	stored, err := s.Get(ctx, models.KindLead, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadNew, stored.(*models.Lead).Status)
}

func TestConvertLeadMissing(t *testing.T) {
	s, _ := setupTestService(t)
	_, err := s.ConvertLead(context.Background(), "ghost", nil)
	assert.True(t, crmerr.IsNotFound(err))
}

func TestConvertLeadIsAtomic(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	lead := createTestLead(t, s, user.ID)

	_, err := s.DB().Exec(`CREATE TRIGGER block_lead_update BEFORE UPDATE ON leads
		BEGIN SELECT RAISE(ABORT, 'lead update blocked'); END`)
	require.NoError(t, err)

	_, err = s.ConvertLead(ctx, lead.ID, nil)
	require.Error(t, err)
	assert.True(t, crmerr.IsStorage(err))
	assert.Equal(t, 0, countContacts(t, s), "contact insert must roll back with the failed lead update")

	_, err = s.DB().Exec(`DROP TRIGGER block_lead_update`)
	require.NoError(t, err)

	conv, err := s.ConvertLead(ctx, lead.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.LeadConverted, conv.Lead.Status)
}

func TestLeadStatusRules(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	_, err := s.Create(ctx, models.KindLead, map[string]any{
		"firstName": "A", "lastName": "B", "email": "a@b.c", "userId": user.ID, "status": "Converted",
	})
	assert.True(t, crmerr.IsValidation(err))

	lead := createTestLead(t, s, user.ID)

	rec, err := s.Update(ctx, models.KindLead, lead.ID, map[string]any{"status": "Contacted"})
	require.NoError(t, err)
	assert.Equal(t, models.LeadContacted, rec.(*models.Lead).Status)

	_, err = s.Update(ctx, models.KindLead, lead.ID, map[string]any{"status": "Hot"})
	assert.True(t, crmerr.IsValidation(err))

	_, err = s.Update(ctx, models.KindLead, lead.ID, map[string]any{"status": "Converted"})
	assert.True(t, crmerr.IsConflict(err))

	_, err = s.Update(ctx, models.KindLead, lead.ID, map[string]any{"convertedToContactId": "x"})
	assert.True(t, crmerr.IsValidation(err))

	_, err = s.ConvertLead(ctx, lead.ID, nil)
	require.NoError(t, err)

	_, err = s.Update(ctx, models.KindLead, lead.ID, map[string]any{"status": "Qualified"})
	assert.True(t, crmerr.IsConflict(err))

	rec, err = s.Update(ctx, models.KindLead, lead.ID, map[string]any{"notes": "signed"})
	require.NoError(t, err)
	assert.Equal(t, models.LeadConverted, rec.(*models.Lead).Status)
	assert.Equal(t, "signed", *rec.(*models.Lead).Notes)
}
