// ABOUTME: Tests for create, update, and integrity behavior across entities
// ABOUTME: Covers absent versus null merging, reference failures, and round trips
package crm

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoundTrip(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	company, err := s.CreateCompany(ctx, &models.CompanyFields{
		Name:     patch.Value("Acme"),
		Industry: patch.Value("Manufacturing"),
		Revenue:  patch.Value(2.5e6),
		UserID:   patch.Value(user.ID),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, company.ID)
	assert.Equal(t, company.CreatedAt, company.UpdatedAt)

	rec, err := s.Get(ctx, models.KindCompany, company.ID)
	require.NoError(t, err)
	got := rec.(*models.Company)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "Manufacturing", *got.Industry)
	assert.Equal(t, 2.5e6, *got.Revenue)
	assert.Nil(t, got.Website)
	assert.Equal(t, user.ID, got.UserID)
	assert.True(t, got.CreatedAt.Equal(company.CreatedAt))
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestCreateWithMissingReferenceWritesNothing(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	tests := []struct {
		name    string
		kind    models.Kind
		payload map[string]any
		field   string
	}{
		{"contact company", models.KindContact, map[string]any{"firstName": "A", "lastName": "B", "email": "a@b.c", "userId": user.ID, "companyId": "nope"}, "companyId"},
		{"contact user", models.KindContact, map[string]any{"firstName": "A", "lastName": "B", "email": "a@b.c", "userId": "ghost"}, "userId"},
		{"company user", models.KindCompany, map[string]any{"name": "Acme", "userId": "ghost"}, "userId"},
		{"deal contact", models.KindDeal, map[string]any{"title": "D", "value": 10, "userId": user.ID, "contactId": "nope"}, "contactId"},
		{"deal company", models.KindDeal, map[string]any{"title": "D", "value": 10, "userId": user.ID, "companyId": "nope"}, "companyId"},
		{"lead user", models.KindLead, map[string]any{"firstName": "A", "lastName": "B", "email": "a@b.c", "userId": "ghost"}, "userId"},
		{"activity deal", models.KindActivity, map[string]any{"title": "Call", "type": "CALL", "userId": user.ID, "dealId": "nope"}, "dealId"},
		{"note contact", models.KindNote, map[string]any{"content": "hi", "userId": user.ID, "contactId": "nope"}, "contactId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.kind, tt.payload)
			require.Error(t, err)
			assert.True(t, crmerr.IsReference(err), "got %v", err)
			assert.Equal(t, tt.field, crmerr.FieldOf(err))

			recs, err := s.List(ctx, tt.kind)
			require.NoError(t, err)
			assert.Empty(t, recs)
		})
	}
}

func TestCreateMissingUserIDIsValidation(t *testing.T) {
	s, _ := setupTestService(t)
	_, err := s.Create(context.Background(), models.KindNote, map[string]any{"content": "orphan"})
	require.Error(t, err)
	assert.True(t, crmerr.IsValidation(err))
	assert.Equal(t, "userId", crmerr.FieldOf(err))

	_, err = s.Create(context.Background(), models.KindNote, map[string]any{"content": "orphan", "userId": nil})
	assert.True(t, crmerr.IsValidation(err))
}

func TestCreateRequiresFields(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	_, err := s.Create(ctx, models.KindDeal, map[string]any{"title": "No value", "userId": user.ID})
	assert.Equal(t, "value", crmerr.FieldOf(err))

	_, err = s.Create(ctx, models.KindUser, map[string]any{"name": "No email"})
	assert.Equal(t, "email", crmerr.FieldOf(err))

	_, err = s.Create(ctx, models.KindActivity, map[string]any{"title": "No type", "userId": user.ID})
	assert.Equal(t, "type", crmerr.FieldOf(err))
}

func TestDealDefaultsAndCoercion(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	rec, err := s.Create(ctx, models.KindDeal, map[string]any{
		"title":             "Renewal",
		"value":             "1500.50",
		"expectedCloseDate": "2025-12-31",
		"userId":            user.ID,
	})
	require.NoError(t, err)
	deal := rec.(*models.Deal)
	assert.Equal(t, models.StageLead, deal.Stage)
	assert.Equal(t, 0, deal.Probability)
	assert.Equal(t, 1500.50, deal.Value)
	assert.True(t, deal.ExpectedCloseDate.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))

	_, err = s.Create(ctx, models.KindDeal, map[string]any{"title": "Bad", "value": "a lot", "userId": user.ID})
	assert.True(t, crmerr.IsValidation(err))
	assert.Equal(t, "value", crmerr.FieldOf(err))
}

func TestDealProbabilityBounds(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	_, err := s.Create(ctx, models.KindDeal, map[string]any{"title": "Too sure", "value": 1, "probability": 150, "userId": user.ID})
	require.Error(t, err)
	assert.True(t, crmerr.IsValidation(err))
	assert.Equal(t, "probability", crmerr.FieldOf(err))

	for _, p := range []any{100, 0, "55"} {
		_, err := s.Create(ctx, models.KindDeal, map[string]any{"title": "OK", "value": 1, "probability": p, "userId": user.ID})
		assert.NoError(t, err, "probability %v", p)
	}

	deals, err := s.List(ctx, models.KindDeal)
	require.NoError(t, err)
	assert.Len(t, deals, 3)
}

func TestUpdateAbsentKeepsNullClears(t *testing.T) {
	s, clock := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	company, err := s.CreateCompany(ctx, &models.CompanyFields{Name: patch.Value("Acme"), UserID: patch.Value(user.ID)})
	require.NoError(t, err)

	contact, err := s.Create(ctx, models.KindContact, map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"phone":     "555-0100",
		"address":   "12 Analytical Way",
		"userId":    user.ID,
		"companyId": company.ID,
	})
	require.NoError(t, err)
	id := contact.RecordID()

	nullable := map[string]string{"phone": "555-0100", "address": "12 Analytical Way", "companyId": company.ID}
	for field, original := range nullable {
		t.Run(field, func(t *testing.T) {
			clock.Advance(time.Minute)

			rec, err := s.Update(ctx, models.KindContact, id, map[string]any{"lastName": "Byron"})
			require.NoError(t, err)
			m, err := models.AsMap(rec)
			require.NoError(t, err)
			assert.Equal(t, original, m[field], "absent key must keep %s", field)

			rec, err = s.Update(ctx, models.KindContact, id, map[string]any{field: nil})
			require.NoError(t, err)
			m, err = models.AsMap(rec)
			require.NoError(t, err)
			assert.Nil(t, m[field], "null must clear %s", field)
			assert.Equal(t, "Byron", m["lastName"])

			_, err = s.Update(ctx, models.KindContact, id, map[string]any{field: original})
			require.NoError(t, err)
		})
	}

	rec, err := s.Get(ctx, models.KindContact, id)
	require.NoError(t, err)
	got := rec.(*models.Contact)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestUpdateNullableFieldsEveryKind(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	company, err := s.CreateCompany(ctx, &models.CompanyFields{Name: patch.Value("Acme"), UserID: patch.Value(user.ID)})
	require.NoError(t, err)
	contact, err := s.CreateContact(ctx, &models.ContactFields{
		FirstName: patch.Value("A"), LastName: patch.Value("B"), Email: patch.Value("a@b.c"), UserID: patch.Value(user.ID),
	})
	require.NoError(t, err)
	deal, err := s.CreateDeal(ctx, &models.DealFields{Title: patch.Value("D"), Value: patch.Value(10.0), UserID: patch.Value(user.ID)})
	require.NoError(t, err)

	cases := []struct {
		kind   models.Kind
		create map[string]any
		fields map[string]any
	}{
		{models.KindUser, map[string]any{"email": "second@example.com"}, map[string]any{"name": "Second"}},
		{models.KindCompany, map[string]any{"name": "Globex", "userId": user.ID}, map[string]any{
			"industry": "Energy", "website": "globex.example", "phone": "555", "address": "1 Main", "city": "Springfield",
			"state": "OR", "country": "US", "size": "500+", "revenue": 1e7, "description": "Utility",
		}},
		{models.KindDeal, map[string]any{"title": "Upsell", "value": 5, "userId": user.ID}, map[string]any{
			"description": "More seats", "expectedCloseDate": "2025-07-01T00:00:00Z", "actualCloseDate": "2025-07-02T00:00:00Z",
			"contactId": contact.ID, "companyId": company.ID,
		}},
		{models.KindLead, map[string]any{"firstName": "L", "lastName": "M", "email": "l@m.n", "userId": user.ID}, map[string]any{
			"phone": "555", "company": "Initech", "jobTitle": "CTO", "source": "Referral", "score": 70, "notes": "warm",
		}},
		{models.KindActivity, map[string]any{"title": "Call", "type": "CALL", "userId": user.ID}, map[string]any{
			"description": "Intro", "dueDate": "2025-06-01T09:00:00Z", "completedAt": "2025-06-01T10:00:00Z",
			"contactId": contact.ID, "companyId": company.ID, "dealId": deal.ID,
		}},
		{models.KindNote, map[string]any{"content": "hello", "userId": user.ID}, map[string]any{
			"title": "Greeting", "contactId": contact.ID, "companyId": company.ID, "dealId": deal.ID,
		}},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			rec, err := s.Create(ctx, tc.kind, tc.create)
			require.NoError(t, err)
			id := rec.RecordID()

			_, err = s.Update(ctx, tc.kind, id, tc.fields)
			require.NoError(t, err)

			cleared := map[string]bool{}
			for field := range tc.fields {
				rec, err := s.Update(ctx, tc.kind, id, map[string]any{field: nil})
				require.NoError(t, err, field)
				cleared[field] = true

				m, err := models.AsMap(rec)
				require.NoError(t, err)
				assert.Nil(t, m[field], "null must clear %s.%s", tc.kind, field)
				for other := range tc.fields {
					if !cleared[other] {
						assert.NotNil(t, m[other], "absent %s.%s must be kept", tc.kind, other)
					}
				}
			}
		})
	}
}

func TestUpdateAbsentLeavesEveryFieldUnchanged(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	rec, err := s.Create(ctx, models.KindLead, map[string]any{
		"firstName": "L", "lastName": "M", "email": "l@m.n", "userId": user.ID,
		"phone": "555", "company": "Initech", "jobTitle": "CTO", "source": "Referral", "score": 70, "notes": "warm",
	})
	require.NoError(t, err)
	before, err := models.AsMap(rec)
	require.NoError(t, err)

	rec, err = s.Update(ctx, models.KindLead, rec.RecordID(), map[string]any{})
	require.NoError(t, err)
	after, err := models.AsMap(rec)
	require.NoError(t, err)

	for _, field := range []string{"phone", "company", "jobTitle", "source", "score", "notes", "status", "firstName"} {
		assert.Equal(t, before[field], after[field], field)
	}
}

func TestUpdateRejectsNullOnRequiredField(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	_, err := s.Update(ctx, models.KindUser, user.ID, map[string]any{"email": nil})
	assert.True(t, crmerr.IsValidation(err))

	got, err := s.Get(ctx, models.KindUser, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", got.(*models.User).Email)
}

func TestUpdateReferenceChecksOnlyChangedKeys(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	note, err := s.Create(ctx, models.KindNote, map[string]any{"content": "hi", "userId": user.ID})
	require.NoError(t, err)

	_, err = s.Update(ctx, models.KindNote, note.RecordID(), map[string]any{"dealId": "ghost", "content": "changed"})
	require.Error(t, err)
	assert.True(t, crmerr.IsReference(err))
	assert.Equal(t, "dealId", crmerr.FieldOf(err))

	rec, err := s.Get(ctx, models.KindNote, note.RecordID())
	require.NoError(t, err)
	assert.Equal(t, "hi", rec.(*models.Note).Content, "failed update must not write")

	_, err = s.Update(ctx, models.KindNote, note.RecordID(), map[string]any{"dealId": nil})
	assert.NoError(t, err)
}

func TestUpdateCoercionFailureLeavesRecord(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")
	company, err := s.CreateCompany(ctx, &models.CompanyFields{Name: patch.Value("Acme"), Revenue: patch.Value(10.0), UserID: patch.Value(user.ID)})
	require.NoError(t, err)

	_, err = s.Update(ctx, models.KindCompany, company.ID, map[string]any{"name": "Renamed", "revenue": "ten"})
	require.Error(t, err)
	assert.True(t, crmerr.IsValidation(err))

	rec, err := s.Get(ctx, models.KindCompany, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.(*models.Company).Name)
	assert.Equal(t, 10.0, *rec.(*models.Company).Revenue)
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	s, _ := setupTestService(t)
	_, err := s.Update(context.Background(), models.KindDeal, "ghost", map[string]any{"title": "x"})
	assert.True(t, crmerr.IsNotFound(err))
}

func TestUpdateRejectsUnknownAndReadOnlyKeys(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	user := createTestUser(t, s, "owner@example.com")

	for _, key := range []string{"id", "createdAt", "updatedAt", "nickname"} {
		_, err := s.Update(ctx, models.KindUser, user.ID, map[string]any{key: "x"})
		assert.True(t, crmerr.IsValidation(err), key)
		assert.Equal(t, key, crmerr.FieldOf(err))
	}
}

func TestDuplicateUserEmail(t *testing.T) {
	s, _ := setupTestService(t)
	createTestUser(t, s, "dup@example.com")

	_, err := s.Create(context.Background(), models.KindUser, map[string]any{"email": "dup@example.com"})
	assert.True(t, crmerr.IsValidation(err))
	assert.Equal(t, "email", crmerr.FieldOf(err))
}

func TestChangingOwnerChecksUser(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	first := createTestUser(t, s, "first@example.com")
	second := createTestUser(t, s, "second@example.com")

	rec, err := s.Create(ctx, models.KindCompany, map[string]any{"name": "Acme", "userId": first.ID})
	require.NoError(t, err)

	_, err = s.Update(ctx, models.KindCompany, rec.RecordID(), map[string]any{"userId": "ghost"})
	assert.True(t, crmerr.IsReference(err))

	rec, err = s.Update(ctx, models.KindCompany, rec.RecordID(), map[string]any{"userId": second.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, rec.OwnerID())
}

func TestUnknownKind(t *testing.T) {
	s, _ := setupTestService(t)
	_, err := s.Create(context.Background(), models.Kind("product"), map[string]any{})
	assert.Error(t, err)
}
