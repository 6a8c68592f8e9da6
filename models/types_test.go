// ABOUTME: Tests for CRM data models
// ABOUTME: Validates kind parsing, merge semantics, references, and record validation
package models

import (
	"testing"
	"time"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"deal":       KindDeal,
		"Deals":      KindDeal,
		"companies":  KindCompany,
		" activity ": KindActivity,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("product")
	assert.Error(t, err)

	assert.Equal(t, "activities", KindActivity.Table())
	assert.Equal(t, "Company", KindCompany.Title())
}

func TestConstructorsApplyDefaults(t *testing.T) {
	deal := NewDeal()
	assert.Equal(t, StageLead, deal.Stage)
	assert.Equal(t, 0, deal.Probability)

	assert.Equal(t, LeadNew, NewLead().Status)

	activity := NewActivity()
	assert.Equal(t, ActivityPending, activity.Status)
	assert.Equal(t, PriorityMedium, activity.Priority)
}

func TestContactMergeAbsentNullValue(t *testing.T) {
	c := &Contact{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     strPtr("555-0100"),
		Address:   strPtr("12 Analytical Way"),
		UserID:    "u1",
		CompanyID: strPtr("c1"),
	}

	in := &ContactFields{
		Phone:     patch.Null[string](),
		CompanyID: patch.Value("c2"),
	}
	refs, err := in.ApplyTo(c)
	require.NoError(t, err)

	assert.Nil(t, c.Phone, "null clears")
	require.NotNil(t, c.Address, "absent keeps")
	assert.Equal(t, "12 Analytical Way", *c.Address)
	assert.Equal(t, "c2", *c.CompanyID)
	assert.Equal(t, "Ada", c.FirstName)
	assert.Equal(t, []Ref{{Field: "companyId", Kind: KindCompany, ID: "c2"}}, refs)
}

func TestNullOnRequiredFieldRejected(t *testing.T) {
	c := &Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", UserID: "u1"}
	_, err := (&ContactFields{LastName: patch.Null[string]()}).ApplyTo(c)
	require.Error(t, err)
	assert.True(t, crmerr.IsValidation(err))
	assert.Equal(t, "lastName", crmerr.FieldOf(err))
}

func TestNullForeignKeyIsNotAReference(t *testing.T) {
	n := &Note{Content: "hi", UserID: "u1", DealID: strPtr("d1")}
	refs, err := (&NoteFields{DealID: patch.Null[string]()}).ApplyTo(n)
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.Nil(t, n.DealID)
}

func TestReferences(t *testing.T) {
	a := &Activity{UserID: "u1", DealID: strPtr("d1")}
	assert.Equal(t, []Ref{
		{Field: "userId", Kind: KindUser, ID: "u1"},
		{Field: "dealId", Kind: KindDeal, ID: "d1"},
	}, a.References())

	assert.Empty(t, (&User{}).References())
}

func TestDealValidation(t *testing.T) {
	for _, p := range []int{0, 100, 55} {
		d := &Deal{Title: "Deal", UserID: "u1", Stage: StageLead, Probability: p}
		assert.NoError(t, d.Validate(), p)
	}

	for _, p := range []int{-1, 101, 150} {
		d := &Deal{Title: "Deal", UserID: "u1", Stage: StageLead, Probability: p}
		err := d.Validate()
		assert.True(t, crmerr.IsValidation(err), p)
		assert.Equal(t, "probability", crmerr.FieldOf(err))
	}

	d := &Deal{Title: "Deal", UserID: "u1", Stage: "WON"}
	assert.Equal(t, "stage", crmerr.FieldOf(d.Validate()))
}

func TestRequiredFieldsRejectBlank(t *testing.T) {
	err := (&Company{Name: "  ", UserID: "u1"}).Validate()
	assert.Equal(t, "name", crmerr.FieldOf(err))

	err = (&Activity{Title: "Call", UserID: "u1", Status: ActivityPending, Priority: PriorityMedium}).Validate()
	assert.Equal(t, "type", crmerr.FieldOf(err))

	err = (&Lead{FirstName: "A", LastName: "B", Email: "a@b.c", UserID: "u1", Status: "Hot"}).Validate()
	assert.Equal(t, "status", crmerr.FieldOf(err))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "ada@example.com", (&User{Email: "ada@example.com"}).Label())
	assert.Equal(t, "Ada", (&User{Email: "ada@example.com", Name: strPtr("Ada")}).Label())
	assert.Equal(t, "Ada Lovelace", (&Lead{FirstName: "Ada", LastName: "Lovelace"}).Label())
	assert.Equal(t, "Short note", (&Note{Content: " Short note "}).Label())
	assert.Len(t, []rune((&Note{Content: "This note is considerably longer than forty characters in total"}).Label()), 40)
}

func TestAsMapUsesJSONNames(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	d := &Deal{Title: "Renewal", Value: 1200, Stage: StageProposal, UserID: "u1"}
	d.Stamp("d1", at)

	m, err := AsMap(d)
	require.NoError(t, err)
	assert.Equal(t, "d1", m["id"])
	assert.Equal(t, "Renewal", m["title"])
	assert.Equal(t, "PROPOSAL", m["stage"])
	assert.Equal(t, "u1", m["userId"])
	assert.Nil(t, m["contactId"])
	assert.Equal(t, m["createdAt"], m["updatedAt"])
}

func TestDisplayKeys(t *testing.T) {
	assert.Equal(t, []string{"id", "email", "name", "createdAt", "updatedAt"}, DisplayKeys(KindUser))

	lead := DisplayKeys(KindLead)
	assert.Equal(t, "id", lead[0])
	assert.Contains(t, lead, "convertedToContactId")
	assert.Equal(t, []string{"createdAt", "updatedAt"}, lead[len(lead)-2:])

	assert.NotContains(t, DisplayKeys(KindContact), "convertedToContactId")
}
