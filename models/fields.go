// ABOUTME: Create and update payloads for every entity, one tri-state field per mutable column
// ABOUTME: ApplyTo merges a payload onto a record and reports which foreign keys it touched
package models

import (
	"time"

	"github.com/harperreed/crmcore/patch"
)

// Fields is implemented by pointers to every payload struct.
type Fields interface {
	Kind() Kind
}

type UserFields struct {
	Email patch.Field[string] `json:"email"`
	Name  patch.Field[string] `json:"name"`
}

type ContactFields struct {
	FirstName patch.Field[string] `json:"firstName"`
	LastName  patch.Field[string] `json:"lastName"`
	Email     patch.Field[string] `json:"email"`
	Phone     patch.Field[string] `json:"phone"`
	Address   patch.Field[string] `json:"address"`
	UserID    patch.Field[string] `json:"userId"`
	CompanyID patch.Field[string] `json:"companyId"`
}

type CompanyFields struct {
	Name        patch.Field[string]  `json:"name"`
	Industry    patch.Field[string]  `json:"industry"`
	Website     patch.Field[string]  `json:"website"`
	Phone       patch.Field[string]  `json:"phone"`
	Address     patch.Field[string]  `json:"address"`
	City        patch.Field[string]  `json:"city"`
	State       patch.Field[string]  `json:"state"`
	Country     patch.Field[string]  `json:"country"`
	Size        patch.Field[string]  `json:"size"`
	Revenue     patch.Field[float64] `json:"revenue"`
	Description patch.Field[string]  `json:"description"`
	UserID      patch.Field[string]  `json:"userId"`
}

type DealFields struct {
	Title             patch.Field[string]    `json:"title"`
	Value             patch.Field[float64]   `json:"value"`
	Description       patch.Field[string]    `json:"description"`
	Stage             patch.Field[DealStage] `json:"stage"`
	Probability       patch.Field[int]       `json:"probability"`
	ExpectedCloseDate patch.Field[time.Time] `json:"expectedCloseDate"`
	ActualCloseDate   patch.Field[time.Time] `json:"actualCloseDate"`
	UserID            patch.Field[string]    `json:"userId"`
	ContactID         patch.Field[string]    `json:"contactId"`
	CompanyID         patch.Field[string]    `json:"companyId"`
}

// LeadFields has no convertedToContactId; only conversion writes it.
type LeadFields struct {
	FirstName patch.Field[string]     `json:"firstName"`
	LastName  patch.Field[string]     `json:"lastName"`
	Email     patch.Field[string]     `json:"email"`
	Phone     patch.Field[string]     `json:"phone"`
	Company   patch.Field[string]     `json:"company"`
	JobTitle  patch.Field[string]     `json:"jobTitle"`
	Source    patch.Field[string]     `json:"source"`
	Status    patch.Field[LeadStatus] `json:"status"`
	Score     patch.Field[int]        `json:"score"`
	Notes     patch.Field[string]     `json:"notes"`
	UserID    patch.Field[string]     `json:"userId"`
}

type ActivityFields struct {
	Title       patch.Field[string]         `json:"title"`
	Type        patch.Field[string]         `json:"type"`
	Description patch.Field[string]         `json:"description"`
	Status      patch.Field[ActivityStatus] `json:"status"`
	DueDate     patch.Field[time.Time]      `json:"dueDate"`
	CompletedAt patch.Field[time.Time]      `json:"completedAt"`
	Priority    patch.Field[Priority]       `json:"priority"`
	UserID      patch.Field[string]         `json:"userId"`
	ContactID   patch.Field[string]         `json:"contactId"`
	CompanyID   patch.Field[string]         `json:"companyId"`
	DealID      patch.Field[string]         `json:"dealId"`
}

type NoteFields struct {
	Title     patch.Field[string] `json:"title"`
	Content   patch.Field[string] `json:"content"`
	UserID    patch.Field[string] `json:"userId"`
	ContactID patch.Field[string] `json:"contactId"`
	CompanyID patch.Field[string] `json:"companyId"`
	DealID    patch.Field[string] `json:"dealId"`
}

func (*UserFields) Kind() Kind     { return KindUser }
func (*ContactFields) Kind() Kind  { return KindContact }
func (*CompanyFields) Kind() Kind  { return KindCompany }
func (*DealFields) Kind() Kind     { return KindDeal }
func (*LeadFields) Kind() Kind     { return KindLead }
func (*ActivityFields) Kind() Kind { return KindActivity }
func (*NoteFields) Kind() Kind     { return KindNote }

// NewFields returns an empty payload for kind k.
func NewFields(k Kind) (Fields, error) {
	switch k {
	case KindUser:
		return &UserFields{}, nil
	case KindContact:
		return &ContactFields{}, nil
	case KindCompany:
		return &CompanyFields{}, nil
	case KindDeal:
		return &DealFields{}, nil
	case KindLead:
		return &LeadFields{}, nil
	case KindActivity:
		return &ActivityFields{}, nil
	case KindNote:
		return &NoteFields{}, nil
	}
	_, err := ParseKind(string(k))
	return nil, err
}

// DisplayKeys lists every field of a kind-k record in display order:
// id, the writable fields, then the system-managed ones.
func DisplayKeys(k Kind) []string {
	keys := []string{"id"}
	if fields, err := NewFields(k); err == nil {
		keys = append(keys, patch.Keys(fields)...)
	}
	if k == KindLead {
		keys = append(keys, "convertedToContactId")
	}
	return append(keys, "createdAt", "updatedAt")
}

// refSet collects the foreign keys a payload names with a non-null value.
type refSet []Ref

func (rs *refSet) add(field string, kind Kind, f patch.Field[string]) {
	if id, ok := f.Get(); ok {
		*rs = append(*rs, Ref{Field: field, Kind: kind, ID: id})
	}
}

func (in *UserFields) ApplyTo(u *User) ([]Ref, error) {
	if err := patch.Required(&u.Email, in.Email, "email"); err != nil {
		return nil, err
	}
	patch.Optional(&u.Name, in.Name)
	return nil, nil
}

func (in *ContactFields) ApplyTo(c *Contact) ([]Ref, error) {
	for _, r := range []struct {
		dst  *string
		f    patch.Field[string]
		name string
	}{
		{&c.FirstName, in.FirstName, "firstName"},
		{&c.LastName, in.LastName, "lastName"},
		{&c.Email, in.Email, "email"},
		{&c.UserID, in.UserID, "userId"},
	} {
		if err := patch.Required(r.dst, r.f, r.name); err != nil {
			return nil, err
		}
	}
	patch.Optional(&c.Phone, in.Phone)
	patch.Optional(&c.Address, in.Address)
	patch.Optional(&c.CompanyID, in.CompanyID)

	var refs refSet
	refs.add("userId", KindUser, in.UserID)
	refs.add("companyId", KindCompany, in.CompanyID)
	return refs, nil
}

func (in *CompanyFields) ApplyTo(c *Company) ([]Ref, error) {
	if err := patch.Required(&c.Name, in.Name, "name"); err != nil {
		return nil, err
	}
	if err := patch.Required(&c.UserID, in.UserID, "userId"); err != nil {
		return nil, err
	}
	patch.Optional(&c.Industry, in.Industry)
	patch.Optional(&c.Website, in.Website)
	patch.Optional(&c.Phone, in.Phone)
	patch.Optional(&c.Address, in.Address)
	patch.Optional(&c.City, in.City)
	patch.Optional(&c.State, in.State)
	patch.Optional(&c.Country, in.Country)
	patch.Optional(&c.Size, in.Size)
	patch.Optional(&c.Revenue, in.Revenue)
	patch.Optional(&c.Description, in.Description)

	var refs refSet
	refs.add("userId", KindUser, in.UserID)
	return refs, nil
}

func (in *DealFields) ApplyTo(d *Deal) ([]Ref, error) {
	if err := patch.Required(&d.Title, in.Title, "title"); err != nil {
		return nil, err
	}
	if err := patch.Required(&d.Value, in.Value, "value"); err != nil {
		return nil, err
	}
	if err := patch.Required(&d.Stage, in.Stage, "stage"); err != nil {
		return nil, err
	}
	if err := patch.Required(&d.Probability, in.Probability, "probability"); err != nil {
		return nil, err
	}
	if err := patch.Required(&d.UserID, in.UserID, "userId"); err != nil {
		return nil, err
	}
	patch.Optional(&d.Description, in.Description)
	patch.Optional(&d.ExpectedCloseDate, in.ExpectedCloseDate)
	patch.Optional(&d.ActualCloseDate, in.ActualCloseDate)
	patch.Optional(&d.ContactID, in.ContactID)
	patch.Optional(&d.CompanyID, in.CompanyID)

	var refs refSet
	refs.add("userId", KindUser, in.UserID)
	refs.add("contactId", KindContact, in.ContactID)
	refs.add("companyId", KindCompany, in.CompanyID)
	return refs, nil
}

func (in *LeadFields) ApplyTo(l *Lead) ([]Ref, error) {
	for _, r := range []struct {
		dst  *string
		f    patch.Field[string]
		name string
	}{
		{&l.FirstName, in.FirstName, "firstName"},
		{&l.LastName, in.LastName, "lastName"},
		{&l.Email, in.Email, "email"},
		{&l.UserID, in.UserID, "userId"},
	} {
		if err := patch.Required(r.dst, r.f, r.name); err != nil {
			return nil, err
		}
	}
	if err := patch.Required(&l.Status, in.Status, "status"); err != nil {
		return nil, err
	}
	patch.Optional(&l.Phone, in.Phone)
	patch.Optional(&l.Company, in.Company)
	patch.Optional(&l.JobTitle, in.JobTitle)
	patch.Optional(&l.Source, in.Source)
	patch.Optional(&l.Score, in.Score)
	patch.Optional(&l.Notes, in.Notes)

	var refs refSet
	refs.add("userId", KindUser, in.UserID)
	return refs, nil
}

func (in *ActivityFields) ApplyTo(a *Activity) ([]Ref, error) {
	if err := patch.Required(&a.Title, in.Title, "title"); err != nil {
		return nil, err
	}
	if err := patch.Required(&a.Type, in.Type, "type"); err != nil {
		return nil, err
	}
	if err := patch.Required(&a.Status, in.Status, "status"); err != nil {
		return nil, err
	}
	if err := patch.Required(&a.Priority, in.Priority, "priority"); err != nil {
		return nil, err
	}
	if err := patch.Required(&a.UserID, in.UserID, "userId"); err != nil {
		return nil, err
	}
	patch.Optional(&a.Description, in.Description)
	patch.Optional(&a.DueDate, in.DueDate)
	patch.Optional(&a.CompletedAt, in.CompletedAt)
	patch.Optional(&a.ContactID, in.ContactID)
	patch.Optional(&a.CompanyID, in.CompanyID)
	patch.Optional(&a.DealID, in.DealID)

	var refs refSet
	refs.add("userId", KindUser, in.UserID)
	refs.add("contactId", KindContact, in.ContactID)
	refs.add("companyId", KindCompany, in.CompanyID)
	refs.add("dealId", KindDeal, in.DealID)
	return refs, nil
}

func (in *NoteFields) ApplyTo(n *Note) ([]Ref, error) {
	if err := patch.Required(&n.Content, in.Content, "content"); err != nil {
		return nil, err
	}
	if err := patch.Required(&n.UserID, in.UserID, "userId"); err != nil {
		return nil, err
	}
	patch.Optional(&n.Title, in.Title)
	patch.Optional(&n.ContactID, in.ContactID)
	patch.Optional(&n.CompanyID, in.CompanyID)
	patch.Optional(&n.DealID, in.DealID)

	var refs refSet
	refs.add("userId", KindUser, in.UserID)
	refs.add("contactId", KindContact, in.ContactID)
	refs.add("companyId", KindCompany, in.CompanyID)
	refs.add("dealId", KindDeal, in.DealID)
	return refs, nil
}
