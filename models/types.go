// ABOUTME: Data models for CRM entities
// ABOUTME: Defines User, Contact, Company, Deal, Lead, Activity, and Note records
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Meta holds the identity and timestamps every record shares.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) RecordID() string { return m.ID }

// Stamp assigns identity on create; createdAt and updatedAt start equal.
func (m *Meta) Stamp(id string, at time.Time) {
	m.ID = id
	m.CreatedAt = at
	m.UpdatedAt = at
}

func (m *Meta) Touch(at time.Time) { m.UpdatedAt = at }

// Record is implemented by pointers to every entity struct.
type Record interface {
	RecordKind() Kind
	RecordID() string
	OwnerID() string
	Label() string
	// References returns every non-null foreign key the record holds.
	References() []Ref
	Validate() error
	Stamp(id string, at time.Time)
	Touch(at time.Time)
}

type User struct {
	Meta
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type Contact struct {
	Meta
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	UserID    string  `json:"userId"`
	CompanyID *string `json:"companyId"`
}

type Company struct {
	Meta
	Name        string   `json:"name"`
	Industry    *string  `json:"industry"`
	Website     *string  `json:"website"`
	Phone       *string  `json:"phone"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Country     *string  `json:"country"`
	Size        *string  `json:"size"`
	Revenue     *float64 `json:"revenue"`
	Description *string  `json:"description"`
	UserID      string   `json:"userId"`
}

type Deal struct {
	Meta
	Title             string     `json:"title"`
	Value             float64    `json:"value"`
	Description       *string    `json:"description"`
	Stage             DealStage  `json:"stage"`
	Probability       int        `json:"probability"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	ActualCloseDate   *time.Time `json:"actualCloseDate"`
	UserID            string     `json:"userId"`
	ContactID         *string    `json:"contactId"`
	CompanyID         *string    `json:"companyId"`
}

type Lead struct {
	Meta
	FirstName            string     `json:"firstName"`
	LastName             string     `json:"lastName"`
	Email                string     `json:"email"`
	Phone                *string    `json:"phone"`
	Company              *string    `json:"company"`
	JobTitle             *string    `json:"jobTitle"`
	Source               *string    `json:"source"`
	Status               LeadStatus `json:"status"`
	Score                *int       `json:"score"`
	Notes                *string    `json:"notes"`
	ConvertedToContactID *string    `json:"convertedToContactId"`
	UserID               string     `json:"userId"`
}

type Activity struct {
	Meta
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	Description *string        `json:"description"`
	Status      ActivityStatus `json:"status"`
	DueDate     *time.Time     `json:"dueDate"`
	CompletedAt *time.Time     `json:"completedAt"`
	Priority    Priority       `json:"priority"`
	UserID      string         `json:"userId"`
	ContactID   *string        `json:"contactId"`
	CompanyID   *string        `json:"companyId"`
	DealID      *string        `json:"dealId"`
}

type Note struct {
	Meta
	Title     *string `json:"title"`
	Content   string  `json:"content"`
	UserID    string  `json:"userId"`
	ContactID *string `json:"contactId"`
	CompanyID *string `json:"companyId"`
	DealID    *string `json:"dealId"`
}

func (*User) RecordKind() Kind     { return KindUser }
func (*Contact) RecordKind() Kind  { return KindContact }
func (*Company) RecordKind() Kind  { return KindCompany }
func (*Deal) RecordKind() Kind     { return KindDeal }
func (*Lead) RecordKind() Kind     { return KindLead }
func (*Activity) RecordKind() Kind { return KindActivity }
func (*Note) RecordKind() Kind     { return KindNote }

func (*User) OwnerID() string       { return "" }
func (c *Contact) OwnerID() string  { return c.UserID }
func (c *Company) OwnerID() string  { return c.UserID }
func (d *Deal) OwnerID() string     { return d.UserID }
func (l *Lead) OwnerID() string     { return l.UserID }
func (a *Activity) OwnerID() string { return a.UserID }
func (n *Note) OwnerID() string     { return n.UserID }

func (u *User) Label() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

func (c *Contact) Label() string  { return fullName(c.FirstName, c.LastName) }
func (c *Company) Label() string  { return c.Name }
func (d *Deal) Label() string     { return d.Title }
func (l *Lead) Label() string     { return fullName(l.FirstName, l.LastName) }
func (a *Activity) Label() string { return a.Title }

func (n *Note) Label() string {
	if n.Title != nil && *n.Title != "" {
		return *n.Title
	}
	content := strings.TrimSpace(n.Content)
	if len([]rune(content)) > 40 {
		return string([]rune(content)[:37]) + "..."
	}
	return content
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func (*User) References() []Ref { return nil }

func (c *Contact) References() []Ref {
	refs := appendRef(nil, "userId", KindUser, &c.UserID)
	return appendRef(refs, "companyId", KindCompany, c.CompanyID)
}

func (c *Company) References() []Ref {
	return appendRef(nil, "userId", KindUser, &c.UserID)
}

func (d *Deal) References() []Ref {
	refs := appendRef(nil, "userId", KindUser, &d.UserID)
	refs = appendRef(refs, "contactId", KindContact, d.ContactID)
	return appendRef(refs, "companyId", KindCompany, d.CompanyID)
}

func (l *Lead) References() []Ref {
	refs := appendRef(nil, "userId", KindUser, &l.UserID)
	return appendRef(refs, "convertedToContactId", KindContact, l.ConvertedToContactID)
}

func (a *Activity) References() []Ref {
	refs := appendRef(nil, "userId", KindUser, &a.UserID)
	refs = appendRef(refs, "contactId", KindContact, a.ContactID)
	refs = appendRef(refs, "companyId", KindCompany, a.CompanyID)
	return appendRef(refs, "dealId", KindDeal, a.DealID)
}

func (n *Note) References() []Ref {
	refs := appendRef(nil, "userId", KindUser, &n.UserID)
	refs = appendRef(refs, "contactId", KindContact, n.ContactID)
	refs = appendRef(refs, "companyId", KindCompany, n.CompanyID)
	return appendRef(refs, "dealId", KindDeal, n.DealID)
}

// NewDeal returns a deal with its creation defaults applied.
func NewDeal() *Deal {
	return &Deal{Stage: StageLead, Probability: 0}
}

func NewLead() *Lead {
	return &Lead{Status: LeadNew}
}

func NewActivity() *Activity {
	return &Activity{Status: ActivityPending, Priority: PriorityMedium}
}

// AsMap renders a record with its JSON field names.
func AsMap(r Record) (map[string]any, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", r.RecordKind(), err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.RecordKind(), err)
	}
	return out, nil
}
