// ABOUTME: Record-level validation run after every merge
// ABOUTME: Enforces required fields, enum membership, and the deal probability range
package models

import (
	"strings"

	"github.com/harperreed/crmcore/crmerr"
)

func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return crmerr.Validation(pairs[i], "is required")
		}
	}
	return nil
}

func (u *User) Validate() error {
	return required("email", u.Email)
}

func (c *Contact) Validate() error {
	return required("firstName", c.FirstName, "lastName", c.LastName, "email", c.Email, "userId", c.UserID)
}

func (c *Company) Validate() error {
	return required("name", c.Name, "userId", c.UserID)
}

func (d *Deal) Validate() error {
	if err := required("title", d.Title, "userId", d.UserID); err != nil {
		return err
	}
	if !d.Stage.Valid() {
		return crmerr.Validation("stage", "invalid stage %q", d.Stage)
	}
	if d.Probability < 0 || d.Probability > 100 {
		return crmerr.Validation("probability", "must be between 0 and 100, got %d", d.Probability)
	}
	return nil
}

func (l *Lead) Validate() error {
	if err := required("firstName", l.FirstName, "lastName", l.LastName, "email", l.Email, "userId", l.UserID); err != nil {
		return err
	}
	if !l.Status.Valid() {
		return crmerr.Validation("status", "invalid status %q", l.Status)
	}
	return nil
}

func (a *Activity) Validate() error {
	if err := required("title", a.Title, "type", a.Type, "userId", a.UserID); err != nil {
		return err
	}
	if !a.Status.Valid() {
		return crmerr.Validation("status", "invalid status %q", a.Status)
	}
	if !a.Priority.Valid() {
		return crmerr.Validation("priority", "invalid priority %q", a.Priority)
	}
	return nil
}

func (n *Note) Validate() error {
	return required("content", n.Content, "userId", n.UserID)
}
