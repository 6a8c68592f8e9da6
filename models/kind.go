// ABOUTME: Entity kinds and the foreign key reference type
// ABOUTME: Parses user-supplied kind names, singular or plural
package models

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindUser     Kind = "user"
	KindContact  Kind = "contact"
	KindCompany  Kind = "company"
	KindDeal     Kind = "deal"
	KindLead     Kind = "lead"
	KindActivity Kind = "activity"
	KindNote     Kind = "note"
)

// Kinds lists every entity kind in display order.
var Kinds = []Kind{KindUser, KindContact, KindCompany, KindDeal, KindLead, KindActivity, KindNote}

var plurals = map[string]Kind{
	"users":      KindUser,
	"contacts":   KindContact,
	"companies":  KindCompany,
	"deals":      KindDeal,
	"leads":      KindLead,
	"activities": KindActivity,
	"notes":      KindNote,
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	if k, ok := plurals[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown entity %q (expected one of: user, contact, company, deal, lead, activity, note)", s)
}

// Table is the storage collection holding records of this kind.
func (k Kind) Table() string {
	for name, kind := range plurals {
		if kind == k {
			return name
		}
	}
	return ""
}

func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Ref is one foreign key value carried by a record or a payload.
type Ref struct {
	Field string
	Kind  Kind
	ID    string
}

func appendRef(refs []Ref, field string, kind Kind, id *string) []Ref {
	if id == nil || *id == "" {
		return refs
	}
	return append(refs, Ref{Field: field, Kind: kind, ID: *id})
}
