// ABOUTME: Kind-generic dispatch over the per-entity store functions
// ABOUTME: Lets callers read and write any record through the models.Record interface
package db

import (
	"context"
	"fmt"

	"github.com/harperreed/crmcore/models"
)

func GetRecord(ctx context.Context, q Querier, k models.Kind, id string) (models.Record, error) {
	switch k {
	case models.KindUser:
		return nilSafe(GetUser(ctx, q, id))
	case models.KindContact:
		return nilSafe(GetContact(ctx, q, id))
	case models.KindCompany:
		return nilSafe(GetCompany(ctx, q, id))
	case models.KindDeal:
		return nilSafe(GetDeal(ctx, q, id))
	case models.KindLead:
		return nilSafe(GetLead(ctx, q, id))
	case models.KindActivity:
		return nilSafe(GetActivity(ctx, q, id))
	case models.KindNote:
		return nilSafe(GetNote(ctx, q, id))
	}
	return nil, fmt.Errorf("unknown entity %q", k)
}

// nilSafe keeps a nil pointer from becoming a non-nil interface.
func nilSafe[T any, P interface {
	*T
	models.Record
}](rec P, err error) (models.Record, error) {
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func ListRecords(ctx context.Context, q Querier, k models.Kind) ([]models.Record, error) {
	switch k {
	case models.KindUser:
		return toRecords(ListUsers(ctx, q))
	case models.KindContact:
		return toRecords(ListContacts(ctx, q))
	case models.KindCompany:
		return toRecords(ListCompanies(ctx, q))
	case models.KindDeal:
		return toRecords(ListDeals(ctx, q))
	case models.KindLead:
		return toRecords(ListLeads(ctx, q))
	case models.KindActivity:
		return toRecords(ListActivities(ctx, q))
	case models.KindNote:
		return toRecords(ListNotes(ctx, q))
	}
	return nil, fmt.Errorf("unknown entity %q", k)
}

func toRecords[T any, P interface {
	*T
	models.Record
}](items []T, err error) ([]models.Record, error) {
	if err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(items))
	for i := range items {
		out = append(out, P(&items[i]))
	}
	return out, nil
}

func InsertRecord(ctx context.Context, q Querier, rec models.Record) error {
	switch r := rec.(type) {
	case *models.User:
		return CreateUser(ctx, q, r)
	case *models.Contact:
		return CreateContact(ctx, q, r)
	case *models.Company:
		return CreateCompany(ctx, q, r)
	case *models.Deal:
		return CreateDeal(ctx, q, r)
	case *models.Lead:
		return CreateLead(ctx, q, r)
	case *models.Activity:
		return CreateActivity(ctx, q, r)
	case *models.Note:
		return CreateNote(ctx, q, r)
	}
	return fmt.Errorf("unsupported record type %T", rec)
}

func UpdateRecord(ctx context.Context, q Querier, rec models.Record) error {
	switch r := rec.(type) {
	case *models.User:
		return UpdateUser(ctx, q, r)
	case *models.Contact:
		return UpdateContact(ctx, q, r)
	case *models.Company:
		return UpdateCompany(ctx, q, r)
	case *models.Deal:
		return UpdateDeal(ctx, q, r)
	case *models.Lead:
		return UpdateLead(ctx, q, r)
	case *models.Activity:
		return UpdateActivity(ctx, q, r)
	case *models.Note:
		return UpdateNote(ctx, q, r)
	}
	return fmt.Errorf("unsupported record type %T", rec)
}

func DeleteRecord(ctx context.Context, q Querier, k models.Kind, id string) error {
	switch k {
	case models.KindUser:
		return DeleteUser(ctx, q, id)
	case models.KindContact:
		return DeleteContact(ctx, q, id)
	case models.KindCompany:
		return DeleteCompany(ctx, q, id)
	case models.KindDeal:
		return DeleteDeal(ctx, q, id)
	case models.KindLead:
		return DeleteLead(ctx, q, id)
	case models.KindActivity:
		return DeleteActivity(ctx, q, id)
	case models.KindNote:
		return DeleteNote(ctx, q, id)
	}
	return fmt.Errorf("unknown entity %q", k)
}
