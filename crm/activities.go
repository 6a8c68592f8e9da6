// ABOUTME: Activity create and update with completion timestamp handling
// ABOUTME: Moving to COMPLETED without an explicit completedAt stamps the current time
package crm

import (
	"context"

	"github.com/harperreed/crmcore/models"
)

func (s *Service) CreateActivity(ctx context.Context, in *models.ActivityFields) (*models.Activity, error) {
	a := models.NewActivity()
	if _, err := in.ApplyTo(a); err != nil {
		return nil, err
	}
	s.stampCompletion(a, in, "")
	if err := s.insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) UpdateActivity(ctx context.Context, id string, in *models.ActivityFields) (*models.Activity, error) {
	return update(ctx, s, models.KindActivity, id, func(a *models.Activity) ([]models.Ref, error) {
		prev := a.Status
		refs, err := in.ApplyTo(a)
		if err != nil {
			return nil, err
		}
		s.stampCompletion(a, in, prev)
		return refs, nil
	})
}

// stampCompletion never clears completedAt; only an explicit null does that.
func (s *Service) stampCompletion(a *models.Activity, in *models.ActivityFields, prev models.ActivityStatus) {
	if !in.Status.HasValue() || a.Status != models.ActivityCompleted || in.CompletedAt.IsSet() {
		return
	}
	if prev == models.ActivityCompleted && a.CompletedAt != nil {
		return
	}
	now := s.timestamp()
	a.CompletedAt = &now
}
