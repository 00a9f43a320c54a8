package services

import (
	"context"

	"kamela/internal/core"
)

// DeadlineClassifier buckets active obligations by days until due. It is
// forward-looking only: obligations already past due are excluded here and
// surface through the AlertEvaluator instead.
type DeadlineClassifier struct {
	obligations *ObligationService
}

func NewDeadlineClassifier(ob *ObligationService) *DeadlineClassifier {
	return &DeadlineClassifier{obligations: ob}
}

// Classify returns every active obligation due today or later, ascending by
// due date, with whole-day remaining counts and urgency tiers.
func (c *DeadlineClassifier) Classify(ctx context.Context, today core.Date) ([]core.DeadlineEntry, error) {
	return c.Upcoming(ctx, today, 0)
}

// Upcoming is Classify limited to obligations due within windowDays.
// A windowDays of zero or less means no limit.
func (c *DeadlineClassifier) Upcoming(ctx context.Context, today core.Date, windowDays int) ([]core.DeadlineEntry, error) {
	active, err := c.obligations.List(ctx, ObligationFilter{Status: core.StatusActive})
	if err != nil {
		return nil, err
	}
	// List already orders ascending by due date with undated last.
	var entries []core.DeadlineEntry
	for _, o := range active {
		if o.DueDate.IsEmpty() || o.DueDate.Before(today.Time) {
			continue
		}
		days := today.DaysUntil(o.DueDate)
		if windowDays > 0 && days > windowDays {
			continue
		}
		entries = append(entries, core.DeadlineEntry{
			Obligation:    o,
			DaysRemaining: days,
			Tier:          core.TierFor(days),
		})
	}
	return entries, nil
}
