package services

import (
	"context"
	"strings"
	"time"

	"ecobloom/internal/models"
	"ecobloom/internal/repositories"
)

const DefaultAdminOrderPageSize = 10

// AdminOrderQuery is the raw admin search. Unrecognised enum values are
// dropped rather than rejected.
type AdminOrderQuery struct {
	Q             string
	Status        string
	PaymentStatus string
	PaymentMethod string
	Pagination
}

// BuildOrderSearch turns the raw admin query into a repository search.
// A term that is a valid id matches that order only.
func BuildOrderSearch(q AdminOrderQuery) repositories.OrderSearch {
	var search repositories.OrderSearch
	if st, ok := models.ParseOrderStatus(q.Status); ok {
		search.Status = st
	}
	if ps, ok := models.ParsePaymentStatus(q.PaymentStatus); ok {
		search.PaymentStatus = ps
	}
	if pm, ok := models.ParsePaymentMethod(q.PaymentMethod); ok {
		search.PaymentMethod = pm
	}
	term := strings.TrimSpace(q.Q)
	if models.IsValidID(term) {
		search.OrderID = term
	} else {
		search.Term = term
	}
	return search
}

// Search lists orders joined with their owners.
func (s *OrderService) Search(ctx context.Context, q AdminOrderQuery) ([]models.AdminOrderView, int64, error) {
	views, total, err := s.orders.Search(ctx, BuildOrderSearch(q), q.Pagination.repoPage())
	if err != nil {
		return nil, 0, wrap(err, "Failed to load orders")
	}
	for i := range views {
		views[i].TotalAmount = views[i].EffectiveTotal()
	}
	return views, total, nil
}

// Stats returns totals per status and a monthly series starting on the first
// day of the same month one year ago.
func (s *OrderService) Stats(ctx context.Context) (*models.OrderStats, error) {
	stats, err := s.orders.Stats(ctx, StatsWindowStart(s.now()))
	if err != nil {
		return nil, wrap(err, "Failed to fetch order stats")
	}
	return stats, nil
}

// StatsWindowStart is the first instant of the month one year before now, in UTC.
func StatsWindowStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year()-1, now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
