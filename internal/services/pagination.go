package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ParsePagination reads raw query values. A missing or unparsable limit
// uses def; anything parsed is clamped into [1, max]. Page is at least 1
// and small enough that the skip it implies fits in an int32.
func ParsePagination(pageRaw, limitRaw string, def, max int) Pagination {
	p := Pagination{Page: 1, Limit: def}
	if n, err := strconv.Atoi(strings.TrimSpace(pageRaw)); err == nil && n > 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		p.Limit = n
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > max {
		p.Limit = max
	}
	if last := math.MaxInt32 / p.Limit; p.Page > last {
		p.Page = last
	}
	return p
}

func (p Pagination) repoPage() repositories.Page {
	return repositories.Page{Skip: int64(p.Page-1) * int64(p.Limit), Limit: int64(p.Limit)}
}

// wrap keeps classified repository errors and hides everything else behind msg.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) != apperrors.KindUnexpected {
		return err
	}
	return apperrors.Unexpected(msg, err)
}

// pageOf runs the page fetch and the count concurrently.
func pageOf[T any](ctx context.Context, fetch func(context.Context) ([]T, error), count func(context.Context) (int64, error)) ([]T, int64, error) {
	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = fetch(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
