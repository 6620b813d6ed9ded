package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"
	"ecobloom/internal/repositories"
)

// ErrNoValidCategories is returned when category input resolves to nothing.
var ErrNoValidCategories = apperrors.Validation("No valid categories provided (send Category IDs or valid keywords).")

// TokenKind tells how a raw category token is looked up.
type TokenKind int

const (
	DirectID TokenKind = iota
	Keyword
)

// CategoryToken is one normalised piece of category input.
type CategoryToken struct {
	Kind  TokenKind
	Value string
}

var indexedCategoryField = regexp.MustCompile(`^categories\[(\d+)\]$`)

// ParseCategoryTokens turns a request payload into category tokens.
//
// It reads "categories" (a list, a JSON encoded list, or a comma separated
// string), "categories[]" and "categories[N]". A "categoryIds" field holding
// at least one valid id wins over everything else. present is false when the
// payload carries no category field at all.
func ParseCategoryTokens(fields map[string]interface{}) (tokens []CategoryToken, present bool) {
	if raw, ok := fields["categoryIds"]; ok {
		present = true
		var ids []CategoryToken
		for _, v := range flattenCategoryValue(raw) {
			if models.IsValidID(v) {
				ids = append(ids, CategoryToken{Kind: DirectID, Value: v})
			}
		}
		if len(ids) > 0 {
			return dedupeTokens(ids), true
		}
	}

	var raw []string
	if v, ok := fields["categories"]; ok {
		present = true
		raw = append(raw, flattenCategoryValue(v)...)
	}
	if v, ok := fields["categories[]"]; ok {
		present = true
		raw = append(raw, flattenCategoryValue(v)...)
	}

	type indexed struct {
		n      int
		values []string
	}
	var numbered []indexed
	for key, v := range fields {
		m := indexedCategoryField.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		present = true
		n, _ := strconv.Atoi(m[1])
		numbered = append(numbered, indexed{n: n, values: flattenCategoryValue(v)})
	}
	sort.Slice(numbered, func(i, j int) bool { return numbered[i].n < numbered[j].n })
	for _, it := range numbered {
		raw = append(raw, it.values...)
	}

	for _, v := range raw {
		if models.IsValidID(v) {
			tokens = append(tokens, CategoryToken{Kind: DirectID, Value: v})
		} else {
			tokens = append(tokens, CategoryToken{Kind: Keyword, Value: v})
		}
	}
	return dedupeTokens(tokens), present
}

// flattenCategoryValue expands one field value into trimmed, non-empty strings.
func flattenCategoryValue(v interface{}) []string {
	var out []string
	switch x := v.(type) {
	case nil:
	case string:
		out = append(out, splitCategoryString(x)...)
	case []string:
		for _, s := range x {
			out = append(out, splitCategoryString(s)...)
		}
	case []interface{}:
		for _, e := range x {
			out = append(out, flattenCategoryValue(e)...)
		}
	default:
		out = append(out, splitCategoryString(fmt.Sprint(x))...)
	}
	return out
}

func splitCategoryString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var parsed []interface{}
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			return flattenCategoryValue(parsed)
		}
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func dedupeTokens(tokens []CategoryToken) []CategoryToken {
	seen := make(map[CategoryToken]bool, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		key := t
		if t.Kind == DirectID {
			key.Value = strings.ToLower(t.Value)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// CategoryResolver maps category tokens onto stored category ids.
type CategoryResolver struct {
	repo repositories.CategoryRepository
}

func NewCategoryResolver(repo repositories.CategoryRepository) *CategoryResolver {
	return &CategoryResolver{repo: repo}
}

// Resolve returns the ids of the categories the tokens name. Direct ids that
// do not exist are dropped; keywords match a stored keyword exactly, ignoring
// case. An empty result is not an error here.
func (r *CategoryResolver) Resolve(ctx context.Context, tokens []CategoryToken) ([]models.Category, error) {
	var ids, keywords []string
	for _, t := range tokens {
		if t.Kind == DirectID {
			ids = append(ids, t.Value)
		} else {
			keywords = append(keywords, t.Value)
		}
	}

	var found []models.Category
	if len(ids) > 0 {
		byID, err := r.repo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, apperrors.Unexpected("Failed to resolve categories", err)
		}
		found = append(found, byID...)
	}
	if len(keywords) > 0 {
		byKeyword, err := r.repo.FindByKeywords(ctx, keywords)
		if err != nil {
			return nil, apperrors.Unexpected("Failed to resolve categories", err)
		}
		found = append(found, byKeyword...)
	}

	seen := make(map[string]bool, len(found))
	out := make([]models.Category, 0, len(found))
	for _, c := range found {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out, nil
}

// ResolveRequired is Resolve for writes: nothing resolved is a validation error.
func (r *CategoryResolver) ResolveRequired(ctx context.Context, tokens []CategoryToken) ([]models.Category, error) {
	cats, err := r.Resolve(ctx, tokens)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, ErrNoValidCategories
	}
	return cats, nil
}

func categoryIDs(cats []models.Category) []string {
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return ids
}
