// Package catalog holds the asset catalog view state: the raw collection
// plus the query intent (search, type filter, sort, page) and the derived
// view computed from them. The derived view is a projection, never a
// separate source of truth.
package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"carteira/internal/models"
	"carteira/internal/pagination"
)

// SortField selects the comparator used to order the filtered collection.
type SortField string

const (
	SortByName  SortField = "name"
	SortByType  SortField = "type"
	SortByValue SortField = "value"
	SortByDate  SortField = "purchase_date"
)

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	switch f {
	case SortByName, SortByType, SortByValue, SortByDate:
		return true
	}
	return false
}

// SortDirection orders ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Query is the user's intent over the catalog: free-text search, exact
// type filter, sort field/direction, and the 1-indexed page.
type Query struct {
	Search     string           `form:"search"`
	TypeFilter models.AssetType `form:"type"`
	SortBy     SortField        `form:"sort_by"`
	SortDir    SortDirection    `form:"sort_dir"`
	Page       int              `form:"page"`
	PageSize   int              `form:"page_size"`
}

// Normalize fills defaults for zero-valued fields.
func (q *Query) Normalize() {
	if !q.SortBy.Valid() {
		q.SortBy = SortByName
	}
	if q.SortDir != SortDesc {
		q.SortDir = SortAsc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = pagination.DefaultPageSize
	}
}

// View is the derived projection of the collection under a query.
type View struct {
	Items         []models.Asset  `json:"items"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
	TotalPages    int             `json:"total_pages"`
	FilteredCount int             `json:"filtered_count"`
	// Total is the sum of value over the filtered set, before pagination.
	Total decimal.Decimal `json:"total"`
}

// Apply computes the derived view: filter, stable sort, page clamp, page
// slice, and the filtered total. It is deterministic and never mutates
// the input collection.
func Apply(assets []models.Asset, q Query) View {
	q.Normalize()

	filtered := filter(assets, q.Search, q.TypeFilter)

	sorted := make([]models.Asset, len(filtered))
	copy(sorted, filtered)
	sortAssets(sorted, q.SortBy, q.SortDir)

	total := decimal.Zero
	for i := range filtered {
		total = total.Add(filtered[i].Value)
	}

	page := pagination.Clamp(q.Page, len(sorted), q.PageSize)
	return View{
		Items:         pagination.Slice(sorted, page, q.PageSize),
		Page:          page,
		PageSize:      q.PageSize,
		TotalPages:    pagination.TotalPages(len(sorted), q.PageSize),
		FilteredCount: len(sorted),
		Total:         total,
	}
}

// filter keeps assets whose name or type contains the search term
// (case-insensitive) and whose type matches the exact filter when set.
func filter(assets []models.Asset, search string, typeFilter models.AssetType) []models.Asset {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Asset, 0, len(assets))
	for _, a := range assets {
		if typeFilter != "" && a.Type != typeFilter {
			continue
		}
		if term != "" && !matches(a, term) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matches(a models.Asset, term string) bool {
	return strings.Contains(strings.ToLower(a.Name), term) ||
		strings.Contains(strings.ToLower(string(a.Type)), term) ||
		strings.Contains(strings.ToLower(a.Type.Label()), term)
}

// sortAssets orders in place. The sort is stable: equal keys keep their
// original collection order.
func sortAssets(assets []models.Asset, field SortField, dir SortDirection) {
	less := func(a, b models.Asset) bool {
		switch field {
		case SortByType:
			return a.Type.Label() < b.Type.Label()
		case SortByValue:
			return a.Value.LessThan(b.Value)
		case SortByDate:
			return a.PurchaseDate.Before(b.PurchaseDate)
		default:
			return a.Name < b.Name
		}
	}
	sort.SliceStable(assets, func(i, j int) bool {
		if dir == SortDesc {
			return less(assets[j], assets[i])
		}
		return less(assets[i], assets[j])
	})
}

// TypeSummary aggregates the filtered collection for one asset type.
type TypeSummary struct {
	Type  models.AssetType `json:"type"`
	Label string           `json:"label"`
	Value decimal.Decimal  `json:"value"`
	Count int              `json:"count"`
}

// Summary holds the aggregate portfolio metrics for a collection.
type Summary struct {
	TotalInvested  decimal.Decimal `json:"total_invested"`
	AssetCount     int             `json:"asset_count"`
	DistributionBy []TypeSummary   `json:"distribution_by_type"`
}

// Summarize computes the portfolio totals and the value distribution per
// asset type, in the canonical type display order.
func Summarize(assets []models.Asset) Summary {
	total := decimal.Zero
	byType := make(map[models.AssetType]*TypeSummary)
	for i := range assets {
		a := &assets[i]
		total = total.Add(a.Value)
		ts, ok := byType[a.Type]
		if !ok {
			ts = &TypeSummary{Type: a.Type, Label: a.Type.Label()}
			byType[a.Type] = ts
		}
		ts.Value = ts.Value.Add(a.Value)
		ts.Count++
	}

	dist := make([]TypeSummary, 0, len(byType))
	for _, t := range models.AssetTypes {
		if ts, ok := byType[t]; ok {
			dist = append(dist, *ts)
		}
	}
	return Summary{TotalInvested: total, AssetCount: len(assets), DistributionBy: dist}
}
