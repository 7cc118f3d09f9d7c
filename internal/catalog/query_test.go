package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"carteira/internal/models"
)

func asset(name string, typ models.AssetType, value int64) models.Asset {
	a := models.Asset{
		Name:  name,
		Type:  typ,
		Value: decimal.NewFromInt(value),
	}
	a.ID = name
	return a
}

func sampleAssets() []models.Asset {
	return []models.Asset{
		asset("PETR4", models.AssetTypeStock, 1500),
		asset("HGLG11", models.AssetTypeREIT, 800),
		asset("BITCOIN", models.AssetTypeCrypto, 5000),
		asset("TESOURO SELIC", models.AssetTypeTreasury, 2000),
		asset("VALE3", models.AssetTypeStock, 1200),
		asset("IVVB11", models.AssetTypeETF, 900),
		asset("CDB BANCO X", models.AssetTypeFixedIncome, 3000),
	}
}

func names(items []models.Asset) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.Name
	}
	return out
}

func TestApplySearchMatchesName(t *testing.T) {
	v := Apply(sampleAssets(), Query{Search: "petr"})
	if v.FilteredCount != 1 || v.Items[0].Name != "PETR4" {
		t.Fatalf("expected only PETR4, got %v", names(v.Items))
	}
}

func TestApplySearchMatchesTypeLabel(t *testing.T) {
	// "cripto" matches the Criptomoeda label, not any asset name.
	v := Apply(sampleAssets(), Query{Search: "cripto"})
	if v.FilteredCount != 1 || v.Items[0].Name != "BITCOIN" {
		t.Fatalf("expected only BITCOIN, got %v", names(v.Items))
	}
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	v := Apply(sampleAssets(), Query{Search: "VaLe"})
	if v.FilteredCount != 1 || v.Items[0].Name != "VALE3" {
		t.Fatalf("expected only VALE3, got %v", names(v.Items))
	}
}

func TestApplyTypeFilterIsExact(t *testing.T) {
	v := Apply(sampleAssets(), Query{TypeFilter: models.AssetTypeStock, SortBy: SortByName})
	got := names(v.Items)
	if v.FilteredCount != 2 || got[0] != "PETR4" || got[1] != "VALE3" {
		t.Fatalf("expected PETR4 and VALE3, got %v", got)
	}
}

func TestApplyTotalCoversFilteredSetNotPage(t *testing.T) {
	assets := sampleAssets()
	v := Apply(assets, Query{PageSize: 2})
	if len(v.Items) != 2 {
		t.Fatalf("expected 2 items on the page, got %d", len(v.Items))
	}
	want := decimal.NewFromInt(1500 + 800 + 5000 + 2000 + 1200 + 900 + 3000)
	if !v.Total.Equal(want) {
		t.Errorf("expected filtered total %s, got %s", want, v.Total)
	}

	filtered := Apply(assets, Query{TypeFilter: models.AssetTypeStock})
	if !filtered.Total.Equal(decimal.NewFromInt(2700)) {
		t.Errorf("expected stock total 2700, got %s", filtered.Total)
	}
}

func TestApplyClampsPageWhenFilterShrinksResults(t *testing.T) {
	// 7 assets, page size 5: page 2 is valid unfiltered.
	v := Apply(sampleAssets(), Query{Page: 2})
	if v.Page != 2 || len(v.Items) != 2 {
		t.Fatalf("expected page 2 with 2 items, got page %d with %d", v.Page, len(v.Items))
	}

	// Filtering down to 2 results makes page 2 invalid; it clamps to 1.
	v = Apply(sampleAssets(), Query{Page: 2, TypeFilter: models.AssetTypeStock})
	if v.Page != 1 {
		t.Errorf("expected clamped page 1, got %d", v.Page)
	}
	if v.TotalPages != 1 {
		t.Errorf("expected 1 total page, got %d", v.TotalPages)
	}
}

func TestApplyEmptyCollectionHasOnePage(t *testing.T) {
	v := Apply(nil, Query{Page: 3})
	if v.Page != 1 || v.TotalPages != 1 || len(v.Items) != 0 {
		t.Fatalf("expected empty page 1 of 1, got %+v", v)
	}
	if !v.Total.IsZero() {
		t.Errorf("expected zero total, got %s", v.Total)
	}
}

func TestApplySortByValueDesc(t *testing.T) {
	v := Apply(sampleAssets(), Query{SortBy: SortByValue, SortDir: SortDesc, PageSize: 10})
	got := names(v.Items)
	if got[0] != "BITCOIN" || got[len(got)-1] != "HGLG11" {
		t.Fatalf("unexpected value-desc order: %v", got)
	}
}

func TestApplySortIsStableOnEqualKeys(t *testing.T) {
	assets := []models.Asset{
		asset("BBB", models.AssetTypeStock, 100),
		asset("AAA", models.AssetTypeStock, 100),
		asset("CCC", models.AssetTypeStock, 100),
	}
	v := Apply(assets, Query{SortBy: SortByValue, PageSize: 10})
	got := names(v.Items)
	if got[0] != "BBB" || got[1] != "AAA" || got[2] != "CCC" {
		t.Fatalf("equal keys must keep collection order, got %v", got)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	assets := sampleAssets()
	Apply(assets, Query{SortBy: SortByValue, SortDir: SortDesc})
	if assets[0].Name != "PETR4" {
		t.Errorf("input collection was reordered, first is %q", assets[0].Name)
	}
}

func TestSummarizeDistribution(t *testing.T) {
	s := Summarize(sampleAssets())
	if s.AssetCount != 7 {
		t.Errorf("expected 7 assets, got %d", s.AssetCount)
	}
	if !s.TotalInvested.Equal(decimal.NewFromInt(14400)) {
		t.Errorf("expected total 14400, got %s", s.TotalInvested)
	}

	// Distribution follows the canonical type order and skips absent types.
	if len(s.DistributionBy) != 6 {
		t.Fatalf("expected 6 type buckets, got %d", len(s.DistributionBy))
	}
	first := s.DistributionBy[0]
	if first.Type != models.AssetTypeStock || first.Count != 2 || !first.Value.Equal(decimal.NewFromInt(2700)) {
		t.Errorf("unexpected stock bucket: %+v", first)
	}
	if first.Label != "Ação" {
		t.Errorf("expected localized label, got %q", first.Label)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.AssetCount != 0 || len(s.DistributionBy) != 0 || !s.TotalInvested.IsZero() {
		t.Fatalf("expected zeroed summary, got %+v", s)
	}
}
