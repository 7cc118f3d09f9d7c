package catalog

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "carteira/internal/errors"
	"carteira/internal/models"
	"carteira/internal/store"
)

// fakeStore is an in-memory AssetStore with controllable failures and an
// optional block channel to hold a call in flight.
type fakeStore struct {
	mu     sync.Mutex
	assets []models.Asset
	nextID int

	fetchErr  error
	createErr error
	deleteErr error

	blockFetch chan struct{}

	fetchCalls  int
	createCalls int
	deleteCalls int
}

func (f *fakeStore) FetchAll(_ context.Context, _ string) ([]models.Asset, error) {
	f.mu.Lock()
	f.fetchCalls++
	block := f.blockFetch
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]models.Asset, len(f.assets))
	copy(out, f.assets)
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, userID string, draft store.Draft) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	a := models.Asset{
		UserID:       userID,
		Name:         draft.Name,
		Type:         draft.Type,
		Value:        draft.Value,
		PurchaseDate: draft.PurchaseDate,
	}
	a.ID = fmt.Sprintf("asset-%d", f.nextID)
	f.assets = append(f.assets, a)
	return &a, nil
}

func (f *fakeStore) Delete(_ context.Context, _, assetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, a := range f.assets {
		if a.ID == assetID {
			f.assets = append(f.assets[:i], f.assets[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrAssetNotFound
}

func (f *fakeStore) seed(assets ...models.Asset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets = append(f.assets, assets...)
}

func validDraft() Draft {
	return Draft{Name: "PETR4", Type: "stock", Value: "1500.00", PurchaseDate: "2024-03-10"}
}

func TestLoadPopulatesView(t *testing.T) {
	f := &fakeStore{}
	f.seed(asset("PETR4", models.AssetTypeStock, 1500), asset("VALE3", models.AssetTypeStock, 1200))
	vm := NewViewModel(f, "user-1")

	if err := vm.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := vm.View()
	if v.FilteredCount != 2 {
		t.Fatalf("expected 2 assets, got %d", v.FilteredCount)
	}
	if vm.Loading() {
		t.Error("loading must be cleared after completion")
	}
}

func TestLoadFailureKeepsPreviousCollection(t *testing.T) {
	f := &fakeStore{}
	f.seed(asset("PETR4", models.AssetTypeStock, 1500))
	vm := NewViewModel(f, "user-1")
	if err := vm.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.mu.Lock()
	f.fetchErr = apperrors.ErrAssetStore
	f.mu.Unlock()

	if err := vm.Load(context.Background()); err == nil {
		t.Fatal("expected an error from the failing store")
	}
	if vm.Err() != "Erro ao carregar ativos." {
		t.Errorf("unexpected error message %q", vm.Err())
	}
	if v := vm.View(); v.FilteredCount != 1 {
		t.Errorf("previous collection must survive a failed reload, got %d items", v.FilteredCount)
	}
}

func TestAddValidationBlocksStoreCall(t *testing.T) {
	f := &fakeStore{}
	vm := NewViewModel(f, "user-1")

	d := validDraft()
	d.Name = "   "
	if err := vm.Add(context.Background(), d); err != nil {
		t.Fatalf("validation failures are not operational errors: %v", err)
	}

	errs := vm.DraftErrors()
	if len(errs) != 1 || errs[0].Field != "name" {
		t.Fatalf("expected a single name error, got %+v", errs)
	}
	if f.createCalls != 0 {
		t.Errorf("expected no store call, got %d", f.createCalls)
	}
	if vm.Draft().Type != "stock" {
		t.Error("draft values must be preserved for correction")
	}
}

func TestAddRejectsUnknownType(t *testing.T) {
	f := &fakeStore{}
	vm := NewViewModel(f, "user-1")

	d := validDraft()
	d.Type = "imovel"
	_ = vm.Add(context.Background(), d)

	errs := vm.DraftErrors()
	if len(errs) != 1 || errs[0].Field != "type" {
		t.Fatalf("expected a type error, got %+v", errs)
	}
	if f.createCalls != 0 {
		t.Errorf("expected no store call, got %d", f.createCalls)
	}
}

func TestAddCollectsMultipleFieldErrors(t *testing.T) {
	f := &fakeStore{}
	vm := NewViewModel(f, "user-1")

	_ = vm.Add(context.Background(), Draft{Value: "-10", PurchaseDate: "not-a-date"})

	errs := vm.DraftErrors()
	if len(errs) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %+v", len(errs), errs)
	}
}

func TestAddSuccessClearsDraftAndReloads(t *testing.T) {
	f := &fakeStore{}
	vm := NewViewModel(f, "user-1")

	if err := vm.Add(context.Background(), validDraft()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := vm.Draft(); !d.empty() {
		t.Errorf("expected cleared draft, got %+v", d)
	}
	if f.createCalls != 1 || f.fetchCalls != 1 {
		t.Errorf("expected create then refetch, got create=%d fetch=%d", f.createCalls, f.fetchCalls)
	}
	v := vm.View()
	if v.FilteredCount != 1 {
		t.Errorf("expected the new asset in the view, got %d", v.FilteredCount)
	}
	if !v.Total.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("unexpected total %s", v.Total)
	}
}

func TestAddStoreFailureKeepsDraft(t *testing.T) {
	f := &fakeStore{createErr: apperrors.ErrAssetStore}
	vm := NewViewModel(f, "user-1")

	if err := vm.Add(context.Background(), validDraft()); err == nil {
		t.Fatal("expected an error from the failing store")
	}
	if vm.Err() != "Erro ao adicionar ativo." {
		t.Errorf("unexpected error message %q", vm.Err())
	}
	if vm.Draft().Name != "PETR4" {
		t.Error("draft must survive a failed create")
	}
	if f.fetchCalls != 0 {
		t.Errorf("no reload after a failed create, got %d fetches", f.fetchCalls)
	}
}

func TestDeleteIsTwoPhase(t *testing.T) {
	f := &fakeStore{}
	f.seed(asset("PETR4", models.AssetTypeStock, 1500))
	vm := NewViewModel(f, "user-1")
	_ = vm.Load(context.Background())

	vm.RequestDelete("PETR4")
	if vm.PendingDelete() != "PETR4" {
		t.Fatalf("expected pending candidate, got %q", vm.PendingDelete())
	}
	if f.deleteCalls != 0 {
		t.Fatal("requesting a delete must not mutate anything")
	}

	vm.CancelDelete()
	if vm.PendingDelete() != "" {
		t.Fatal("cancel must clear the candidate")
	}
	if err := vm.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm with no candidate is a no-op: %v", err)
	}
	if f.deleteCalls != 0 {
		t.Fatal("confirm without a candidate must not call the store")
	}

	vm.RequestDelete("PETR4")
	if err := vm.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.PendingDelete() != "" {
		t.Error("candidate must be cleared after a successful delete")
	}
	if v := vm.View(); v.FilteredCount != 0 {
		t.Errorf("expected empty collection, got %d", v.FilteredCount)
	}
}

func TestConfirmDeleteFailureKeepsCandidate(t *testing.T) {
	f := &fakeStore{deleteErr: apperrors.ErrAssetStore}
	f.seed(asset("PETR4", models.AssetTypeStock, 1500))
	vm := NewViewModel(f, "user-1")
	_ = vm.Load(context.Background())

	vm.RequestDelete("PETR4")
	if err := vm.ConfirmDelete(context.Background()); err == nil {
		t.Fatal("expected an error from the failing store")
	}
	if vm.Err() != "Erro ao excluir ativo. Tente novamente." {
		t.Errorf("unexpected error message %q", vm.Err())
	}
	if vm.PendingDelete() != "PETR4" {
		t.Error("candidate must survive a failed delete so the user can retry")
	}
}

func TestSetSearchClampsPage(t *testing.T) {
	f := &fakeStore{}
	for i := 0; i < 7; i++ {
		f.seed(asset(fmt.Sprintf("ATIVO%d", i), models.AssetTypeStock, 100))
	}
	f.seed(asset("BITCOIN", models.AssetTypeCrypto, 5000))
	vm := NewViewModel(f, "user-1")
	_ = vm.Load(context.Background())

	vm.SetPage(2)
	if v := vm.View(); v.Page != 2 {
		t.Fatalf("expected page 2, got %d", v.Page)
	}

	vm.SetSearch("bitcoin")
	if v := vm.View(); v.Page != 1 || v.FilteredCount != 1 {
		t.Errorf("expected clamp to page 1 with one match, got page %d count %d", v.Page, v.FilteredCount)
	}
}

func TestLoadWhileLoadingIsNoOp(t *testing.T) {
	block := make(chan struct{})
	f := &fakeStore{blockFetch: block}
	vm := NewViewModel(f, "user-1")

	done := make(chan struct{})
	go func() {
		_ = vm.Load(context.Background())
		close(done)
	}()

	// Wait for the first load to take the guard.
	for !vm.Loading() {
		runtime.Gosched()
	}

	if err := vm.Load(context.Background()); err != nil {
		t.Fatalf("guarded call must return nil, got %v", err)
	}
	f.mu.Lock()
	calls := f.fetchCalls
	f.mu.Unlock()
	if calls != 1 {
		t.Errorf("expected a single in-flight fetch, got %d", calls)
	}

	close(block)
	<-done
}
