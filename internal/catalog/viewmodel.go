package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"carteira/internal/models"
	"carteira/internal/store"
	"carteira/internal/validation"
)

// Draft holds the raw add-asset form values. It may be partially empty
// and never reaches the collection until Create succeeds.
type Draft struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Value        string `json:"value"`
	PurchaseDate string `json:"purchase_date"`
}

func (d Draft) empty() bool {
	return d.Name == "" && d.Type == "" && d.Value == "" && d.PurchaseDate == ""
}

// ViewModel owns the asset collection and the query intent, and exposes
// the derived view. Load, Add, and ConfirmDelete are serialized: a call
// arriving while another is in flight has no effect. Completions are
// tagged with a generation token so a superseded operation can never
// apply a stale result.
type ViewModel struct {
	mu      sync.Mutex
	store   store.AssetStore
	userID  string
	assets  []models.Asset
	query   Query
	loading bool
	gen     uint64

	errMsg        string
	pendingDelete string
	draft         Draft
	draftErrs     []*validation.FieldError
}

// NewViewModel creates a view model for one user's catalog.
func NewViewModel(s store.AssetStore, userID string) *ViewModel {
	q := Query{}
	q.Normalize()
	return &ViewModel{store: s, userID: userID, query: q}
}

// begin marks an operation in flight. It fails when another operation is
// already running, honoring the serialization guard.
func (vm *ViewModel) begin() (uint64, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.loading {
		return 0, false
	}
	vm.loading = true
	vm.errMsg = ""
	vm.gen++
	return vm.gen, true
}

// finish applies fn only if the operation is still current.
func (vm *ViewModel) finish(gen uint64, fn func()) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.gen {
		return
	}
	vm.loading = false
	if fn != nil {
		fn()
	}
}

// Load replaces the collection from the store. On failure the previous
// collection is kept untouched and an error message is surfaced.
func (vm *ViewModel) Load(ctx context.Context) error {
	gen, ok := vm.begin()
	if !ok {
		return nil
	}

	assets, err := vm.store.FetchAll(ctx, vm.userID)
	vm.finish(gen, func() {
		if err != nil {
			vm.errMsg = "Erro ao carregar ativos."
			return
		}
		vm.assets = assets
		vm.query.Page = clampedPage(vm.assets, vm.query)
	})
	return err
}

// Add validates the draft, creates the asset, and reloads the collection
// from the store. Validation failures surface field errors without a
// store call; a store failure preserves the draft so the user does not
// retype it.
func (vm *ViewModel) Add(ctx context.Context, d Draft) error {
	vm.mu.Lock()
	if vm.loading {
		vm.mu.Unlock()
		return nil
	}
	vm.draft = d
	vm.draftErrs = validation.AssetDraft(d.Name, d.Type, d.Value, d.PurchaseDate)
	if !models.AssetType(d.Type).Valid() && strings.TrimSpace(d.Type) != "" {
		vm.draftErrs = append(vm.draftErrs, &validation.FieldError{
			Field: "type", Code: validation.CodeInvalidFormat, Message: "Tipo de ativo inválido.",
		})
	}
	if len(vm.draftErrs) > 0 {
		vm.mu.Unlock()
		return nil
	}
	vm.mu.Unlock()

	gen, ok := vm.begin()
	if !ok {
		return nil
	}

	value, _ := decimal.NewFromString(strings.TrimSpace(d.Value))
	date, _ := time.Parse(validation.DateLayout, strings.TrimSpace(d.PurchaseDate))
	_, err := vm.store.Create(ctx, vm.userID, store.Draft{
		Name:         d.Name,
		Type:         models.AssetType(d.Type),
		Value:        value,
		PurchaseDate: date,
	})

	vm.finish(gen, func() {
		if err != nil {
			vm.errMsg = "Erro ao adicionar ativo."
			return
		}
		vm.draft = Draft{}
	})
	if err != nil {
		return err
	}

	// The backend is the source of truth: re-read instead of patching the
	// local collection.
	return vm.Load(ctx)
}

// RequestDelete records the candidate id and opens the confirmation gate.
// Nothing is mutated yet.
func (vm *ViewModel) RequestDelete(id string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.pendingDelete = id
}

// CancelDelete clears the candidate with no side effect.
func (vm *ViewModel) CancelDelete() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.pendingDelete = ""
}

// ConfirmDelete commits the pending deletion and reloads. On failure the
// candidate is kept so the user can retry.
func (vm *ViewModel) ConfirmDelete(ctx context.Context) error {
	vm.mu.Lock()
	id := vm.pendingDelete
	vm.mu.Unlock()
	if id == "" {
		return nil
	}

	gen, ok := vm.begin()
	if !ok {
		return nil
	}

	err := vm.store.Delete(ctx, vm.userID, id)
	vm.finish(gen, func() {
		if err != nil {
			vm.errMsg = "Erro ao excluir ativo. Tente novamente."
			return
		}
		vm.pendingDelete = ""
	})
	if err != nil {
		return err
	}
	return vm.Load(ctx)
}

// SetSearch updates the search term and clamps the page.
func (vm *ViewModel) SetSearch(term string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.query.Search = term
	vm.query.Page = clampedPage(vm.assets, vm.query)
}

// SetTypeFilter updates the exact type filter and clamps the page.
func (vm *ViewModel) SetTypeFilter(t models.AssetType) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.query.TypeFilter = t
	vm.query.Page = clampedPage(vm.assets, vm.query)
}

// SetSort updates the sort field and direction.
func (vm *ViewModel) SetSort(field SortField, dir SortDirection) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if field.Valid() {
		vm.query.SortBy = field
	}
	if dir == SortDesc {
		vm.query.SortDir = SortDesc
	} else {
		vm.query.SortDir = SortAsc
	}
}

// SetPage moves to page n, clamped into the valid range.
func (vm *ViewModel) SetPage(n int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.query.Page = n
	vm.query.Page = clampedPage(vm.assets, vm.query)
}

// View computes the derived projection of the current collection.
func (vm *ViewModel) View() View {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Apply(vm.assets, vm.query)
}

// Summary computes the aggregate metrics over the full collection.
func (vm *ViewModel) Summary() Summary {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Summarize(vm.assets)
}

// Loading reports whether an operation is in flight.
func (vm *ViewModel) Loading() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loading
}

// Err returns the current catalog-level error message, empty when none.
func (vm *ViewModel) Err() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.errMsg
}

// PendingDelete returns the delete candidate id, empty when none.
func (vm *ViewModel) PendingDelete() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.pendingDelete
}

// Draft returns the preserved add-form values.
func (vm *ViewModel) Draft() Draft {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.draft
}

// DraftErrors returns the field errors from the last Add attempt.
func (vm *ViewModel) DraftErrors() []*validation.FieldError {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.draftErrs
}

func clampedPage(assets []models.Asset, q Query) int {
	v := Apply(assets, q)
	return v.Page
}
