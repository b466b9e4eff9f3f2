// Package inventory maintains the client-side mirror of a vendor's product
// catalog and change history, including the two-phase "upload images, then
// persist product" workflow the remote API requires.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/vendorhub/vendorhub/internal/platform/api"
)

// imagePrefix is the storage destination for product images.
const imagePrefix = "products"

// UploadService abstracts the object-storage uploader for the image pipeline.
type UploadService interface {
	Upload(ctx context.Context, name string, data []byte, prefix string) (string, error)
}

// ProductInput is the payload accepted by AddProduct and UpdateProduct. The
// client performs no field validation; the remote system is the authority
// and rejects invalid payloads.
type ProductInput struct {
	SKU         string   `json:"sku,omitempty"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Model       string   `json:"model,omitempty"`

	PurchasePrice float64 `json:"purchasePrice"`
	SellingPrice  float64 `json:"sellingPrice"`
	Quantity      int     `json:"quantity"`
	MinStock      int     `json:"minStock"`

	IMEINumbers              []string  `json:"imeiNumbers,omitempty"`
	Colors                   []string  `json:"colors,omitempty"`
	IndividualSellingPrices  []float64 `json:"individualSellingPrices,omitempty"`
	IndividualPurchasePrices []float64 `json:"individualPurchasePrices,omitempty"`

	ColorVariant         VariantMode `json:"colorVariant,omitempty"`
	PriceVariant         VariantMode `json:"priceVariant,omitempty"`
	PurchasePriceVariant VariantMode `json:"purchasePriceVariant,omitempty"`

	Images []ImageSource     `json:"-"`
	Specs  map[string]string `json:"specs,omitempty"`
}

// productPayload is the resolved create/update body sent to the remote API.
type productPayload struct {
	ProductInput
	Images []Image `json:"images"`
}

// StoreOptions bounds store behaviour.
type StoreOptions struct {
	PageSize        int
	HistoryPageSize int
	Images          ImageOptions
}

// Store owns the in-memory product list and the read-only history log. All
// mutations are server round trips; nothing changes locally until the remote
// system confirms.
type Store struct {
	api     *api.Client
	uploads UploadService
	logger  *slog.Logger

	pageSize        int
	historyPageSize int
	images          ImageOptions

	mu       sync.RWMutex
	products []Product
	history  []HistoryEvent
}

// NewStore builds a Store with fresh empty state.
func NewStore(client *api.Client, uploads UploadService, opts StoreOptions, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.HistoryPageSize <= 0 {
		opts.HistoryPageSize = 200
	}
	return &Store{
		api:             client,
		uploads:         uploads,
		logger:          logger,
		pageSize:        opts.PageSize,
		historyPageSize: opts.HistoryPageSize,
		images:          opts.Images,
		products:        []Product{},
		history:         []HistoryEvent{},
	}
}

// LoadProducts fetches the vendor's own products and replaces the local list
// wholesale. Failures propagate; the mirror is untouched on error.
func (s *Store) LoadProducts(ctx context.Context) error {
	var out struct {
		Products []Product `json:"products"`
	}
	query := map[string]string{
		"limit": strconv.Itoa(s.pageSize),
		"mine":  "true",
	}
	if err := s.api.Get(ctx, "/products", query, &out); err != nil {
		return fmt.Errorf("inventory: load products: %w", err)
	}
	products := make([]Product, len(out.Products))
	for i, p := range out.Products {
		products[i] = normalizeProduct(p)
	}
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return nil
}

// AddProduct resolves the image sources, derives the SKU for phone batches
// and persists the product in a single call. The canonical record returned
// by the remote system is prepended to the mirror and the history log is
// re-fetched; on failure nothing changes locally.
func (s *Store) AddProduct(ctx context.Context, input ProductInput) (Product, error) {
	images, err := s.resolveImages(ctx, input.Images, imagePrefix)
	if err != nil {
		return Product{}, err
	}
	payload := productPayload{ProductInput: input, Images: images}
	if input.Category == CategoryMobilePhones {
		if first := firstNonEmpty(input.IMEINumbers); first != "" {
			// Phone batch SKUs are always derived from the first device
			// identifier, never vendor-chosen.
			payload.SKU = first
		}
	}

	var created Product
	if err := s.api.Post(ctx, "/products", payload, &created); err != nil {
		return Product{}, fmt.Errorf("inventory: add product: %w", err)
	}
	created = normalizeProduct(created)

	s.mu.Lock()
	s.products = append([]Product{created}, s.products...)
	s.mu.Unlock()
	s.refreshHistory(ctx)
	return created, nil
}

// UpdateProduct applies the same image resolution as AddProduct; hosted
// descriptors pass through and only net-new files are uploaded. On success
// the matching record is replaced in place and the history log is re-fetched.
func (s *Store) UpdateProduct(ctx context.Context, id string, input ProductInput) (Product, error) {
	images, err := s.resolveImages(ctx, input.Images, imagePrefix)
	if err != nil {
		return Product{}, err
	}
	payload := productPayload{ProductInput: input, Images: images}
	if input.Category == CategoryMobilePhones {
		if first := firstNonEmpty(input.IMEINumbers); first != "" {
			payload.SKU = first
		}
	}

	var updated Product
	if err := s.api.Put(ctx, "/products/"+id, payload, &updated); err != nil {
		return Product{}, fmt.Errorf("inventory: update product %s: %w", id, err)
	}
	updated = normalizeProduct(updated)

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = updated
			break
		}
	}
	s.mu.Unlock()
	s.refreshHistory(ctx)
	return updated, nil
}

// DeleteProduct removes the product remotely, then locally, and re-fetches
// the history log. No optimistic removal.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/products/"+id, nil); err != nil {
		return fmt.Errorf("inventory: delete product %s: %w", id, err)
	}
	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.refreshHistory(ctx)
	return nil
}

// refreshHistory re-fetches the event log after a successful mutation. The
// mutation itself already succeeded, so a failed refresh is only a warning
// and the stale log stays in place.
func (s *Store) refreshHistory(ctx context.Context) {
	if err := s.LoadHistory(ctx); err != nil {
		s.logger.Warn("history refresh failed", slog.Any("error", err))
	}
}

// LoadHistory fetches the most recent history events and replaces the local
// log wholesale.
func (s *Store) LoadHistory(ctx context.Context) error {
	var out struct {
		Events []HistoryEvent `json:"events"`
	}
	query := map[string]string{"limit": strconv.Itoa(s.historyPageSize)}
	if err := s.api.Get(ctx, "/products/history", query, &out); err != nil {
		return fmt.Errorf("inventory: load history: %w", err)
	}
	events := out.Events
	if events == nil {
		events = []HistoryEvent{}
	}
	s.mu.Lock()
	s.history = events
	s.mu.Unlock()
	return nil
}

// ExportCSV returns the server-rendered CSV export verbatim. No client-side
// CSV generation happens on this path.
func (s *Store) ExportCSV(ctx context.Context) (string, error) {
	text, err := s.api.GetText(ctx, "/products/export/csv", nil)
	if err != nil {
		return "", fmt.Errorf("inventory: export csv: %w", err)
	}
	return text, nil
}

// Stats derives catalog statistics from the current mirror. Pure and
// synchronous; no network call.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.products)}
	for _, p := range s.products {
		stats.TotalValue += p.SellingPrice * float64(p.Quantity)
		switch p.StockStatus() {
		case StockStatusOut:
			stats.OutOfStock++
		case StockStatusLow:
			stats.LowStock++
		}
	}
	return stats
}

// Products returns a snapshot copy of the mirror.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// History returns a snapshot copy of the history log.
func (s *Store) History() []HistoryEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]HistoryEvent, len(s.history))
	copy(out, s.history)
	return out
}

// LookupProduct resolves a product's display name and selling price from the
// mirror. The ledger store uses this for sale line pricing; callers must
// have loaded products first or lookups miss.
func (s *Store) LookupProduct(id string) (name string, sellingPrice float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p.Name, p.SellingPrice, true
		}
	}
	return "", 0, false
}

// normalizeProduct fills defaults on records returned by the remote system.
func normalizeProduct(p Product) Product {
	if p.Images == nil {
		p.Images = []Image{}
	}
	if p.ColorVariant == "" {
		p.ColorVariant = VariantSame
	}
	if p.PriceVariant == "" {
		p.PriceVariant = VariantSame
	}
	if p.PurchasePriceVariant == "" {
		p.PurchasePriceVariant = VariantSame
	}
	return p
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
