// Package ledger maintains the client-side mirror of a vendor's financial
// transactions and exposes server-authoritative and local aggregate views.
//
// Error policy: mirror loads and mutations propagate failures and leave
// local state untouched; the read-only aggregate conveniences (Totals,
// TopSellers, ExportExcel) default on failure with a warning log.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vendorhub/vendorhub/internal/platform/api"
	"github.com/vendorhub/vendorhub/internal/shared"
)

// ProductLookup resolves sale line pricing from the inventory mirror. The
// inventory store satisfies this; injecting it makes the cross-store read
// dependency explicit. Lookups miss until products are loaded.
type ProductLookup interface {
	LookupProduct(id string) (name string, sellingPrice float64, ok bool)
}

// SaleItemInput is one requested sale line. A zero UnitPrice means "resolve
// the product's current selling price".
type SaleItemInput struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

// SaleInput is the AddSale request.
type SaleInput struct {
	Date          time.Time       `json:"date"`
	Items         []SaleItemInput `json:"items" validate:"min=1,dive"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" validate:"required"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	SoldIMEIs     []string        `json:"soldImeis"`
	SoldColors    []string        `json:"soldColors"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Notes         string          `json:"notes"`
}

// ExpenseInput is the AddExpense request.
type ExpenseInput struct {
	Date          time.Time       `json:"date"`
	Category      ExpenseCategory `json:"category" validate:"required"`
	Description   string          `json:"description"`
	Amount        float64         `json:"amount" validate:"gt=0"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" validate:"required"`
	Notes         string          `json:"notes"`
}

// TransactionPatch is a partial update; nil fields are left untouched by the
// remote system.
type TransactionPatch struct {
	Date          *time.Time       `json:"date,omitempty"`
	Amount        *float64         `json:"amount,omitempty"`
	PaymentMethod *PaymentMethod   `json:"paymentMethod,omitempty"`
	Status        *Status          `json:"status,omitempty"`
	InvoiceNumber *string          `json:"invoiceNumber,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	Category      *ExpenseCategory `json:"category,omitempty"`
	Description   *string          `json:"description,omitempty"`
}

// Store owns the in-memory transaction mirror.
type Store struct {
	api      *api.Client
	products ProductLookup
	validate *validator.Validate
	logger   *slog.Logger

	mu           sync.RWMutex
	loading      bool
	transactions []Transaction
}

// NewStore builds a Store with fresh empty state.
func NewStore(client *api.Client, products ProductLookup, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:          client,
		products:     products,
		validate:     validator.New(),
		logger:       logger,
		transactions: []Transaction{},
	}
}

// Loading reports whether a LoadTransactions call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LoadTransactions fetches the full transaction list and replaces the mirror
// wholesale. Failures propagate and leave the mirror untouched.
func (s *Store) LoadTransactions(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var out struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := s.api.Get(ctx, "/transactions", nil, &out); err != nil {
		return fmt.Errorf("ledger: load transactions: %w", err)
	}
	transactions := out.Transactions
	if transactions == nil {
		transactions = []Transaction{}
	}
	s.mu.Lock()
	s.transactions = transactions
	s.mu.Unlock()
	return nil
}

// AddSale resolves line pricing through the product lookup, computes the
// request amount client-side, and trusts the server echo for identifiers,
// timestamps, profit and cost. The locally-computed line items are kept for
// display when the echo omits them.
func (s *Store) AddSale(ctx context.Context, input SaleInput) (Transaction, error) {
	if err := s.validate.Struct(input); err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	items := make([]SaleItem, len(input.Items))
	var amount float64
	for i, req := range input.Items {
		name, price, _ := s.products.LookupProduct(req.ProductID)
		unit := req.UnitPrice
		if unit == 0 {
			unit = price
		}
		items[i] = SaleItem{
			ProductID: req.ProductID,
			Name:      name,
			Quantity:  req.Quantity,
			UnitPrice: unit,
			Total:     unit * float64(req.Quantity),
		}
		amount += items[i].Total
	}

	payload := Transaction{
		Type:          TypeSale,
		Date:          input.Date,
		Amount:        amount,
		PaymentMethod: input.PaymentMethod,
		Items:         items,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		SoldIMEIs:     input.SoldIMEIs,
		SoldColors:    input.SoldColors,
		InvoiceNumber: input.InvoiceNumber,
		Notes:         input.Notes,
	}

	var created Transaction
	if err := s.api.Post(ctx, "/transactions/sale", payload, &created); err != nil {
		return Transaction{}, fmt.Errorf("ledger: add sale: %w", err)
	}
	if len(created.Items) == 0 {
		created.Items = items
	}

	s.mu.Lock()
	s.transactions = append([]Transaction{created}, s.transactions...)
	s.mu.Unlock()
	return created, nil
}

// AddExpense records an expense in a single round trip and prepends the
// server echo.
func (s *Store) AddExpense(ctx context.Context, input ExpenseInput) (Transaction, error) {
	if err := s.validate.Struct(input); err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	payload := Transaction{
		Type:          TypeExpense,
		Date:          input.Date,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Category:      input.Category,
		Description:   input.Description,
		Notes:         input.Notes,
	}

	var created Transaction
	if err := s.api.Post(ctx, "/transactions/expense", payload, &created); err != nil {
		return Transaction{}, fmt.Errorf("ledger: add expense: %w", err)
	}

	s.mu.Lock()
	s.transactions = append([]Transaction{created}, s.transactions...)
	s.mu.Unlock()
	return created, nil
}

// EditTransaction sends a partial update and replaces the cached record with
// the server echo. No optimistic local merge.
func (s *Store) EditTransaction(ctx context.Context, id string, patch TransactionPatch) (Transaction, error) {
	var updated Transaction
	if err := s.api.Put(ctx, "/transactions/"+id, patch, &updated); err != nil {
		return Transaction{}, fmt.Errorf("ledger: edit transaction %s: %w", id, err)
	}
	s.mu.Lock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// DeleteTransaction removes the record remotely, then locally.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/transactions/"+id, nil); err != nil {
		return fmt.Errorf("ledger: delete transaction %s: %w", id, err)
	}
	s.mu.Lock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Totals delegates to the remote aggregation endpoint. On failure it returns
// zero totals with a warning log and never errors.
func (s *Store) Totals(ctx context.Context, period shared.Period) Totals {
	var out Totals
	query := map[string]string{"period": string(period)}
	if err := s.api.Get(ctx, "/transactions/totals", query, &out); err != nil {
		s.logger.Warn("ledger totals unavailable, returning zeros", slog.Any("error", err))
		return Totals{}
	}
	return out
}

// TopSellers returns the ranked best-selling products, or an empty list on
// failure.
func (s *Store) TopSellers(ctx context.Context, limit int) []TopSeller {
	var out struct {
		Products []TopSeller `json:"products"`
	}
	query := map[string]string{"limit": strconv.Itoa(limit)}
	if err := s.api.Get(ctx, "/transactions/top-sellers", query, &out); err != nil {
		s.logger.Warn("top sellers unavailable, returning empty list", slog.Any("error", err))
		return []TopSeller{}
	}
	if out.Products == nil {
		return []TopSeller{}
	}
	return out.Products
}

// ExportExcel returns the server-rendered spreadsheet export, or "" on
// failure.
func (s *Store) ExportExcel(ctx context.Context) string {
	text, err := s.api.GetText(ctx, "/transactions/export/xlsx", nil)
	if err != nil {
		s.logger.Warn("spreadsheet export unavailable", slog.Any("error", err))
		return ""
	}
	return text
}

// Transactions returns a snapshot copy of the mirror.
func (s *Store) Transactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}
