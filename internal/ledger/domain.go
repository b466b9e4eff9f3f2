package ledger

import (
	"errors"
	"time"
)

// TransactionType discriminates financial records.
type TransactionType string

const (
	// TypeSale is revenue from selling inventory.
	TypeSale TransactionType = "sale"
	// TypeExpense is money spent.
	TypeExpense TransactionType = "expense"
)

// PaymentMethod enumerates the closed set of payment channels.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentJazzCash     PaymentMethod = "JazzCash"
	PaymentEasypaisa    PaymentMethod = "Easypaisa"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentCard         PaymentMethod = "Card Payment"
	PaymentCustom       PaymentMethod = "Custom"
)

// ExpenseCategory enumerates the closed set of expense categories.
type ExpenseCategory string

const (
	ExpenseRent           ExpenseCategory = "Rent"
	ExpenseUtilities      ExpenseCategory = "Utilities"
	ExpenseSalaries       ExpenseCategory = "Salaries"
	ExpenseMarketing      ExpenseCategory = "Marketing"
	ExpenseTransportation ExpenseCategory = "Transportation"
	ExpenseSupplies       ExpenseCategory = "Supplies"
	ExpenseTaxes          ExpenseCategory = "Taxes"
	ExpenseCustom         ExpenseCategory = "Custom"
)

// Status is the transaction lifecycle state.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// SaleItem is one line of a sale with the product name snapshotted at sale
// time.
type SaleItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// Transaction mirrors one financial record held by the remote system.
// ProfitAmount and PurchaseCost are server-computed from the product's
// purchase price at time of sale; the client never derives them for
// persistence.
type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	Date          time.Time       `json:"date"`
	Amount        float64         `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        Status          `json:"status"`
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Deleted       bool            `json:"deleted,omitempty"`

	// Sale fields.
	Items         []SaleItem `json:"items,omitempty"`
	CustomerName  string     `json:"customerName,omitempty"`
	CustomerPhone string     `json:"customerPhone,omitempty"`
	SoldIMEIs     []string   `json:"soldImeis,omitempty"`
	SoldColors    []string   `json:"soldColors,omitempty"`
	ProfitAmount  float64    `json:"profitAmount,omitempty"`
	PurchaseCost  float64    `json:"purchaseCost,omitempty"`

	// Expense fields.
	Category    ExpenseCategory `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Totals aggregates sales against expenses for a period.
type Totals struct {
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// TopSeller is one entry of the ranked best-selling products view.
type TopSeller struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	QuantitySold int     `json:"quantitySold"`
	Revenue      float64 `json:"revenue"`
}

// ErrValidation wraps input validation failures.
var ErrValidation = errors.New("ledger: invalid input")
