package inventory

import (
	"errors"
	"time"
)

// Category enumerates the closed set of product categories.
type Category string

const (
	// CategoryMobilePhones marks serialized phone batches.
	CategoryMobilePhones Category = "Mobile Phones"
	// CategoryAccessories covers chargers, cases and similar items.
	CategoryAccessories Category = "Accessories"
	// CategorySmartwatches covers wearables.
	CategorySmartwatches Category = "Smartwatches"
	// CategoryAudioDevices covers headphones and speakers.
	CategoryAudioDevices Category = "Audio Devices"
	// CategoryTablets covers tablets.
	CategoryTablets Category = "Tablets"
	// CategoryLaptops covers laptops.
	CategoryLaptops Category = "Laptops"
	// CategoryCustom is the vendor-defined escape hatch.
	CategoryCustom Category = "Custom"
)

// VariantMode selects whether per-device arrays are consulted per index or a
// single shared value applies to the whole batch.
type VariantMode string

const (
	// VariantSame applies one shared value to every device in the batch.
	VariantSame VariantMode = "same"
	// VariantDifferent consults the per-device array by index.
	VariantDifferent VariantMode = "different"
)

// StockStatus is the derived stock label; the min-stock threshold is never
// enforced, only reported.
type StockStatus string

const (
	// StockStatusIn means quantity above the threshold.
	StockStatusIn StockStatus = "in_stock"
	// StockStatusLow means 0 < quantity <= min stock.
	StockStatusLow StockStatus = "low_stock"
	// StockStatusOut means zero quantity.
	StockStatusOut StockStatus = "out_of_stock"
)

// Image describes one hosted product image.
type Image struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Product mirrors one vendor-owned catalog record as held by the remote
// system. For Mobile Phones the per-device arrays describe the batch; their
// lengths should equal Quantity but the client tolerates mismatches.
type Product struct {
	ID          string   `json:"id"`
	SKU         string   `json:"sku"`
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

	Images []Image           `json:"images"`
	Specs  map[string]string `json:"specs,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StockStatus derives the stock label from quantity and the min-stock
// threshold.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.Quantity == 0:
		return StockStatusOut
	case p.Quantity <= p.MinStock:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// deviceFallback is shown when a per-device value cannot be resolved.
const deviceFallback = "N/A"

// DeviceIMEI returns the identifier of device i, or "N/A" when the array is
// shorter than the batch.
func (p Product) DeviceIMEI(i int) string {
	if i < 0 || i >= len(p.IMEINumbers) || p.IMEINumbers[i] == "" {
		return deviceFallback
	}
	return p.IMEINumbers[i]
}

// DeviceColor returns the color of device i. With VariantSame the shared
// first value applies; out-of-range indexes degrade to "N/A".
func (p Product) DeviceColor(i int) string {
	if p.ColorVariant != VariantDifferent {
		if len(p.Colors) > 0 && p.Colors[0] != "" {
			return p.Colors[0]
		}
		return deviceFallback
	}
	if i < 0 || i >= len(p.Colors) || p.Colors[i] == "" {
		return deviceFallback
	}
	return p.Colors[i]
}

// DeviceSellingPrice returns the selling price of device i, falling back to
// the shared selling price when the per-device value is unavailable.
func (p Product) DeviceSellingPrice(i int) float64 {
	if p.PriceVariant != VariantDifferent {
		return p.SellingPrice
	}
	if i < 0 || i >= len(p.IndividualSellingPrices) {
		return p.SellingPrice
	}
	return p.IndividualSellingPrices[i]
}

// DevicePurchasePrice returns the purchase price of device i, falling back to
// the shared purchase price when the per-device value is unavailable.
func (p Product) DevicePurchasePrice(i int) float64 {
	if p.PurchasePriceVariant != VariantDifferent {
		return p.PurchasePrice
	}
	if i < 0 || i >= len(p.IndividualPurchasePrices) {
		return p.PurchasePrice
	}
	return p.IndividualPurchasePrices[i]
}

// EventType enumerates inventory history event kinds.
type EventType string

const (
	// EventAdd records product creation.
	EventAdd EventType = "add"
	// EventUpdate records a field update.
	EventUpdate EventType = "update"
	// EventDelete records product removal.
	EventDelete EventType = "delete"
	// EventSale records stock consumed by a sale.
	EventSale EventType = "sale"
	// EventAdjustment records a manual stock correction.
	EventAdjustment EventType = "adjustment"
)

// HistoryEvent is one immutable entry of the append-only inventory log. The
// remote system is the sole writer; the client only reads.
type HistoryEvent struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	Type           EventType `json:"type"`
	QuantityChange int       `json:"quantityChange,omitempty"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Stats is the pure derivation over the local product mirror.
type Stats struct {
	Total      int
	TotalValue float64
	LowStock   int
	OutOfStock int
}

// ErrUnknownImageSource indicates an image input that is neither a hosted
// descriptor nor a raw file.
var ErrUnknownImageSource = errors.New("inventory: unknown image source")
