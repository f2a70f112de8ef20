package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type SkuType string

const (
	SkuTypeInApp        SkuType = "SKU_TYPE_IN_APP" // one-time purchase
	SkuTypeSubscription SkuType = "SKU_TYPE_SUBSCRIPTION"
)

type SkuID struct {
	SkuType     SkuType `json:"skuType"`
	ID          string  `json:"id"`
	PackageName string  `json:"packageName"`
}

type Price struct {
	CurrencyCode   string `json:"currencyCode"`
	AmountInMicros string `json:"amountInMicros"`
}

// Display renders the price as "<amount> <currency>" with two decimals.
// It returns an empty string when the amount cannot be parsed.
func (p *Price) Display() string {
	if p == nil || p.AmountInMicros == "" {
		return ""
	}
	micros, err := decimal.NewFromString(p.AmountInMicros)
	if err != nil {
		return ""
	}
	amount := micros.Shift(-6).StringFixed(2)
	return strings.TrimSpace(amount + " " + p.CurrencyCode)
}

type Sku struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	SkuID          SkuID  `json:"skuId"`
	FormattedPrice string `json:"formattedPrice"`
	Price          *Price `json:"price,omitempty"`
}

func (s *Sku) DisplayPrice() string {
	if s.FormattedPrice != "" {
		return s.FormattedPrice
	}
	return s.Price.Display()
}

// SkuGroup is one batchGet request worth of ids sharing a sku type.
type SkuGroup struct {
	SkuType SkuType
	IDs     []string
}

// SelectionIndex maps SkuID.ID to the sku. Later duplicates overwrite earlier ones.
type SelectionIndex map[string]*Sku

func NewSelectionIndex(skus []*Sku) SelectionIndex {
	index := make(SelectionIndex, len(skus))
	for _, sku := range skus {
		index[sku.SkuID.ID] = sku
	}
	return index
}
