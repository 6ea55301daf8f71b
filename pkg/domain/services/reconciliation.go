package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

const (
	isoTimestamp = "2006-01-02T15:04:05.000Z"
	isoDate      = "2006-01-02"
)

// PurchaseOptions carries optional data for a purchase status change
type PurchaseOptions struct {
	DeliveryForecast string
}

// Reconciler derives stock sufficiency and purchase flags for material lines
type Reconciler struct{}

// NewReconciler creates a new material reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseQuantity coerces operator input into a non-negative quantity.
// The first comma is read as the decimal separator and only the leading
// number counts, so "4 pç" is 4 and "1.500,5" is 1.5. Anything else is zero.
func ParseQuantity(raw string) decimal.Decimal {
	raw = strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	num := leadingNumber.FindString(raw)
	if num == "" {
		return decimal.Zero
	}
	num = strings.TrimPrefix(num, "+")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	} else if strings.HasPrefix(num, "-.") {
		num = "-0" + num[1:]
	}
	if i := strings.IndexAny(num, "eE"); i > 0 && num[i-1] == '.' {
		num = num[:i-1] + num[i:]
	}
	num = strings.TrimSuffix(num, ".")
	v, err := decimal.NewFromString(num)
	if err != nil || v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// SetStockQuantity records the counted stock and clears open purchase requests it satisfies.
// Returns true when the purchase status was cleared.
func (r *Reconciler) SetStockQuantity(item *entities.MaterialItem, qty decimal.Decimal) bool {
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	item.QtyInStock = qty
	item.RefreshStock()

	if !item.InStock {
		return false
	}
	switch item.PurchaseStatus {
	case entities.PurchaseRequested, entities.PurchasePending, entities.PurchaseQuoting:
		item.PurchaseStatus = entities.PurchaseNone
		return true
	}
	return false
}

// MarkDelivered tops recorded stock up to exactly cover the requirement
func (r *Reconciler) MarkDelivered(item *entities.MaterialItem, now time.Time) {
	required := item.RequiredAmount()
	purchased := decimal.Max(decimal.Zero, required.Sub(item.QtyInStock))

	item.PurchaseStatus = entities.PurchaseDelivered
	item.InStock = true
	item.DeliveredDate = now.UTC().Format(isoDate)
	item.QtyInStock = item.QtyInStock.Add(purchased)
}

// ApplyPurchaseStatus moves an item to status, stamping the purchasing dates.
// No ordering between statuses is enforced.
func (r *Reconciler) ApplyPurchaseStatus(item *entities.MaterialItem, status entities.PurchaseStatus, opts PurchaseOptions, now time.Time) {
	stamp := now.UTC().Format(isoTimestamp)

	if opts.DeliveryForecast != "" {
		item.DeliveryForecast = opts.DeliveryForecast
	}
	switch status {
	case entities.PurchaseQuoting:
		if item.QuotationStartedDate == "" {
			item.QuotationStartedDate = stamp
		}
	case entities.PurchaseOrdered:
		if item.PurchaseOrderDate == "" {
			item.PurchaseOrderDate = stamp
		}
	case entities.PurchaseDelivered:
		r.MarkDelivered(item, now)
		return
	}
	item.PurchaseStatus = status
}

// RequestPurchase flags the item for purchasing regardless of its current status
func (r *Reconciler) RequestPurchase(item *entities.MaterialItem) {
	item.PurchaseStatus = entities.PurchaseRequested
}

// RequestShortfall flags the item for purchasing only when stock does not cover it.
// Returns true when the item was flagged.
func (r *Reconciler) RequestShortfall(item *entities.MaterialItem) bool {
	if item.InStock {
		return false
	}
	r.RequestPurchase(item)
	return true
}
