package domain

// PriceSource records where a resolved price came from. Kept for auditing
// and debugging; the core never branches on it.
type PriceSource string

const (
	PriceSourceCustomer  PriceSource = "debiteur"
	PriceSourcePriceList PriceSource = "prijslijst"
	PriceSourceBase      PriceSource = "basis"
	PriceSourceNone      PriceSource = "none"
)

// ResolvedPrice is the customer-specific unit price for one item. A nil
// Price means the pricing service had no price for this customer/item pair.
type ResolvedPrice struct {
	Price  *float64    `json:"price"`
	Source PriceSource `json:"source"`
}
