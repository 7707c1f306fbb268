package domain

// DocumentType distinguishes a firm order from a quote. The wire values
// follow the ERP vocabulary.
type DocumentType string

const (
	DocumentOrder DocumentType = "order"
	DocumentQuote DocumentType = "offerte"
)

// DefaultWarehouse is the code preselected for new carts.
const DefaultWarehouse = "01"

// StockSnapshot captures availability figures at the moment an item was
// added. Informational only; never re-validated afterwards.
type StockSnapshot struct {
	Status      *string  `json:"status,omitempty"`
	Available   *float64 `json:"available,omitempty"`
	OnOrder     *float64 `json:"onOrder,omitempty"`
	ArrivalDate *string  `json:"arrivalDate,omitempty"`
	Economic    *float64 `json:"economic,omitempty"`
	SoldOut     bool     `json:"soldOut,omitempty"`
}

// CartLine is one article row in the cart. BasePrice is the catalog price
// recorded at add time; customer-specific pricing lives in the price cache
// and never overwrites it.
type CartLine struct {
	ItemID        string         `json:"itemId"`
	ArticleNumber string         `json:"articleNumber,omitempty"`
	Name          string         `json:"name"`
	BasePrice     float64        `json:"basePrice"`
	Quantity      int            `json:"quantity"`
	StepSize      int            `json:"packagingStepSize,omitempty"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	Stock         *StockSnapshot `json:"stock,omitempty"`
}

// Cart is the in-progress order or quote draft for one agent session.
type Cart struct {
	Type         DocumentType `json:"type"`
	Customer     *Customer    `json:"customer,omitempty"`
	Lines        []CartLine   `json:"lines"`
	Reference    string       `json:"reference"`
	Remark       string       `json:"remark"`
	DeliveryDate string       `json:"deliveryDate"`
	Warehouse    string       `json:"warehouse"`
}

// NewCart returns the empty initial cart shape.
func NewCart() Cart {
	return Cart{
		Type:      DocumentOrder,
		Lines:     []CartLine{},
		Warehouse: DefaultWarehouse,
	}
}

// Clone returns a deep copy, safe to hand out past the store boundary.
func (c Cart) Clone() Cart {
	out := c
	if c.Customer != nil {
		cust := c.Customer.Clone()
		out.Customer = &cust
	}
	out.Lines = make([]CartLine, len(c.Lines))
	for i, l := range c.Lines {
		out.Lines[i] = l.Clone()
	}
	return out
}

// Clone returns a deep copy of the line.
func (l CartLine) Clone() CartLine {
	out := l
	if l.Stock != nil {
		s := *l.Stock
		out.Stock = &s
	}
	return out
}
