package cart

import (
	"math"

	"orderpad/internal/domain"
	"orderpad/internal/itemcode"
)

// Apply is the transition function of the cart state machine. It is total:
// malformed input degrades to a no-op or a safe default, never a panic or
// an error. The returned cart shares no line storage with the input.
func Apply(state domain.Cart, action Action) domain.Cart {
	switch a := action.(type) {
	case Hydrate:
		return a.Cart.Clone()

	case SetType:
		if a.Type != domain.DocumentOrder && a.Type != domain.DocumentQuote {
			return state
		}
		state.Type = a.Type
		return state

	case SetCustomer:
		if a.Customer == nil {
			state.Customer = nil
			return state
		}
		cust := a.Customer.Clone()
		state.Customer = &cust
		return state

	case SetReference:
		state.Reference = a.Value
		return state

	case SetRemark:
		state.Remark = a.Value
		return state

	case SetDeliveryDate:
		state.DeliveryDate = a.Value
		return state

	case SetWarehouse:
		state.Warehouse = a.Value
		return state

	case AddItem:
		return applyAdd(state, a)

	case RemoveLine:
		key := itemcode.Normalize(a.ItemID)
		if key == "" {
			return state
		}
		return withoutLine(state, key)

	case ClearLines:
		state.Lines = []domain.CartLine{}
		return state

	case Reset:
		return domain.NewCart()
	}

	return state
}

// LineKeyOf returns the identifier a stored line is keyed by.
func LineKeyOf(l domain.CartLine) string {
	return itemcode.LineKey(l.ArticleNumber, l.ItemID)
}

func applyAdd(state domain.Cart, a AddItem) domain.Cart {
	key := itemcode.LineKey(a.Item.ArticleNumber, a.Item.ItemID)
	if key == "" {
		return state
	}

	idx := -1
	for i, l := range state.Lines {
		if LineKeyOf(l) == key {
			idx = i
			break
		}
	}

	if idx < 0 {
		if a.Delta <= 0 {
			return state
		}
		line := domain.CartLine{
			ItemID:        itemcode.Normalize(a.Item.ItemID),
			ArticleNumber: a.Item.ArticleNumber,
			Name:          a.Item.Name,
			Quantity:      a.Delta,
			ImageURL:      a.Item.ImageURL,
		}
		if line.ItemID == "" {
			line.ItemID = key
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if p := a.Item.BasePrice; p != nil && isFinite(*p) {
			line.BasePrice = *p
		}
		if a.Item.StepSize > 0 {
			line.StepSize = a.Item.StepSize
		}
		if a.Item.Stock != nil {
			s := *a.Item.Stock
			line.Stock = &s
		}
		lines := make([]domain.CartLine, 0, len(state.Lines)+1)
		lines = append(lines, state.Lines...)
		state.Lines = append(lines, line)
		return state
	}

	newQty := state.Lines[idx].Quantity + a.Delta
	if newQty <= 0 {
		return withoutLine(state, key)
	}

	lines := make([]domain.CartLine, len(state.Lines))
	copy(lines, state.Lines)
	line := lines[idx].Clone()
	line.Quantity = newQty

	// Merge semantics: fields the payload provides win, omitted fields keep
	// the stored value.
	if a.Item.Name != "" {
		line.Name = a.Item.Name
	}
	if p := a.Item.BasePrice; p != nil && isFinite(*p) {
		line.BasePrice = *p
	}
	if a.Item.ArticleNumber != "" {
		line.ArticleNumber = a.Item.ArticleNumber
	}
	if a.Item.ImageURL != "" {
		line.ImageURL = a.Item.ImageURL
	}
	if a.Item.StepSize > 0 {
		line.StepSize = a.Item.StepSize
	}
	if a.Item.Stock != nil {
		line.Stock = mergeStock(line.Stock, a.Item.Stock)
	}

	lines[idx] = line
	state.Lines = lines
	return state
}

func mergeStock(existing, incoming *domain.StockSnapshot) *domain.StockSnapshot {
	merged := domain.StockSnapshot{}
	if existing != nil {
		merged = *existing
	}
	if incoming.Status != nil {
		merged.Status = incoming.Status
	}
	if incoming.Available != nil {
		merged.Available = incoming.Available
	}
	if incoming.OnOrder != nil {
		merged.OnOrder = incoming.OnOrder
	}
	if incoming.ArrivalDate != nil {
		merged.ArrivalDate = incoming.ArrivalDate
	}
	if incoming.Economic != nil {
		merged.Economic = incoming.Economic
	}
	merged.SoldOut = incoming.SoldOut
	return &merged
}

func withoutLine(state domain.Cart, key string) domain.Cart {
	lines := make([]domain.CartLine, 0, len(state.Lines))
	for _, l := range state.Lines {
		if LineKeyOf(l) == key {
			continue
		}
		lines = append(lines, l)
	}
	state.Lines = lines
	return state
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
