package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"orderpad/internal/domain"
	"orderpad/internal/itemcode"
)

// SanitizeJSON decodes a stored cart blob and coerces it into a well-formed
// cart. The error is only for undecodable JSON; any shape problem inside a
// decodable document is repaired or dropped field by field.
func SanitizeJSON(data []byte) (domain.Cart, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Cart{}, err
	}
	return sanitize(raw), nil
}

// sanitize maps the heterogeneous stored shape into the fixed internal one.
// Field-name fallbacks live here and nowhere else; past this boundary the
// rest of the code never re-guesses backend spellings.
func sanitize(raw map[string]json.RawMessage) domain.Cart {
	out := domain.NewCart()

	if rawString(raw, "type") == string(domain.DocumentQuote) {
		out.Type = domain.DocumentQuote
	}

	if v, ok := raw["customer"]; ok && !isNull(v) {
		var cust domain.Customer
		if err := json.Unmarshal(v, &cust); err == nil && strings.TrimSpace(cust.CustomerNumber) != "" {
			cust.CustomerNumber = strings.TrimSpace(cust.CustomerNumber)
			out.Customer = &cust
		}
	}

	if v, ok := raw["lines"]; ok {
		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(v, &rows); err == nil {
			for _, row := range rows {
				if line, ok := sanitizeLine(row); ok {
					out.Lines = append(out.Lines, line)
				}
			}
		}
	}

	out.Reference = rawString(raw, "reference")
	out.Remark = rawString(raw, "remark")
	out.DeliveryDate = rawString(raw, "deliveryDate")
	if wh := rawString(raw, "warehouse"); wh != "" {
		out.Warehouse = wh
	}

	return out
}

func sanitizeLine(row map[string]json.RawMessage) (domain.CartLine, bool) {
	itemID := itemcode.Normalize(firstString(row, "itemId", "productId"))
	if itemID == "" {
		return domain.CartLine{}, false
	}

	line := domain.CartLine{
		ItemID:        itemID,
		ArticleNumber: firstString(row, "articleNumber", "article_number"),
		Name:          firstString(row, "name"),
		ImageURL:      firstString(row, "imageUrl", "image_url"),
	}

	if n, ok := firstNumber(row, "basePrice", "price"); ok {
		line.BasePrice = n
	}
	if n, ok := firstNumber(row, "quantity", "qty"); ok {
		line.Quantity = int(n)
	}
	if line.Quantity <= 0 {
		return domain.CartLine{}, false
	}

	if n, ok := firstNumber(row, "packagingStepSize", "outerCartonQty", "outercarton", "OUTERCARTON", "outer_carton_qty"); ok && n > 0 {
		line.StepSize = int(n)
	}

	line.Stock = sanitizeStock(row)
	return line, true
}

// sanitizeStock reads availability fields from either the nested stock
// object this service writes or the flat legacy spellings older mobile
// drafts carry.
func sanitizeStock(row map[string]json.RawMessage) *domain.StockSnapshot {
	fields := row
	if v, ok := row["stock"]; ok && !isNull(v) {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(v, &nested); err == nil {
			fields = nested
		}
	}

	var snap domain.StockSnapshot
	found := false

	if s := firstString(fields, "status", "stockStatus", "stock_status"); s != "" {
		snap.Status = &s
		found = true
	}
	if n, ok := firstNumber(fields, "available", "availableStock", "available_stock", "stock"); ok {
		snap.Available = &n
		found = true
	}
	if n, ok := firstNumber(fields, "onOrder", "on_order", "onOrderQty"); ok {
		snap.OnOrder = &n
		found = true
	}
	if s := firstString(fields, "arrivalDate", "arrival_date", "expectedDate", "expected_date"); s != "" {
		snap.ArrivalDate = &s
		found = true
	}
	if n, ok := firstNumber(fields, "economic", "economicStock", "economic_stock"); ok {
		snap.Economic = &n
		found = true
	}
	if b, ok := firstBool(fields, "soldOut", "isSoldOut", "is_sold_out"); ok {
		snap.SoldOut = b
		found = true
	}

	if !found {
		return nil
	}
	return &snap
}

func rawString(raw map[string]json.RawMessage, key string) string {
	return firstString(raw, key)
}

func firstString(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || isNull(v) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return ""
}

// firstNumber coerces the first present field to a finite float64. Strings
// are accepted with either decimal separator since ERP exports use commas.
func firstNumber(raw map[string]json.RawMessage, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || isNull(v) {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			if isFinite(f) {
				return f, true
			}
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
			if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, true
			}
		}
	}
	return 0, false
}

func firstBool(raw map[string]json.RawMessage, keys ...string) (bool, bool) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || isNull(v) {
			continue
		}
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			return b, true
		}
	}
	return false, false
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}
