// Package itemcode canonicalizes article identifiers. The ERP emits item
// codes under several field names and with inconsistent padding; every
// lookup site (cart line keys, price cache keys, quantity queries) must go
// through Normalize or lines silently fail to merge and price.
package itemcode

import "strings"

// Normalize trims the identifier and strips at most one leading zero from
// purely numeric codes, which is how padded ERP exports differ from the
// codes the pricing service keys on. Empty input normalizes to "".
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 1 && s[0] == '0' && isDigits(s) {
		return s[1:]
	}
	return s
}

// LineKey picks the identifier a cart line is keyed by: the article number
// when present, the item id otherwise.
func LineKey(articleNumber, itemID string) string {
	if k := Normalize(articleNumber); k != "" {
		return k
	}
	return Normalize(itemID)
}

// FromRow extracts the item code from a loosely shaped backend row, trying
// the field spellings seen in ERP exports in order.
func FromRow(row map[string]interface{}) string {
	for _, key := range []string{
		"itemcode", "itemCode", "ItemCode", "item_code",
		"ARTICLECODE", "articleNumber", "article_number",
	} {
		if v, ok := row[key]; ok {
			if s, ok := v.(string); ok {
				if n := Normalize(s); n != "" {
					return n
				}
			}
		}
	}
	return ""
}

// Uniq normalizes a batch of identifiers, drops empties, and deduplicates
// while preserving first-seen order.
func Uniq(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		n := Normalize(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
