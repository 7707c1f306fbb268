package domain

import "encoding/json"

// CustomerAddress stores the delivery address fields the ERP returns.
type CustomerAddress struct {
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"houseNumber,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
}

// Customer is a reference to an ERP debtor. Fields the backend adds that we
// do not model are kept in Extra so they survive a persistence round trip.
type Customer struct {
	CustomerNumber string           `json:"customerNumber"`
	Name           string           `json:"name"`
	PriceListCode  string           `json:"priceListCode,omitempty"`
	Address        *CustomerAddress `json:"address,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownCustomerFields are the keys consumed by the typed fields above, plus
// the legacy spelling of the price list code.
var knownCustomerFields = map[string]bool{
	"customerNumber":      true,
	"name":                true,
	"priceListCode":       true,
	"prijslijstCode":      true,
	"voorkeur_prijslijst": true,
	"address":             true,
}

// UnmarshalJSON keeps unknown fields instead of dropping them, and accepts
// the older price-list spellings still present in stored drafts.
func (c *Customer) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.CustomerNumber = stringField(raw, "customerNumber")
	c.Name = stringField(raw, "name")
	c.PriceListCode = stringField(raw, "priceListCode")
	if c.PriceListCode == "" {
		c.PriceListCode = stringField(raw, "prijslijstCode")
	}
	if c.PriceListCode == "" {
		c.PriceListCode = stringField(raw, "voorkeur_prijslijst")
	}

	c.Address = nil
	if addr, ok := raw["address"]; ok {
		var a CustomerAddress
		if err := json.Unmarshal(addr, &a); err == nil {
			c.Address = &a
		}
	}

	c.Extra = nil
	for k, v := range raw {
		if knownCustomerFields[k] {
			continue
		}
		if c.Extra == nil {
			c.Extra = map[string]json.RawMessage{}
		}
		c.Extra[k] = v
	}
	return nil
}

// MarshalJSON writes the typed fields and folds Extra back in.
func (c Customer) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"customerNumber": c.CustomerNumber,
		"name":           c.Name,
	}
	if c.PriceListCode != "" {
		out["priceListCode"] = c.PriceListCode
	}
	if c.Address != nil {
		out["address"] = c.Address
	}
	for k, v := range c.Extra {
		if _, taken := out[k]; taken {
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// Clone returns a deep copy of the customer reference.
func (c Customer) Clone() Customer {
	out := c
	if c.Address != nil {
		a := *c.Address
		out.Address = &a
	}
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}
