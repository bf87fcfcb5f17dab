package types

import "strings"

// Address is the delivery address snapshot stored on each order. Persisted as
// jsonb via gorm's json serializer.
type Address struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// Validate reports the first missing required field, or "".
func (a Address) Validate() string {
	switch {
	case strings.TrimSpace(a.Recipient) == "":
		return "recipient"
	case strings.TrimSpace(a.Phone) == "":
		return "phone"
	case strings.TrimSpace(a.Street) == "":
		return "street"
	case strings.TrimSpace(a.City) == "":
		return "city"
	case strings.TrimSpace(a.PostalCode) == "":
		return "postal_code"
	}
	return ""
}
