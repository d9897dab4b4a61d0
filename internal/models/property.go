package models

// PriceType discriminates how a property's asking price is expressed.
type PriceType string

const (
	PriceTypeFixed   PriceType = "fixed"
	PriceTypeRange   PriceType = "range"
	PriceTypeContact PriceType = "contact"
)

// Price is a property's asking price: a fixed amount, a min/max range, or
// the "contact agent" sentinel carrying no numeric value at all.
type Price struct {
	Type      PriceType `json:"type"`
	Amount    *float64  `json:"amount,omitempty"`
	MinAmount *float64  `json:"minAmount,omitempty"`
	MaxAmount *float64  `json:"maxAmount,omitempty"`
}

// Bounds returns the representative low and high values of the price.
// ok is false when the price carries no usable number (contact prices,
// zero amounts, ranges with both ends absent) so callers can exclude it
// from aggregate min/max computations.
func (p Price) Bounds() (low, high float64, ok bool) {
	switch p.Type {
	case PriceTypeFixed:
		if p.Amount != nil && *p.Amount > 0 {
			return *p.Amount, *p.Amount, true
		}
	case PriceTypeRange:
		if p.MinAmount != nil {
			low = *p.MinAmount
		}
		if p.MaxAmount != nil {
			high = *p.MaxAmount
		}
		if p.MinAmount == nil {
			low = high
		}
		if p.MaxAmount == nil {
			high = low
		}
		if low > 0 || high > 0 {
			return low, high, true
		}
	}
	return 0, 0, false
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Property represents a single listing as consumed by the map engine.
// Location is nil for listings that were never geocoded; those can never
// appear on the map.
type Property struct {
	ID       string      `json:"id"`
	Title    string      `json:"title,omitempty"`
	Location *Coordinate `json:"location,omitempty"`
	Price    Price       `json:"price"`
}
