package importing

import "github.com/shopspring/decimal"

// ResolveRetailPrice derives a row's retail price from its per-location
// prices under the given strategy. The sale strategy falls back to the
// row's base price when no sale price was captured. Never rounds.
func ResolveRetailPrice(row *ImportRow, strategy PriceStrategy) decimal.Decimal {
	switch strategy {
	case PriceStrategyMaxLocation:
		max := decimal.Zero
		for _, price := range row.LocationPrices {
			if price.GreaterThan(max) {
				max = price
			}
		}
		return max
	default:
		return row.Price
	}
}

// ResolveWholesalePrice takes the wholesale price from the chosen
// location column, or leaves it absent when the location is unknown
func ResolveWholesalePrice(row *ImportRow, location string) *decimal.Decimal {
	if location == "" {
		return nil
	}
	price, ok := row.LocationPrices[Fold(location)]
	if !ok {
		return nil
	}
	return &price
}
