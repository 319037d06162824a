// Package curve implements the bonding-curve pricing engine. All functions
// are pure; quantities are fixed-point decimals so that supply, reserve and
// the graduation comparison never drift the way raw floats would.
package curve

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Curve parameters. These are protocol constants and must match whatever
// on-chain contract a live deployment mirrors.
var (
	// ReserveRatio controls price volatility. Lower = more volatile.
	ReserveRatio = decimal.NewFromFloat(0.3)
	// BasePrice is the price at zero supply.
	BasePrice = decimal.NewFromFloat(0.0001)
	// GraduationMarketCap is the market cap at which a token leaves the curve.
	GraduationMarketCap = decimal.NewFromInt(69000)
)

// ErrInsufficientSupply is returned when a sell exceeds the token supply.
var ErrInsufficientSupply = errors.New("curve: cannot sell more than supply")

var (
	half        = decimal.NewFromFloat(0.5)
	two         = decimal.NewFromInt(2)
	buyBase     = decimal.NewFromFloat(1.15)
	sellBase    = decimal.NewFromFloat(0.85)
	sellSlope   = decimal.NewFromFloat(0.3)
	sellFloor   = decimal.NewFromFloat(0.5)
	drainFactor = decimal.NewFromFloat(0.1)
	hundred     = decimal.NewFromInt(100)
)

// Price returns the spot price at the given supply and reserve.
// The logarithmic term dampens price blow-up at large supply; it is the
// only place floating point enters, and its inputs are bounded.
func Price(supply, reserve decimal.Decimal) decimal.Decimal {
	if supply.IsZero() {
		return BasePrice
	}
	base := reserve.Div(supply.Mul(ReserveRatio))
	s, _ := supply.Float64()
	damp := 1 + math.Log10(s/100000+1)*0.5
	return base.Mul(decimal.NewFromFloat(damp))
}

// BuyQuote is the outcome of pricing a buy of Amount tokens.
type BuyQuote struct {
	Cost     decimal.Decimal // currency the buyer pays (amount x avg price)
	AvgPrice decimal.Decimal // midpoint of spot and post-trade price
	NewPrice decimal.Decimal // spot price after the buy
}

// Buy prices a purchase of amount tokens against the current supply and
// reserve. Buys always push price up: the impact multiplier starts at 1.15
// and grows with trade size relative to supply. The average price is a
// two-point approximation, not a curve integral.
func Buy(supply, reserve, amount decimal.Decimal) (BuyQuote, error) {
	if supply.IsZero() {
		return BuyQuote{}, errors.New("curve: cannot price a buy at zero supply")
	}
	spot := Price(supply, reserve)
	impact := buyBase.Add(amount.Div(supply).Mul(half))
	newReserve := reserve.Add(amount.Mul(spot).Mul(impact))
	newPrice := Price(supply.Add(amount), newReserve)
	avg := spot.Add(newPrice).Div(two)
	return BuyQuote{
		Cost:     amount.Mul(avg),
		AvgPrice: avg,
		NewPrice: newPrice,
	}, nil
}

// SellQuote is the outcome of pricing a sell of Amount tokens.
type SellQuote struct {
	Revenue  decimal.Decimal // currency the seller receives
	AvgPrice decimal.Decimal // spot x impact, floored at 50% of spot
	NewPrice decimal.Decimal // spot price after the sell
}

// Sell prices a sale of amount tokens. Sells always push price down; the
// impact multiplier is floored at 0.5 to bound dump severity. Selling the
// entire supply resets price to 10% of the base price.
func Sell(supply, reserve, amount decimal.Decimal) (SellQuote, error) {
	if amount.GreaterThan(supply) {
		return SellQuote{}, ErrInsufficientSupply
	}
	spot := Price(supply, reserve)
	impact := sellBase.Sub(amount.Div(supply).Mul(sellSlope))
	if impact.LessThan(sellFloor) {
		impact = sellFloor
	}
	avg := spot.Mul(impact)
	revenue := amount.Mul(avg)
	newReserve := reserve.Sub(revenue)
	if newReserve.IsNegative() {
		newReserve = decimal.Zero
	}
	newSupply := supply.Sub(amount)
	newPrice := BasePrice.Mul(drainFactor)
	if newSupply.IsPositive() {
		newPrice = Price(newSupply, newReserve)
	}
	return SellQuote{
		Revenue:  revenue,
		AvgPrice: avg,
		NewPrice: newPrice,
	}, nil
}

// MarketCap is supply x price.
func MarketCap(supply, price decimal.Decimal) decimal.Decimal {
	return supply.Mul(price)
}

// IsGraduated reports whether a market cap has crossed the graduation
// threshold. Graduation is one-way; callers must never un-graduate.
func IsGraduated(marketCap decimal.Decimal) bool {
	return marketCap.GreaterThanOrEqual(GraduationMarketCap)
}

// Progress returns the percent progress toward graduation, capped at 100.
func Progress(marketCap decimal.Decimal) decimal.Decimal {
	p := marketCap.Div(GraduationMarketCap).Mul(hundred)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
