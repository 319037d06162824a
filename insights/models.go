package insights

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketAnalysis is a cached LLM commentary on the state of the market.
type MarketAnalysis struct {
	Analysis    string    `json:"analysis"`
	Stats       Stats     `json:"stats"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Stats are the hard numbers the commentary is grounded on.
type Stats struct {
	TokenCount     int             `json:"tokenCount"`
	GraduatedCount int             `json:"graduatedCount"`
	TradeCount     int             `json:"tradeCount"`
	TotalVolume    decimal.Decimal `json:"totalVolume"`
	TopGainer      string          `json:"topGainer"`
	TopGainerMove  float64         `json:"topGainerMove"`
	TopLoser       string          `json:"topLoser"`
	TopLoserMove   float64         `json:"topLoserMove"`
	LargestCap     string          `json:"largestCap"`
	TopAgent       string          `json:"topAgent"`
}
