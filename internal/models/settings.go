package models

// RiskStrategy selects the position-sizing scheme.
type RiskStrategy string

const (
	StrategyFixedPercent   RiskStrategy = "FixedPercent"
	StrategyAntiMartingale RiskStrategy = "AntiMartingale"
)

// FixedPercentSettings holds the flat per-trade risk percent.
type FixedPercentSettings struct {
	Risk float64
}

// AntiMartingaleSettings holds the streak-dependent risk parameters.
// Risk grows from BaseRisk by Increment per consecutive win, capped at MaxRisk.
type AntiMartingaleSettings struct {
	BaseRisk  float64
	Increment float64
	MaxRisk   float64
}

// RiskSettings is the account-level risk configuration snapshot.
type RiskSettings struct {
	AccountBalance float64
	Strategy       RiskStrategy
	FixedPercent   FixedPercentSettings
	AntiMartingale AntiMartingaleSettings
}
