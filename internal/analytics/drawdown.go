package analytics

import "time"

// Drawdown is the largest percentage retracement from a running equity
// peak, with the timestamps bracketing it.
type Drawdown struct {
	Percent    float64
	PeakTime   time.Time
	TroughTime time.Time
}

// MaxDrawdown scans the curve once, tracking the running peak. Drawdown at
// each point is (peak-current)/peak*100, defined as 0 when the peak is 0.
func MaxDrawdown(curve []EquityPoint) Drawdown {
	var dd Drawdown
	if len(curve) == 0 {
		return dd
	}

	peak := curve[0].Equity
	peakTime := curve[0].Time

	for _, pt := range curve {
		if pt.Equity > peak {
			peak = pt.Equity
			peakTime = pt.Time
			continue
		}
		if peak == 0 {
			continue
		}
		pct := (peak - pt.Equity) / peak * 100
		if pct > dd.Percent {
			dd.Percent = pct
			dd.PeakTime = peakTime
			dd.TroughTime = pt.Time
		}
	}
	return dd
}
