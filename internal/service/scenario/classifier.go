package scenario

import (
	"fmt"
	"sort"

	"MarketPulse/internal/domain/models"
)

// Config holds the classifier's heuristic weights. The bonus values and
// distance windows are tuning parameters, not fixed laws.
type Config struct {
	VolumeBonus       int     // heat bonus when the volume-spike flag is set
	MomentumBonus     int     // heat bonus for nonzero momentum
	BreakoutWindowPct float64 // plan A: resistance distance in [0, window)
	BreakdownWindow   float64 // plan B: support distance in (-window, 0]
	MomentumTolerance float64 // near-neutral band around zero momentum
	TopN              int     // per-plan list cap
}

// DefaultConfig returns the inherited heuristic defaults.
func DefaultConfig() Config {
	return Config{
		VolumeBonus:       3,
		MomentumBonus:     1,
		BreakoutWindowPct: 3.0,
		BreakdownWindow:   3.0,
		MomentumTolerance: 0.5,
		TopN:              10,
	}
}

// Classifier ranks snapshot tickers into breakout/breakdown candidate lists.
// Pure: it reads the snapshot and the recent pulse counts, owns nothing.
type Classifier struct {
	cfg Config
}

// New creates a Classifier; zero-value config fields fall back to defaults.
func New(cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.VolumeBonus == 0 {
		cfg.VolumeBonus = def.VolumeBonus
	}
	if cfg.MomentumBonus == 0 {
		cfg.MomentumBonus = def.MomentumBonus
	}
	if cfg.BreakoutWindowPct == 0 {
		cfg.BreakoutWindowPct = def.BreakoutWindowPct
	}
	if cfg.BreakdownWindow == 0 {
		cfg.BreakdownWindow = def.BreakdownWindow
	}
	if cfg.MomentumTolerance == 0 {
		cfg.MomentumTolerance = def.MomentumTolerance
	}
	if cfg.TopN == 0 {
		cfg.TopN = def.TopN
	}
	return &Classifier{cfg: cfg}
}

// Classify combines the market snapshot with recent pulse counts. Rows
// missing required numeric fields are skipped, never aborting the batch. A
// ticker may land in both plans when its indicators satisfy both windows.
func (c *Classifier) Classify(snapshot models.MarketSnapshot, pulse map[string]models.PulseCounts) models.ScenarioPlans {
	var plans models.ScenarioPlans

	for _, row := range snapshot.Rows {
		if row.Ticker == "" || row.Price == nil || row.MomentumScore == nil {
			continue
		}
		heat := c.heatScore(row, pulse[row.Ticker])
		momentum := *row.MomentumScore

		if row.ResistanceDistPct != nil {
			dist := *row.ResistanceDistPct
			if dist >= 0 && dist < c.cfg.BreakoutWindowPct && momentum >= -c.cfg.MomentumTolerance {
				plans.PlanA = append(plans.PlanA, models.ScenarioCandidate{
					Ticker:     row.Ticker,
					Price:      *row.Price,
					Trigger:    fmt.Sprintf("%.2f%% below resistance", dist),
					Heat:       heat,
					VolumeFlag: row.VolumeSpike,
					PlanType:   models.PlanBreakout,
				})
			}
		}

		if row.SupportDistPct != nil {
			dist := *row.SupportDistPct
			if dist > -c.cfg.BreakdownWindow && dist <= 0 && momentum <= c.cfg.MomentumTolerance {
				plans.PlanB = append(plans.PlanB, models.ScenarioCandidate{
					Ticker:     row.Ticker,
					Price:      *row.Price,
					Trigger:    fmt.Sprintf("%.2f%% above support", -dist),
					Heat:       heat,
					VolumeFlag: row.VolumeSpike,
					PlanType:   models.PlanBreakdown,
				})
			}
		}
	}

	plans.PlanA = rank(plans.PlanA, c.cfg.TopN)
	plans.PlanB = rank(plans.PlanB, c.cfg.TopN)
	return plans
}

func (c *Classifier) heatScore(row models.SnapshotRow, pc models.PulseCounts) int {
	heat := pc.Bullish
	if pc.Bearish > heat {
		heat = pc.Bearish
	}
	if row.VolumeSpike {
		heat += c.cfg.VolumeBonus
	}
	if *row.MomentumScore != 0 {
		heat += c.cfg.MomentumBonus
	}
	return heat
}

// rank sorts by heat descending (ticker as the deterministic tiebreak) and
// truncates to the per-plan cap.
func rank(list []models.ScenarioCandidate, topN int) []models.ScenarioCandidate {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Heat != list[j].Heat {
			return list[i].Heat > list[j].Heat
		}
		return list[i].Ticker < list[j].Ticker
	})
	if len(list) > topN {
		list = list[:topN]
	}
	return list
}
