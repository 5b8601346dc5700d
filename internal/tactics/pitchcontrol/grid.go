// Package pitchcontrol computes the Spearman (2018) time-to-intercept pitch
// control model over a coarse grid, per spec §4.3.
package pitchcontrol

import (
	"math"
	"sync"

	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
)

// Config controls the pitch control grid resolution and player movement
// model, following the teacher's XxxConfig + DefaultXxxConfig() + Validate()
// builder idiom (config.go).
type Config struct {
	GridWidth    int
	GridHeight   int
	ReactionTime float64 // seconds
	MaxSpeed     float64 // m/s
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{GridWidth: 32, GridHeight: 24, ReactionTime: 0.7, MaxSpeed: 5.0}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return newPCErr("grid dimensions must be positive")
	}
	if c.ReactionTime < 0 {
		return newPCErr("reaction time must be >= 0")
	}
	if c.MaxSpeed <= 0 {
		return newPCErr("max speed must be > 0")
	}
	return nil
}

type pcErr string

func (e pcErr) Error() string { return string(e) }

func newPCErr(msg string) error { return pcErr(msg) }

// Player is a snapshot position used as a pitch-control influence source;
// player velocity is not modelled.
type Player struct {
	PlayerID string
	Team     string
	X, Y     float64
}

// Grid holds the normalized home/away control probability for every cell,
// stored row-major (row = y band, column = x band), with
// HomeControl[i] + AwayControl[i] == 1 for every cell.
type Grid struct {
	HomeControl []float64
	AwayControl []float64
	Width       int
	Height      int
	Pitch       geometry.Pitch
}

// At returns the control pair for grid cell (col, row).
func (g Grid) At(col, row int) (home, away float64) {
	idx := row*g.Width + col
	return g.HomeControl[idx], g.AwayControl[idx]
}

// Compute calculates the pitch control grid for one frame, given all
// players (partitioned by team internally) and the ball position (the
// ball position is accepted for API symmetry with spec §4.3's signature
// but does not bias the simplified Spearman model used here, matching the
// original implementation's "simplified" variant).
func Compute(players []Player, ballX, ballY float64, pitch geometry.Pitch, cfg Config) Grid {
	var home, away []Player
	for _, p := range players {
		if p.Team == "home" {
			home = append(home, p)
		} else {
			away = append(away, p)
		}
	}

	homeControl := teamControl(home, pitch, cfg)
	awayControl := teamControl(away, pitch, cfg)

	n := cfg.GridWidth * cfg.GridHeight
	normHome := make([]float64, n)
	normAway := make([]float64, n)
	for i := 0; i < n; i++ {
		total := homeControl[i] + awayControl[i] + 1e-10
		normHome[i] = homeControl[i] / total
		normAway[i] = awayControl[i] / total
	}

	return Grid{
		HomeControl: normHome,
		AwayControl: normAway,
		Width:       cfg.GridWidth,
		Height:      cfg.GridHeight,
		Pitch:       pitch,
	}
}

// teamControl computes one team's influence grid by taking, at each cell,
// the maximum influence across all of the team's players (the nearest,
// fastest-arriving player dominates that cell). Rows are computed in
// parallel since each row is independent, matching the teacher's
// parallel-by-row computation idiom in its tracking pipeline.
func teamControl(players []Player, pitch geometry.Pitch, cfg Config) []float64 {
	n := cfg.GridWidth * cfg.GridHeight
	out := make([]float64, n)
	if len(players) == 0 {
		return out
	}

	var wg sync.WaitGroup
	for row := 0; row < cfg.GridHeight; row++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			y := gridCoord(row, cfg.GridHeight, pitch.Width)
			for col := 0; col < cfg.GridWidth; col++ {
				x := gridCoord(col, cfg.GridWidth, pitch.Length)

				var maxInfluence float64
				for _, p := range players {
					inf := playerInfluence(p, x, y, cfg)
					if inf > maxInfluence {
						maxInfluence = inf
					}
				}
				out[row*cfg.GridWidth+col] = maxInfluence
			}
		}(row)
	}
	wg.Wait()
	return out
}

// gridCoord maps a grid index in [0, span) to a pitch-space coordinate
// spanning [0, extent], linearly (like numpy.linspace). A span of 1
// collapses to the origin.
func gridCoord(index, span int, extent float64) float64 {
	if span <= 1 {
		return 0
	}
	return float64(index) * extent / float64(span-1)
}

// playerInfluence computes one player's time-to-intercept influence at
// (x, y): time = reactionTime + distance/maxSpeed, influence =
// exp(-time/2), per the Spearman 2018 simplified model.
func playerInfluence(p Player, x, y float64, cfg Config) float64 {
	dx := x - p.X
	dy := y - p.Y
	dist := math.Hypot(dx, dy)
	timeToReach := cfg.ReactionTime + dist/cfg.MaxSpeed
	return math.Exp(-timeToReach / 2.0)
}
