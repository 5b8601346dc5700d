package phase

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Features is the 15-dimensional feature vector extracted from one frame
// of tracking data, used as input to phase classification.
type Features struct {
	HomeCentroidX, HomeCentroidY float64
	AwayCentroidX, AwayCentroidY float64
	HomeSpreadX, HomeSpreadY     float64
	AwaySpreadX, AwaySpreadY     float64
	BallX, BallY                 float64
	BallVelocityX, BallVelocityY float64
	HomeDefensiveLine            float64
	AwayDefensiveLine            float64
	HomePossessionProb           float64
}

// NumFeatures is the fixed dimensionality of the feature vector.
const NumFeatures = 15

// ToVector flattens the features into a fixed-order slice, matching
// FeatureNames' ordering, for ML model consumption.
func (f Features) ToVector() []float64 {
	return []float64{
		f.HomeCentroidX, f.HomeCentroidY,
		f.AwayCentroidX, f.AwayCentroidY,
		f.HomeSpreadX, f.HomeSpreadY,
		f.AwaySpreadX, f.AwaySpreadY,
		f.BallX, f.BallY,
		f.BallVelocityX, f.BallVelocityY,
		f.HomeDefensiveLine, f.AwayDefensiveLine,
		f.HomePossessionProb,
	}
}

// FeatureNames returns the feature vector's dimension names in ToVector's
// order, for interpretability and reporting.
func FeatureNames() []string {
	return []string{
		"home_centroid_x", "home_centroid_y",
		"away_centroid_x", "away_centroid_y",
		"home_spread_x", "home_spread_y",
		"away_spread_x", "away_spread_y",
		"ball_x", "ball_y",
		"ball_velocity_x", "ball_velocity_y",
		"home_defensive_line", "away_defensive_line",
		"home_possession_prob",
	}
}

// Position is a minimal (x, y) sample, decoupled from any particular
// tracking entity type so this package can extract features from any
// frame representation that can supply home/away positions.
type Position struct{ X, Y float64 }

// FromTrackingFrame extracts Features from raw per-team positions, ball
// position, and ball velocity.
func FromTrackingFrame(homePositions, awayPositions []Position, ballX, ballY, ballVX, ballVY float64) Features {
	homeX, homeY := splitXY(homePositions, 52.5, 34.0)
	awayX, awayY := splitXY(awayPositions, 52.5, 34.0)

	homeCentroidX, homeCentroidY := meanOf(homeX), meanOf(homeY)
	awayCentroidX, awayCentroidY := meanOf(awayX), meanOf(awayY)

	homeSpreadX, homeSpreadY := stdDevOrZero(homeX), stdDevOrZero(homeY)
	awaySpreadX, awaySpreadY := stdDevOrZero(awayX), stdDevOrZero(awayY)

	homeDefLine := defensiveLine(homeX, false, 15.0)
	awayDefLine := defensiveLine(awayX, true, 90.0)

	homePossessionProb := possessionProbability(homePositions, awayPositions, ballX, ballY)

	return Features{
		HomeCentroidX: homeCentroidX, HomeCentroidY: homeCentroidY,
		AwayCentroidX: awayCentroidX, AwayCentroidY: awayCentroidY,
		HomeSpreadX: homeSpreadX, HomeSpreadY: homeSpreadY,
		AwaySpreadX: awaySpreadX, AwaySpreadY: awaySpreadY,
		BallX: ballX, BallY: ballY,
		BallVelocityX: ballVX, BallVelocityY: ballVY,
		HomeDefensiveLine: homeDefLine, AwayDefensiveLine: awayDefLine,
		HomePossessionProb: homePossessionProb,
	}
}

func splitXY(positions []Position, defaultX, defaultY float64) (xs, ys []float64) {
	if len(positions) == 0 {
		return []float64{defaultX}, []float64{defaultY}
	}
	xs = make([]float64, len(positions))
	ys = make([]float64, len(positions))
	for i, p := range positions {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func stdDevOrZero(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// defensiveLine averages the 4 deepest defenders' x coordinate: the 4
// smallest x for a team defending the low end, the 4 largest x for a team
// defending the high end.
func defensiveLine(xs []float64, reverse bool, fallback float64) float64 {
	if len(xs) == 0 {
		return fallback
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	if reverse {
		sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	} else {
		sort.Float64s(sorted)
	}
	n := 4
	if n > len(sorted) {
		n = len(sorted)
	}
	return meanOf(sorted[:n])
}

// possessionProbability estimates, via a sigmoid over the ball-distance
// gap, the probability that the home team currently holds the ball.
func possessionProbability(homePositions, awayPositions []Position, ballX, ballY float64) float64 {
	homeDist := minDistanceToBall(homePositions, ballX, ballY, 100.0)
	awayDist := minDistanceToBall(awayPositions, ballX, ballY, 100.0)
	distDiff := awayDist - homeDist
	return 1.0 / (1.0 + math.Exp(-distDiff/2.0))
}

func minDistanceToBall(positions []Position, ballX, ballY, fallback float64) float64 {
	if len(positions) == 0 {
		return fallback
	}
	min := math.Inf(1)
	for _, p := range positions {
		d := math.Hypot(p.X-ballX, p.Y-ballY)
		if d < min {
			min = d
		}
	}
	return min
}
