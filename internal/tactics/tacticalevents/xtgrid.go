package tacticalevents

// xtRawGrid holds the precomputed Expected Threat (xT) values on a 12x8
// grid, indexed [zoneX][zoneY] (12 horizontal zones, 8 vertical zones),
// adapted from Karun Singh's xT model. Values represent the probability of
// scoring within the next few actions from that zone.
var xtRawGrid = [12][8]float64{
	{0.00638, 0.00779, 0.00844, 0.00977, 0.01199, 0.01438, 0.01678, 0.02332},
	{0.00750, 0.00878, 0.00982, 0.01155, 0.01465, 0.01846, 0.02284, 0.03366},
	{0.00835, 0.00969, 0.01094, 0.01319, 0.01756, 0.02398, 0.03256, 0.05161},
	{0.00882, 0.01022, 0.01164, 0.01432, 0.01990, 0.02957, 0.04558, 0.08059},
	{0.00878, 0.01026, 0.01183, 0.01480, 0.02116, 0.03305, 0.05593, 0.11640},
	{0.00864, 0.01016, 0.01179, 0.01489, 0.02162, 0.03475, 0.06116, 0.13681},
	{0.00864, 0.01016, 0.01179, 0.01489, 0.02162, 0.03475, 0.06116, 0.13681},
	{0.00878, 0.01026, 0.01183, 0.01480, 0.02116, 0.03305, 0.05593, 0.11640},
	{0.00882, 0.01022, 0.01164, 0.01432, 0.01990, 0.02957, 0.04558, 0.08059},
	{0.00835, 0.00969, 0.01094, 0.01319, 0.01756, 0.02398, 0.03256, 0.05161},
	{0.00750, 0.00878, 0.00982, 0.01155, 0.01465, 0.01846, 0.02284, 0.03366},
	{0.00638, 0.00779, 0.00844, 0.00977, 0.01199, 0.01438, 0.01678, 0.02332},
}

// XTGrid is the Expected Threat grid value object: a fixed 12x8 zone table
// mapping pitch location to scoring probability, per spec §4.4.
type XTGrid struct {
	PitchLength float64
	PitchWidth  float64
}

// DefaultXTGrid returns the xT grid for a standard 105x68m pitch.
func DefaultXTGrid() XTGrid {
	return XTGrid{PitchLength: 105.0, PitchWidth: 68.0}
}

const xtWidth, xtHeight = 12, 8

// Threat returns the xT value for zone (zoneX, zoneY), clamping
// out-of-range indices to the grid edges.
func (g XTGrid) Threat(zoneX, zoneY int) float64 {
	zoneX = clamp(zoneX, 0, xtWidth-1)
	zoneY = clamp(zoneY, 0, xtHeight-1)
	return xtRawGrid[zoneX][zoneY]
}

// PitchToZone converts a pitch coordinate to zone indices.
func (g XTGrid) PitchToZone(x, y float64) (zoneX, zoneY int) {
	zoneX = clamp(int(x/g.PitchLength*xtWidth), 0, xtWidth-1)
	zoneY = clamp(int(y/g.PitchWidth*xtHeight), 0, xtHeight-1)
	return zoneX, zoneY
}

// ThreatAt returns the xT value at a pitch coordinate.
func (g XTGrid) ThreatAt(x, y float64) float64 {
	zx, zy := g.PitchToZone(x, y)
	return g.Threat(zx, zy)
}

// Delta returns the xT gained (positive) or lost (negative) for an action
// moving the ball from (fromX, fromY) to (toX, toY).
func (g XTGrid) Delta(fromX, fromY, toX, toY float64) float64 {
	return g.ThreatAt(toX, toY) - g.ThreatAt(fromX, fromY)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
