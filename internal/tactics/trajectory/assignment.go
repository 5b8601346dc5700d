package trajectory

import "math"

// hungarianInf stands in for infinity in the cost matrix: entries at or
// above this value are treated as forbidden assignments.
const hungarianInf = 1e18

// OptimalAssign solves the rectangular assignment problem for an n x m cost
// matrix using the Kuhn-Munkres (Hungarian) algorithm with potentials
// (Jonker-Volgenant variant), adapted here for track-fragment merging rather
// than cluster-to-track gating: row i is a candidate fragment end, column j
// a candidate fragment start, and cost[i][j] the gap cost (time gap plus
// extrapolated position gap) between them, per spec §4.1's requirement that
// fragment merging respect a maximum gap and a maximum distance.
//
// Returns assignments[i] = column index assigned to row i, or -1 if row i
// is unassigned. Costs >= hungarianInf are never selected.
func OptimalAssign(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if m == 0 {
		result := make([]int, n)
		for i := range result {
			result[i] = -1
		}
		return result
	}

	dim := n
	if m > dim {
		dim = m
	}

	c := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		c[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < n && j < m {
				c[i][j] = cost[i][j]
			} else {
				c[i][j] = hungarianInf
			}
		}
	}

	const inf = math.MaxFloat64 / 2

	u := make([]float64, dim+1)
	v := make([]float64, dim+1)
	p := make([]int, dim+1)
	way := make([]int, dim+1)
	minv := make([]float64, dim+1)
	used := make([]bool, dim+1)

	for i := 1; i <= dim; i++ {
		p[0] = i
		j0 := 0

		for j := 1; j <= dim; j++ {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1

			for j := 1; j <= dim; j++ {
				if used[j] {
					continue
				}
				cur := c[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			if j1 < 0 {
				break
			}

			for j := 0; j <= dim; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	rowAssign := make([]int, dim)
	for i := range rowAssign {
		rowAssign[i] = -1
	}
	for j := 1; j <= dim; j++ {
		if p[j] > 0 && p[j] <= dim {
			rowAssign[p[j]-1] = j - 1
		}
	}

	result := make([]int, n)
	for i := 0; i < n; i++ {
		col := rowAssign[i]
		if col < 0 || col >= m || cost[i][col] >= hungarianInf {
			result[i] = -1
		} else {
			result[i] = col
		}
	}

	return result
}

// FragmentGapCost computes the merge cost between a candidate fragment end
// (at endFrame, endX, endY) and a candidate fragment start (at startFrame,
// startX, startY), given the maximum allowed frame gap and position gap.
// Returns hungarianInf if either bound is exceeded, per spec §4.1's fragment
// merge gating.
func FragmentGapCost(endFrame, startFrame int64, endX, endY, startX, startY float64, maxGapFrames int64, maxGapMeters float64) float64 {
	gap := startFrame - endFrame
	if gap < 0 || gap > maxGapFrames {
		return hungarianInf
	}
	dx := startX - endX
	dy := startY - endY
	dist := math.Hypot(dx, dy)
	if dist > maxGapMeters {
		return hungarianInf
	}
	return float64(gap) + dist
}
