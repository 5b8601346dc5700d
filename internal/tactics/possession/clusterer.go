package possession

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// SequenceFeatures is the fixed-length numeric feature vector derived from
// a Sequence, used as input to clustering.
type SequenceFeatures struct {
	SequenceID      string
	DurationSeconds float64
	EventCount      int
	XTProgression   float64
	EndedInShot     bool
	EndedInGoal     bool
	Vector          []float64 // [duration, eventCount, xtProgression]
}

// DetectorPort is the clustering capability this package depends on, mirroring
// the teacher's ClustererInterface contract: fit once, then retrieve the
// resulting clusters as patterns. Swappable implementations can range from
// the bundled DensityClusterer to an external ML service.
type DetectorPort interface {
	Fit(sequences []SequenceFeatures, nClusters int)
	Clusters() map[int][]string // cluster label -> sequence ids
}

// DensityClusterer implements DetectorPort using a simple density-based
// (DBSCAN-style) grouping over the normalized feature vectors: two
// sequences join the same cluster when their feature-space distance is
// within Eps, and a cluster requires at least MinPts members, otherwise its
// members are assigned to the noise cluster (-1). This mirrors the
// teacher's DBSCANClusterer adapter shape (fit/cluster-retrieval split,
// deterministic sort of output) over the specific clustering algorithm.
type DensityClusterer struct {
	Eps    float64
	MinPts int

	clusters map[int][]string
}

// NewDensityClusterer constructs a DensityClusterer with the given
// neighborhood radius and minimum cluster size.
func NewDensityClusterer(eps float64, minPts int) *DensityClusterer {
	return &DensityClusterer{Eps: eps, MinPts: minPts}
}

// NewDefaultDensityClusterer returns a DensityClusterer tuned for the
// [duration, eventCount, xtProgression] feature space used here.
func NewDefaultDensityClusterer() *DensityClusterer {
	return NewDensityClusterer(3.0, 2)
}

// Fit runs the density clustering pass. nClusters is accepted for
// interface symmetry with centroid-based detectors but unused here: density
// clustering discovers its own cluster count.
func (c *DensityClusterer) Fit(sequences []SequenceFeatures, nClusters int) {
	n := len(sequences)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -2 // unvisited
	}

	nextLabel := 0
	for i := 0; i < n; i++ {
		if labels[i] != -2 {
			continue
		}
		neighbors := c.regionQuery(sequences, i)
		if len(neighbors) < c.MinPts {
			labels[i] = -1 // noise, may be reclaimed by a later expansion
			continue
		}
		label := nextLabel
		nextLabel++
		labels[i] = label
		c.expandCluster(sequences, labels, neighbors, label)
	}

	clusters := make(map[int][]string)
	for i, l := range labels {
		clusters[l] = append(clusters[l], sequences[i].SequenceID)
	}
	for l := range clusters {
		sort.Strings(clusters[l])
	}
	c.clusters = clusters
}

func (c *DensityClusterer) expandCluster(sequences []SequenceFeatures, labels []int, seeds []int, label int) {
	for i := 0; i < len(seeds); i++ {
		idx := seeds[i]
		if labels[idx] == -1 {
			labels[idx] = label
		}
		if labels[idx] != -2 {
			continue
		}
		labels[idx] = label
		more := c.regionQuery(sequences, idx)
		if len(more) >= c.MinPts {
			seeds = append(seeds, more...)
		}
	}
}

func (c *DensityClusterer) regionQuery(sequences []SequenceFeatures, i int) []int {
	var neighbors []int
	for j := range sequences {
		if j == i {
			continue
		}
		if featureDistance(sequences[i].Vector, sequences[j].Vector) <= c.Eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

func featureDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Clusters returns the cluster-label to sequence-id assignment computed by
// the last Fit call.
func (c *DensityClusterer) Clusters() map[int][]string { return c.clusters }

var _ DetectorPort = (*DensityClusterer)(nil)

// DetectionResult is the outcome of a pattern detection run over one
// match/team.
type DetectionResult struct {
	MatchID       string
	TeamID        string
	PatternCount  int
	SequenceCount int
	Patterns      []*Pattern
}

// Detect orchestrates sequence extraction, clustering, and labeling:
// extracts sequences from events, filters to the requested team, fits the
// clustering port, builds and labels one Pattern per discovered cluster.
// outcomeOf supplies each sequence's shot/goal outcome and xT progression,
// since that requires data (shot locations, xT deltas) outside a bare
// Sequence.
func Detect(detector DetectorPort, events []Event, matchID, teamID string, fps float64, outcomeOf func(Sequence) (endedInShot, endedInGoal bool, xtProgression float64), now time.Time) DetectionResult {
	allSequences := Extract(events, matchID)

	var teamSequences []Sequence
	for _, s := range allSequences {
		if s.TeamID == teamID || teamID == "all" {
			teamSequences = append(teamSequences, s)
		}
	}

	if len(teamSequences) == 0 {
		return DetectionResult{MatchID: matchID, TeamID: teamID}
	}

	featuresBySeq := make(map[string]SequenceFeatures, len(teamSequences))
	features := make([]SequenceFeatures, 0, len(teamSequences))
	seqByID := make(map[string]Sequence, len(teamSequences))
	for _, s := range teamSequences {
		seqByID[s.SequenceID] = s
		endedInShot, endedInGoal, xt := outcomeOf(s)
		duration := durationSeconds(s, fps)
		f := SequenceFeatures{
			SequenceID:      s.SequenceID,
			DurationSeconds: duration,
			EventCount:      len(s.Events),
			XTProgression:   xt,
			EndedInShot:     endedInShot,
			EndedInGoal:     endedInGoal,
			Vector:          []float64{duration, float64(len(s.Events)), xt},
		}
		featuresBySeq[s.SequenceID] = f
		features = append(features, f)
	}

	nClusters := 8
	if len(teamSequences) < nClusters {
		nClusters = maxInt(2, len(teamSequences)/2)
	}
	detector.Fit(features, nClusters)

	labeler := Labeler{}
	var patterns []*Pattern
	for label, seqIDs := range detector.Clusters() {
		if label < 0 {
			continue // noise bucket, not a tactical pattern
		}
		p := NewPattern(patternID(matchID, teamID, label), matchID, teamID, label, now)
		for _, id := range seqIDs {
			f := featuresBySeq[id]
			p.AddSequence(id, f.EndedInShot, f.EndedInGoal, f.DurationSeconds, f.EventCount, f.XTProgression)
		}
		p.Label = labeler.LabelPattern(p)
		p.Description = labeler.DescribePattern(p)
		patterns = append(patterns, p)
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].OccurrenceCount != patterns[j].OccurrenceCount {
			return patterns[i].OccurrenceCount > patterns[j].OccurrenceCount
		}
		return patterns[i].ClusterLabel < patterns[j].ClusterLabel
	})

	return DetectionResult{
		MatchID:       matchID,
		TeamID:        teamID,
		PatternCount:  len(patterns),
		SequenceCount: len(teamSequences),
		Patterns:      patterns,
	}
}

func durationSeconds(s Sequence, fps float64) float64 {
	if fps <= 0 {
		fps = 25.0
	}
	return float64(s.EndFrame-s.StartFrame) / fps
}

func patternID(matchID, teamID string, label int) string {
	return matchID + "-" + teamID + "-" + strconv.Itoa(label)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
