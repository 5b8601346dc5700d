package jobs

// RunParams records what a job was asked to do, independent of its outcome —
// richer than a bare kind string, and displayable while the job is still
// running.
type RunParams struct {
	SourcePath string
	FPS        float64
	Extra      map[string]string
}

// AnalysisStats records what a completed job actually did: duration, counts
// of frames/sequences/patterns touched, and wall-clock processing time.
// Job and Result carry no AnalysisStats field, and the report composer's
// Key Metrics section is built from report.KeyMetrics, not from this type.
type AnalysisStats struct {
	DurationSecs     float64
	TotalFrames      int
	TotalSequences   int
	TotalPatterns    int
	ProcessingTimeMs int64
}
