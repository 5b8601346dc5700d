package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchforge/tactics-engine/internal/tactics/artifact"
	"github.com/matchforge/tactics-engine/internal/tactics/jobs"
)

func TestPayloadBoxPutTakeIsOneShot(t *testing.T) {
	box := newPayloadBox()
	box.put("job1", json.RawMessage(`{"a":1}`))

	raw, ok := box.take("job1")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(raw))

	_, ok = box.take("job1")
	assert.False(t, ok, "expected second take to report absent after the payload was consumed")
}

func TestDecodePayloadMissingIsBadInput(t *testing.T) {
	var dst struct{ A int }
	err := decodePayload("no-such-job", &dst)
	assert.Error(t, err)
}

func TestIngestionRunnerBuildsTrackingTable(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	bus := artifact.NewBus()
	runner := ingestionRunner(artifacts, bus)

	payload := ingestionPayload{
		MatchID: "m1",
		Source:  "A",
		Frames: []feedFrame{
			{FrameID: 1, ObjectID: "p1", X: 10, Y: 20, Team: "home", Kind: "player", Timestamp: 0.04},
			{FrameID: 2, ObjectID: "p1", X: 10.5, Y: 20.2, Team: "home", Kind: "player", Timestamp: 0.08},
		},
	}
	job := &jobs.Job{JobID: "job-ingest-1", Kind: "ingestion", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, payload))

	result, err := runner(context.Background(), job)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Content)
	assert.NotEmpty(t, result.Metadata["frames_processed"])

	stored, err := artifacts.GetTable(result.Content)
	require.NoError(t, err)
	wantColumns := []string{
		artifact.ColFrameID, artifact.ColPlayerID, artifact.ColX, artifact.ColY,
		artifact.ColObjectKind, artifact.ColConfidence, artifact.ColTimestamp, artifact.ColTeam,
	}
	if diff := cmp.Diff(wantColumns, stored.Columns); diff != "" {
		t.Errorf("stored table columns mismatch (-want +got):\n%s", diff)
	}
}

func TestIngestionRunnerRejectsUnknownSource(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	bus := artifact.NewBus()
	runner := ingestionRunner(artifacts, bus)

	job := &jobs.Job{JobID: "job-ingest-2", Kind: "ingestion", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, ingestionPayload{MatchID: "m1", Source: "C"}))

	_, err := runner(context.Background(), job)
	assert.Error(t, err)
}

func TestCalibrationRunnerRequiresFourKeypoints(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	bus := artifact.NewBus()
	runner := calibrationRunner(artifacts, bus)

	job := &jobs.Job{JobID: "job-cal-1", Kind: "calibration", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, calibrationPayload{
		VideoID: "v1",
		Keypoints: []keypointPayload{
			{PixelX: 0, PixelY: 0, PitchX: 0, PitchY: 0},
			{PixelX: 100, PixelY: 0, PitchX: 10, PitchY: 0},
		},
	}))

	_, err := runner(context.Background(), job)
	assert.Error(t, err)
}

func TestCalibrationRunnerEstimatesHomography(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	bus := artifact.NewBus()
	runner := calibrationRunner(artifacts, bus)

	job := &jobs.Job{JobID: "job-cal-2", Kind: "calibration", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, calibrationPayload{
		VideoID: "v1",
		Keypoints: []keypointPayload{
			{PixelX: 0, PixelY: 0, PitchX: 0, PitchY: 0},
			{PixelX: 100, PixelY: 0, PitchX: 10, PitchY: 0},
			{PixelX: 100, PixelY: 100, PitchX: 10, PitchY: 10},
			{PixelX: 0, PixelY: 100, PitchX: 0, PitchY: 10},
		},
	}))

	result, err := runner(context.Background(), job)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Content)
}

func TestMetricsRunnerComputesPerTrackSummaries(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	runner := metricsRunner(artifacts)

	job := &jobs.Job{JobID: "job-metrics-1", Kind: "metrics", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, metricsPayload{
		MatchID: "m1",
		TrackingData: []trackingPointPayload{
			{FrameID: 1, TrackID: "p1", X: 0, Y: 0, FPS: 25},
			{FrameID: 2, TrackID: "p1", X: 1, Y: 0, FPS: 25},
			{FrameID: 3, TrackID: "p1", X: 2, Y: 0, FPS: 25},
		},
	}))

	result, err := runner(context.Background(), job)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Content)
}

func TestPhaseClassificationRunnerRejectsBadTeam(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	runner := phaseClassificationRunner(artifacts)

	job := &jobs.Job{JobID: "job-phase-1", Kind: "phase-classification", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, phaseClassificationPayload{MatchID: "m1", TeamID: "referee"}))

	_, err := runner(context.Background(), job)
	assert.Error(t, err)
}

func TestPatternDetectionRunnerRejectsOutOfRangeClusters(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	runner := patternDetectionRunner(artifacts)

	job := &jobs.Job{JobID: "job-pattern-1", Kind: "pattern-detection", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, patternDetectionPayload{MatchID: "m1", TeamID: "home", NClusters: 1}))

	_, err := runner(context.Background(), job)
	assert.Error(t, err)
}

func TestReportRunnerRejectsUnknownFormat(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	runner := reportRunner(artifacts)

	job := &jobs.Job{JobID: "job-report-1", Kind: "report", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, reportPayload{MatchID: "m1", TeamID: "home", Format: "xml"}))

	_, err := runner(context.Background(), job)
	assert.Error(t, err)
}

func TestReportRunnerComposesJSONReport(t *testing.T) {
	artifacts := artifact.NewMemStore(nil)
	runner := reportRunner(artifacts)

	job := &jobs.Job{JobID: "job-report-2", Kind: "report", MatchID: "m1"}
	payloadStore.put(job.JobID, mustMarshal(t, reportPayload{MatchID: "m1", TeamID: "home", Format: "json", Title: "Match Report"}))

	result, err := runner(context.Background(), job)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Metadata["report_id"])
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
