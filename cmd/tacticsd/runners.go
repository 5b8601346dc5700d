package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/matchforge/tactics-engine/internal/tactics/adapters"
	"github.com/matchforge/tactics-engine/internal/tactics/artifact"
	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
	"github.com/matchforge/tactics-engine/internal/tactics/inference"
	"github.com/matchforge/tactics-engine/internal/tactics/jobs"
	"github.com/matchforge/tactics-engine/internal/tactics/phase"
	"github.com/matchforge/tactics-engine/internal/tactics/physical"
	"github.com/matchforge/tactics-engine/internal/tactics/possession"
	"github.com/matchforge/tactics-engine/internal/tactics/report"
	"github.com/matchforge/tactics-engine/internal/tactics/tacticalevents"
	"github.com/matchforge/tactics-engine/internal/tactics/trajectory"
	"github.com/matchforge/tactics-engine/internal/tacticserr"
)

// payloadBox is a package-level side channel between the HTTP layer and the
// Runner functions: jobs.Runner only carries a *jobs.Job (no payload field),
// so the raw JSON body accepted at enqueue time is stashed here keyed by
// job id and read back at run time, then discarded.
type payloadBox struct {
	mu   sync.Mutex
	byID map[string]json.RawMessage
}

func newPayloadBox() *payloadBox {
	return &payloadBox{byID: make(map[string]json.RawMessage)}
}

func (b *payloadBox) put(jobID string, payload json.RawMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byID[jobID] = payload
}

func (b *payloadBox) take(jobID string) (json.RawMessage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.byID[jobID]
	delete(b.byID, jobID)
	return p, ok
}

var payloadStore = newPayloadBox()

func decodePayload(jobID string, v interface{}) error {
	raw, ok := payloadStore.take(jobID)
	if !ok {
		return tacticserr.New(tacticserr.BadInput, "no payload recorded for job")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return tacticserr.Wrap(tacticserr.BadInput, err, "decode job payload")
	}
	return nil
}

// runnerFor returns the Runner registered for a job kind, per spec §6's
// job kind catalog.
func runnerFor(kind string) (jobs.Runner, bool) {
	r, ok := runnerTable[kind]
	return r, ok
}

var runnerTable map[string]jobs.Runner

func initRunners(artifacts artifact.Store, bus *artifact.Bus) {
	runnerTable = map[string]jobs.Runner{
		"ingestion":            ingestionRunner(artifacts, bus),
		"video-processing":     videoProcessingRunner(artifacts),
		"calibration":          calibrationRunner(artifacts, bus),
		"metrics":              metricsRunner(artifacts),
		"phase-classification": phaseClassificationRunner(artifacts),
		"pattern-detection":    patternDetectionRunner(artifacts),
		"report":               reportRunner(artifacts),
	}
}

// --- ingestion ---

type feedFrame struct {
	FrameID   int64   `json:"frame_id"`
	ObjectID  string  `json:"object_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Team      string  `json:"team"`
	Kind      string  `json:"object_kind"`
	Timestamp float64 `json:"timestamp"`
}

type ingestionPayload struct {
	MatchID string      `json:"match_id"`
	Source  string      `json:"source"` // "A" or "B"
	Frames  []feedFrame `json:"frames"`
}

func ingestionRunner(artifacts artifact.Store, bus *artifact.Bus) jobs.Runner {
	return func(ctx context.Context, job *jobs.Job) (jobs.Result, error) {
		var payload ingestionPayload
		if err := decodePayload(job.JobID, &payload); err != nil {
			return jobs.Result{}, err
		}
		if payload.Source != "A" && payload.Source != "B" {
			return jobs.Result{}, tacticserr.New(tacticserr.BadInput, "source must be 'A' or 'B'")
		}

		points := make([]trajectory.Point, 0, len(payload.Frames))
		for _, f := range payload.Frames {
			kind := trajectory.ObjectKind(f.Kind)
			if kind == "" {
				kind = trajectory.Player
			}
			switch payload.Source {
			case "A":
				points = append(points, adapters.FromSourceA(adapters.SourceAFrame{
					FrameID: f.FrameID, ObjectID: f.ObjectID, X: f.X, Y: f.Y,
					Team: f.Team, ObjectKind: kind, Timestamp: f.Timestamp,
				}))
			case "B":
				points = append(points, adapters.FromSourceB(adapters.SourceBFrame{
					FrameID: f.FrameID, ObjectID: f.ObjectID, X: f.X, Y: f.Y,
					Team: f.Team, ObjectKind: kind, Timestamp: f.Timestamp,
				}))
			}
		}

		fragments := adapters.BuildFragments(points)
		cfg := trajectory.DefaultStabilizerConfig()
		table, err := artifact.NewTable([]string{
			artifact.ColFrameID, artifact.ColPlayerID, artifact.ColX, artifact.ColY,
			artifact.ColObjectKind, artifact.ColConfidence, artifact.ColTimestamp, artifact.ColTeam,
		})
		if err != nil {
			return jobs.Result{}, err
		}

		playersDetected := 0
		framesProcessed := 0
		for _, frag := range fragments {
			pt := trajectory.Stabilize([]trajectory.Fragment{frag}, cfg)
			if pt == nil {
				continue
			}
			playersDetected++
			for _, p := range pt.Frames() {
				framesProcessed++
				if err := table.AddRow(artifact.Row{
					artifact.ColFrameID:    p.FrameID,
					artifact.ColPlayerID:   p.TrackID,
					artifact.ColX:          p.X,
					artifact.ColY:          p.Y,
					artifact.ColObjectKind: string(p.ObjectKind),
					artifact.ColConfidence: p.Confidence,
					artifact.ColTimestamp:  p.Timestamp,
					artifact.ColTeam:       p.Team,
				}); err != nil {
					return jobs.Result{}, err
				}
			}
		}

		key := artifact.TrackingKey(payload.MatchID, "table")
		if err := artifacts.PutTable(key, table); err != nil {
			return jobs.Result{}, err
		}
		bus.Publish(artifact.TrackingCompleted(payload.MatchID, key, framesProcessed, playersDetected, time.Now()))

		return jobs.Result{
			Content: key,
			Metadata: map[string]string{
				"frames_processed": itoa(framesProcessed),
				"players_detected": itoa(playersDetected),
			},
		}, nil
	}
}

// --- video-processing ---

// videoProcessingPayload mirrors spec §6's contract. Decoding actual video
// bytes is out of scope (non-goal: "storing raw video internally"); this
// runner validates the request and records a pointer to where a real
// transcoder would have written its output.
type videoProcessingPayload struct {
	VideoPath        string            `json:"video_path"`
	OutputPath       string            `json:"output_path"`
	Metadata         map[string]string `json:"metadata"`
	Mode             string            `json:"mode"`
	SyncOffsetSeconds float64          `json:"sync_offset_seconds"`
}

func videoProcessingRunner(artifacts artifact.Store) jobs.Runner {
	return func(ctx context.Context, job *jobs.Job) (jobs.Result, error) {
		var payload videoProcessingPayload
		if err := decodePayload(job.JobID, &payload); err != nil {
			return jobs.Result{}, err
		}
		if payload.VideoPath == "" || payload.OutputPath == "" {
			return jobs.Result{}, tacticserr.New(tacticserr.BadInput, "video_path and output_path are required")
		}
		if payload.Mode != "full_match" && payload.Mode != "highlights" {
			return jobs.Result{}, tacticserr.Newf(tacticserr.BadInput, "unknown mode %q", payload.Mode)
		}
		return jobs.Result{
			Content: payload.OutputPath,
			Metadata: map[string]string{
				"mode":        payload.Mode,
				"source_path": payload.VideoPath,
			},
		}, nil
	}
}

// --- calibration ---

type keypointPayload struct {
	PixelX float64 `json:"pixel_x"`
	PixelY float64 `json:"pixel_y"`
	PitchX float64 `json:"pitch_x"`
	PitchY float64 `json:"pitch_y"`
	Name   string  `json:"name"`
}

type calibrationPayload struct {
	VideoID   string            `json:"video_id"`
	Keypoints []keypointPayload `json:"keypoints"`
}

func calibrationRunner(artifacts artifact.Store, bus *artifact.Bus) jobs.Runner {
	return func(ctx context.Context, job *jobs.Job) (jobs.Result, error) {
		var payload calibrationPayload
		if err := decodePayload(job.JobID, &payload); err != nil {
			return jobs.Result{}, err
		}
		if len(payload.Keypoints) < 4 {
			return jobs.Result{}, tacticserr.Newf(tacticserr.BadInput, "calibration requires >= 4 keypoints, got %d", len(payload.Keypoints))
		}

		pixel := make([]geometry.Point, len(payload.Keypoints))
		pitch := make([]geometry.Point, len(payload.Keypoints))
		for i, kp := range payload.Keypoints {
			pixel[i] = geometry.Point{X: kp.PixelX, Y: kp.PixelY}
			pitch[i] = geometry.Point{X: kp.PitchX, Y: kp.PitchY}
		}

		h, err := geometry.EstimateHomography(pixel, pitch)
		if err != nil {
			return jobs.Result{}, tacticserr.Wrap(tacticserr.BadInput, err, "estimate homography")
		}

		var reprojErr float64
		for i, px := range pixel {
			got := h.TransformPoint(px.X, px.Y)
			dx, dy := got.X-pitch[i].X, got.Y-pitch[i].Y
			reprojErr += dx*dx + dy*dy
		}
		reprojErr /= float64(len(pixel))

		entries := h.Entries()
		blob, err := json.Marshal(entries)
		if err != nil {
			return jobs.Result{}, tacticserr.Wrap(tacticserr.Internal, err, "marshal homography")
		}
		key := "calibration/" + payload.VideoID + ".json"
		if err := artifacts.PutObject(key, blob, "application/json"); err != nil {
			return jobs.Result{}, err
		}
		bus.Publish(artifact.CalibrationCompleted(payload.VideoID, len(payload.Keypoints), reprojErr, time.Now()))

		return jobs.Result{
			Content:         key,
			DurationSeconds: 0,
			Metadata:        map[string]string{"reprojection_error": ftoa(reprojErr)},
		}, nil
	}
}

// --- metrics ---

type trackingPointPayload struct {
	FrameID    int64   `json:"frame_id"`
	TrackID    string  `json:"track_id"`
	ObjectType string  `json:"object_type"` // "ball" or a team name, for event inference
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FPS        float64 `json:"fps"`
}

type matchEventPayload struct {
	EventID   string  `json:"event_id"`
	Type      string  `json:"type"`
	TeamID    string  `json:"team_id"`
	PlayerID  string  `json:"player_id"`
	Timestamp float64 `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type metricsPayload struct {
	MatchID      string                 `json:"match_id"`
	TrackingData []trackingPointPayload `json:"tracking_data"`
	EventData    []matchEventPayload    `json:"event_data"`
}

func metricsRunner(artifacts artifact.Store) jobs.Runner {
	return func(ctx context.Context, job *jobs.Job) (jobs.Result, error) {
		var payload metricsPayload
		if err := decodePayload(job.JobID, &payload); err != nil {
			return jobs.Result{}, err
		}

		byTrack := make(map[string]*trajectory.PlayerTrajectory)
		for _, p := range payload.TrackingData {
			fps := p.FPS
			if fps <= 0 {
				fps = 25.0
			}
			pt, ok := byTrack[p.TrackID]
			if !ok {
				pt = trajectory.NewPlayerTrajectory(p.TrackID, fps, 25.0)
				byTrack[p.TrackID] = pt
			}
			pt.Append(trajectory.Point{FrameID: p.FrameID, TrackID: p.TrackID, X: p.X, Y: p.Y})
		}

		summaries := make(map[string]physical.Summary, len(byTrack))
		var totalDistanceM float64
		var maxSpeed float64
		sprintCount := 0
		for trackID, pt := range byTrack {
			s := physical.Compute(pt)
			summaries[trackID] = s
			totalDistanceM += s.TotalDistanceM
			sprintCount += s.SprintCount
			if s.MaxSpeedMps > maxSpeed {
				maxSpeed = s.MaxSpeedMps
			}
		}

		events := make([]tacticalevents.MatchEvent, 0, len(payload.EventData))
		for _, e := range payload.EventData {
			events = append(events, tacticalevents.MatchEvent{
				EventID: e.EventID, Type: tacticalevents.EventType(e.Type), TeamID: e.TeamID,
				PlayerID: e.PlayerID, Timestamp: e.Timestamp, X: e.X, Y: e.Y,
			})
		}
		// When the caller sent raw tracking data but no explicit event log,
		// derive pressure/pass events via the semantic-event detector rather
		// than leaving pressing metrics empty.
		if len(events) == 0 && len(payload.TrackingData) > 0 {
			events = append(events, inferredEventsFromTracking(payload.TrackingData, payload.MatchID)...)
		}

		svc := tacticalevents.NewService()
		metrics := map[string]interface{}{
			"players_tracked":  len(byTrack),
			"total_distance_m": totalDistanceM,
			"max_speed_mps":    maxSpeed,
			"sprint_count":     sprintCount,
			"per_track":        summaries,
		}
		if len(events) > 0 {
			teams := make(map[string]bool)
			for _, e := range events {
				teams[e.TeamID] = true
			}
			pressure := make(map[string]tacticalevents.PressureMetrics, len(teams))
			for team := range teams {
				pressure[team] = svc.CalculatePressureMetrics(events, team)
			}
			metrics["pressure_by_team"] = pressure
		}

		blob, err := json.Marshal(metrics)
		if err != nil {
			return jobs.Result{}, tacticserr.Wrap(tacticserr.Internal, err, "marshal metrics")
		}
		key := "metrics/" + payload.MatchID + ".json"
		if err := artifacts.PutObject(key, blob, "application/json"); err != nil {
			return jobs.Result{}, err
		}

		return jobs.Result{Content: key}, nil
	}
}

// --- phase-classification ---

type phasePositionPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type phaseFramePayload struct {
	FrameID int64                  `json:"frame_id"`
	Home    []phasePositionPayload `json:"home"`
	Away    []phasePositionPayload `json:"away"`
	BallX   float64                `json:"ball_x"`
	BallY   float64                `json:"ball_y"`
	BallVX  float64                `json:"ball_vx"`
	BallVY  float64                `json:"ball_vy"`
}

type phaseClassificationPayload struct {
	MatchID string              `json:"match_id"`
	TeamID  string              `json:"team_id"`
	FPS     float64             `json:"fps"`
	Frames  []phaseFramePayload `json:"frames"`
}

func phaseClassificationRunner(artifacts artifact.Store) jobs.Runner {
	return func(ctx context.Context, job *jobs.Job) (jobs.Result, error) {
		var payload phaseClassificationPayload
		if err := decodePayload(job.JobID, &payload); err != nil {
			return jobs.Result{}, err
		}
		if payload.TeamID != "home" && payload.TeamID != "away" {
			return jobs.Result{}, tacticserr.Newf(tacticserr.BadInput, "team_id must be 'home' or 'away', got %q", payload.TeamID)
		}
		fps := payload.FPS
		if fps <= 0 {
			fps = 25.0
		}

		classifier := phase.NewRuleClassifier()
		seq := phase.NewSequence(payload.MatchID, payload.TeamID, fps)
		for _, frame := range payload.Frames {
			home := toPhasePositions(frame.Home)
			away := toPhasePositions(frame.Away)
			features := phase.FromTrackingFrame(home, away, frame.BallX, frame.BallY, frame.BallVX, frame.BallVY)
			seq.AddFramePhase(frame.FrameID, classifier, features)
		}

		pct := seq.Percentages()
		out := make(map[string]float64, len(pct))
		for k, v := range pct {
			out[string(k)] = v
		}
		blob, err := json.Marshal(map[string]interface{}{
			"dominant_phase":   string(seq.DominantPhase()),
			"percentages":      out,
			"transition_count": seq.TransitionCount(),
		})
		if err != nil {
			return jobs.Result{}, tacticserr.Wrap(tacticserr.Internal, err, "marshal phase result")
		}
		key := "phase/" + payload.MatchID + "-" + payload.TeamID + ".json"
		if err := artifacts.PutObject(key, blob, "application/json"); err != nil {
			return jobs.Result{}, err
		}
		return jobs.Result{Content: key}, nil
	}
}

// inferredEventsFromTracking runs the semantic-event detector over raw
// tracking points and maps its pressure/pass events onto the tactical-events
// vocabulary, so PPDA and pressing metrics have something to work with even
// when the caller only supplied positions.
func inferredEventsFromTracking(points []trackingPointPayload, matchID string) []tacticalevents.MatchEvent {
	trackPoints := make([]inference.TrackPoint, 0, len(points))
	for _, p := range points {
		objType := p.ObjectType
		if objType == "" {
			objType = "home"
		}
		trackPoints = append(trackPoints, inference.TrackPoint{
			FrameID: p.FrameID, ObjectID: p.TrackID, ObjectType: objType, X: p.X, Y: p.Y,
		})
	}

	detector := inference.NewDetector(inference.DefaultConfig())
	inferred := detector.Detect(trackPoints, matchID, inference.NoOpResolver{})

	events := make([]tacticalevents.MatchEvent, 0, len(inferred))
	for i, e := range inferred {
		var evType tacticalevents.EventType
		switch e.Type {
		case inference.PassComplete:
			evType = tacticalevents.EventPass
		case inference.Pressure:
			evType = tacticalevents.EventPressure
		default:
			continue
		}
		var playerID string
		if len(e.Actors) > 0 {
			playerID = e.Actors[0]
		}
		events = append(events, tacticalevents.MatchEvent{
			EventID: fmt.Sprintf("inferred-%d", i), Type: evType, TeamID: e.TeamID,
			PlayerID: playerID, X: e.X, Y: e.Y,
		})
	}
	return events
}

func toPhasePositions(in []phasePositionPayload) []phase.Position {
	out := make([]phase.Position, len(in))
	for i, p := range in {
		out[i] = phase.Position{X: p.X, Y: p.Y}
	}
	return out
}

// --- pattern-detection ---

type possessionEventPayload struct {
	TeamID  string `json:"team_id"`
	Type    string `json:"type"`
	FrameID int64  `json:"frame_id"`
}

type patternDetectionPayload struct {
	MatchID   string                   `json:"match_id"`
	TeamID    string                   `json:"team_id"`
	NClusters int                      `json:"n_clusters"`
	FPS       float64                  `json:"fps"`
	Events    []possessionEventPayload `json:"events"`
}

func patternDetectionRunner(artifacts artifact.Store) jobs.Runner {
	return func(ctx context.Context, job *jobs.Job) (jobs.Result, error) {
		var payload patternDetectionPayload
		if err := decodePayload(job.JobID, &payload); err != nil {
			return jobs.Result{}, err
		}
		if payload.NClusters < 2 || payload.NClusters > 16 {
			return jobs.Result{}, tacticserr.Newf(tacticserr.BadInput, "n_clusters must be in [2,16], got %d", payload.NClusters)
		}
		fps := payload.FPS
		if fps <= 0 {
			fps = 25.0
		}

		events := make([]possession.Event, 0, len(payload.Events))
		for _, e := range payload.Events {
			events = append(events, possession.Event{TeamID: e.TeamID, Type: e.Type, FrameID: e.FrameID})
		}

		detector := possession.NewDefaultDensityClusterer()
		outcomeOf := func(s possession.Sequence) (bool, bool, float64) {
			return false, false, 0
		}
		result := possession.Detect(detector, events, payload.MatchID, payload.TeamID, fps, outcomeOf, time.Now())

		summaries := make([]possession.Summary, 0, len(result.Patterns))
		for _, p := range result.Patterns {
			summaries = append(summaries, p.ToSummary())
		}
		blob, err := json.Marshal(map[string]interface{}{
			"pattern_count":  result.PatternCount,
			"sequence_count": result.SequenceCount,
			"patterns":       summaries,
		})
		if err != nil {
			return jobs.Result{}, tacticserr.Wrap(tacticserr.Internal, err, "marshal pattern result")
		}
		key := "patterns/" + payload.MatchID + "-" + payload.TeamID + ".json"
		if err := artifacts.PutObject(key, blob, "application/json"); err != nil {
			return jobs.Result{}, err
		}
		return jobs.Result{Content: key}, nil
	}
}

// --- report ---

type reportPayload struct {
	MatchID          string `json:"match_id"`
	TeamID           string `json:"team_id"`
	Format           string `json:"format"`
	IncludeAIAnalysis bool  `json:"include_ai_analysis"`
	IncludeCharts    bool   `json:"include_charts"`
	Title            string `json:"title"`
}

func reportRunner(artifacts artifact.Store) jobs.Runner {
	composer := report.NewComposer(time.Now)
	return func(ctx context.Context, job *jobs.Job) (jobs.Result, error) {
		var payload reportPayload
		if err := decodePayload(job.JobID, &payload); err != nil {
			return jobs.Result{}, err
		}
		if payload.Format != "pdf" && payload.Format != "json" {
			return jobs.Result{}, tacticserr.Newf(tacticserr.BadInput, "format must be 'pdf' or 'json', got %q", payload.Format)
		}

		r := composer.Compose(payload.MatchID, payload.TeamID, report.ComposeOptions{
			Title:         payload.Title,
			IncludeCharts: payload.IncludeCharts,
			IncludeAI:     payload.IncludeAIAnalysis,
		})

		blob, err := r.ToJSON()
		if err != nil {
			return jobs.Result{}, err
		}
		key := artifact.ReportsKey(payload.MatchID, "json")
		if err := artifacts.PutObject(key, blob, "application/json"); err != nil {
			return jobs.Result{}, err
		}

		return jobs.Result{
			Content:  key,
			Metadata: map[string]string{"report_id": r.ReportID, "sections": itoa(r.SectionCount())},
		}, nil
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
