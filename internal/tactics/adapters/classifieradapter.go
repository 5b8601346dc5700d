package adapters

import (
	"context"
	"time"

	"github.com/matchforge/tactics-engine/internal/tactics/phase"
	"github.com/matchforge/tactics-engine/internal/telemetry"
)

// RemoteClassifier adapts a PhaseClassifierClient to phase.Classifier, so
// the phase package's consumers can swap between the in-process
// phase.RuleClassifier and a remote model-serving deployment without caring
// which one they hold. On a transport error it falls back to UnknownPhase
// with zero confidence rather than panicking the calling pipeline stage.
type RemoteClassifier struct {
	client  PhaseClassifierClient
	timeout time.Duration
}

var _ phase.Classifier = (*RemoteClassifier)(nil)

// NewRemoteClassifier wraps client with a per-call timeout.
func NewRemoteClassifier(client PhaseClassifierClient, timeout time.Duration) *RemoteClassifier {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &RemoteClassifier{client: client, timeout: timeout}
}

// Classify implements phase.Classifier by delegating to the remote service.
func (r *RemoteClassifier) Classify(f phase.Features) (phase.GamePhase, float64) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	label, confidence, err := r.client.ClassifyVector(ctx, f.ToVector())
	if err != nil {
		telemetry.Opsf("adapters: remote phase classifier call failed: %v", err)
		return phase.UnknownPhase, 0
	}
	return phase.FromString(label), confidence
}
