package adapters

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"

	"github.com/matchforge/tactics-engine/internal/tactics/trajectory"
	"github.com/matchforge/tactics-engine/internal/tacticserr"
)

// Detection is a single object detected in one video frame, in pixel space
// before homography conversion.
type Detection struct {
	FrameID    int64
	ObjectID   string
	ObjectKind trajectory.ObjectKind
	PixelX     float64
	PixelY     float64
	Score      float64
}

// DetectorClient is the narrow contract a real object-detector/tracker
// service (YOLO + ByteTrack, or equivalent) must satisfy. This module never
// implements inference itself; DetectorClient exists so the pipeline can be
// wired against a real deployment's gRPC service without depending on its
// generated protobuf package at this layer.
type DetectorClient interface {
	DetectFrame(ctx context.Context, videoID string, frameID int64, frameData []byte) ([]Detection, error)
}

// PhaseClassifierClient is the narrow contract a remote game-phase
// classifier service would satisfy, as an alternative to the in-process
// phase.RuleClassifier.
type PhaseClassifierClient interface {
	ClassifyVector(ctx context.Context, features []float64) (phase string, confidence float64, err error)
}

// GRPCMessage is the minimal shape DialDetector's caller must adapt its
// generated request/response types to, so this package can stay free of any
// specific .proto-generated dependency while still demonstrating real
// client wiring via google.golang.org/grpc and protobuf marshaling.
type GRPCMessage = proto.Message

// DialConfig configures the gRPC channel to an external detector/classifier
// service.
type DialConfig struct {
	Target  string
	Insecure bool
}

// Dial opens a gRPC client connection per cfg. Callers wrap the returned
// *grpc.ClientConn with their generated service client stub and adapt it to
// DetectorClient or PhaseClassifierClient; this function carries only the
// transport-level contract, matching spec's "contracts only" scope for
// external model-serving collaborators.
func Dial(cfg DialConfig) (*grpc.ClientConn, error) {
	if cfg.Target == "" {
		return nil, tacticserr.New(tacticserr.BadInput, "dial target must not be empty")
	}
	var opts []grpc.DialOption
	if cfg.Insecure {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(cfg.Target, opts...)
	if err != nil {
		return nil, tacticserr.Wrap(tacticserr.UpstreamUnavailable, err, "dial detector service")
	}
	return conn, nil
}
