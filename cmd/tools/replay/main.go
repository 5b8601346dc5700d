// Command replay drives the tactics engine's pipeline stages over a
// deterministic synthetic scenario and prints the result, without needing a
// running tacticsd daemon. It exists for local development and for
// eyeballing a stage's output against spec §8's scenarios.
//
// Usage:
//
//	go run ./cmd/tools/replay -scenario <name>
//
// Flags:
//
//	-scenario  Which fixture to replay: velocity, sprint, ppda, phase,
//	           possession, xt (default: velocity)
//
// Exit codes: 0 success, 1 generic failure, 2 bad input.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/matchforge/tactics-engine/internal/tactics/physical"
	"github.com/matchforge/tactics-engine/internal/tactics/tacticalevents"
	"github.com/matchforge/tactics-engine/internal/testsupport"
)

const (
	exitOK        = 0
	exitGeneric   = 1
	exitBadInput  = 2
)

func main() {
	scenario := flag.String("scenario", "velocity", "Fixture to replay: velocity, sprint, ppda, phase, possession, xt")
	flag.Parse()

	out, err := runScenario(*scenario)
	if err != nil {
		if _, ok := err.(badInputError); ok {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(exitBadInput)
		}
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(exitGeneric)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "replay: encode output:", err)
		os.Exit(exitGeneric)
	}
	os.Exit(exitOK)
}

type badInputError struct{ msg string }

func (e badInputError) Error() string { return e.msg }

func runScenario(name string) (interface{}, error) {
	switch name {
	case "velocity":
		pt := testsupport.ConstantVelocityTrajectory()
		return physical.Compute(pt), nil
	case "sprint":
		pt := testsupport.SprintTrajectory()
		return physical.Compute(pt), nil
	case "ppda":
		events := testsupport.PPDAScenario()
		svc := tacticalevents.NewService()
		return svc.CalculatePPDA(events, "away", "home"), nil
	case "phase":
		seq := testsupport.PhasePercentageScenario()
		return map[string]interface{}{
			"dominant_phase":   string(seq.DominantPhase()),
			"percentages":      seq.Percentages(),
			"transition_count": seq.TransitionCount(),
		}, nil
	case "possession":
		points := testsupport.PossessionFlowScenario(true)
		return map[string]interface{}{"points": points}, nil
	case "xt":
		forward, reverse := testsupport.XTRoundTripScenario()
		grid := tacticalevents.DefaultXTGrid()
		fwd, _ := tacticalevents.AccumulateXT([]tacticalevents.BallAction{forward}, grid)
		rev, _ := tacticalevents.AccumulateXT([]tacticalevents.BallAction{reverse}, grid)
		return map[string]interface{}{"forward": fwd, "reverse": rev}, nil
	default:
		return nil, badInputError{msg: fmt.Sprintf("unknown scenario %q (want: velocity, sprint, ppda, phase, possession, xt)", name)}
	}
}
