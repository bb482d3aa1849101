package sudscale

import (
	"io"
	"math/rand"
	"time"

	"github.com/DurantVivado/sudscale/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Mode is the kind of migration a Scale call performs.
type Mode int

const (
	ModeNone Mode = iota
	ModeExpand
	ModeShrink
	ModeRedistribute
)

func (m Mode) String() string {
	switch m {
	case ModeExpand:
		return "expand"
	case ModeShrink:
		return "shrink"
	case ModeRedistribute:
		return "redistribute"
	}
	return "none"
}

// Tier ranks how well a chosen move satisfies the placement constraints.
type Tier int

const (
	tierNone Tier = iota
	// TierOptimal keeps distinctness, capacity and the optimal bound.
	TierOptimal
	// TierPlanB keeps distinctness and capacity but may exceed the bound.
	TierPlanB
	// TierPlanC keeps only distinctness, the target gets over-filled.
	TierPlanC
	// TierRepair is a move of the capacity repair pass.
	TierRepair
)

func (t Tier) String() string {
	switch t {
	case TierOptimal:
		return "optimal"
	case TierPlanB:
		return "planB"
	case TierPlanC:
		return "planC"
	case TierRepair:
		return "repair"
	}
	return "none"
}

// MigrationEvent records that the fragment of Stripe moved from Source to Target.
type MigrationEvent struct {
	Mode   Mode
	Source int
	Stripe int
	Target int
	Tier   Tier
}

// Result summarizes a Scale call.
type Result struct {
	Mode          Mode
	Origin        int
	Target        int
	Optimal       int          // the optimal bound for Target
	Optimum       bool         // every co-location count is within Optimal
	MaxCoLocation int          // the largest co-location count among active nodes
	Moves         int          // fragments moved, repair moves included
	TierMoves     map[Tier]int // moves per tier
	Duration      time.Duration
}

// Scaler computes and migrates the block placement of StripeNum stripes,
// N fragments each, over a changing number of nodes.
//
// A Scaler is not safe for concurrent use.
type Scaler struct {
	N         int                // the number of fragments in a stripe
	K         int                // the number of fragments read to rebuild a lost one
	StripeNum int                // the number of stripes
	Quiet     bool               // mute logs
	Logger    logrus.FieldLogger // defaults to the logrus standard logger
	Metrics   metrics.Collector  // defaults to a no-op collector
	Rand      *rand.Rand         // random source of the initial placement
	OnMigrate func(MigrationEvent)

	layout    *Layout
	optimal   int
	mode      Mode
	tierMoves map[Tier]int
}

// defaultSeed seeds the placement when no Rand is injected, so that runs stay reproducible.
const defaultSeed = 100000007

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (s *Scaler) log() logrus.FieldLogger {
	if s.Quiet {
		return discardLogger
	}
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

func (s *Scaler) collector() metrics.Collector {
	if s.Metrics == nil {
		s.Metrics = metrics.NewNop()
	}
	return s.Metrics
}

func (s *Scaler) random() *rand.Rand {
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewSource(defaultSeed))
	}
	return s.Rand
}

// Layout returns the current placement, nil before Init or Load.
func (s *Scaler) Layout() *Layout {
	return s.layout
}

// Optimal returns the optimal bound of the latest phase.
func (s *Scaler) Optimal() int {
	return s.optimal
}

//emit applies the bookkeeping of one move
func (s *Scaler) emit(ev MigrationEvent) {
	s.tierMoves[ev.Tier]++
	s.collector().ObserveMove(ev.Mode.String(), ev.Tier.String())
	if ev.Tier != TierOptimal {
		s.log().WithFields(logrus.Fields{
			"mode":   ev.Mode,
			"source": ev.Source,
			"stripe": ev.Stripe,
			"target": ev.Target,
			"tier":   ev.Tier,
		}).Debug("fallback placement")
	}
	if s.OnMigrate != nil {
		s.OnMigrate(ev)
	}
}
