package sudscale

import (
	"fmt"

	"github.com/DurantVivado/reedsolomon"
	"github.com/pkg/errors"
)

// migrationError pins a fatal migration failure to the node and stripe
// that could not be placed.
type migrationError struct {
	mode   Mode
	node   int
	stripe int
	cause  error
}

func (e *migrationError) Error() string {
	if e.stripe < 0 {
		return fmt.Sprintf("%s: no fragment on node %d can move: %s", e.mode, e.node, e.cause)
	}
	return fmt.Sprintf("%s: fragment of stripe %d on node %d cannot move: %s",
		e.mode, e.stripe, e.node, e.cause)
}

func (e *migrationError) Unwrap() error {
	return e.cause
}

//Error definitions

// ErrIndivisible is returned when N*StripeNum cannot be spread evenly over the node count.
var ErrIndivisible = errors.New("N*StripeNum is not divisible by the node count, loads cannot be equal")

var ErrTooFewNodes = errors.New("too few nodes, a stripe needs N distinct nodes")

// ErrInvalidShards is returned unless 1 <= K < N, the code needs data and parity shards.
var ErrInvalidShards = reedsolomon.ErrInvShardNum

// ErrTooManyShards is returned when N exceeds what GF(2^8) codes support.
var ErrTooManyShards = reedsolomon.ErrMaxShardNum

var ErrInvalidStripeNum = errors.New("the stripe number MUST be positive")

var ErrNotInitialized = errors.New("layout not initialized, call Init or Load first")

var ErrInvalidLayout = errors.New("the supplied layout breaks the placement invariants")

var ErrInvalidNode = errors.New("node index out of the active range")

var ErrWrongDirection = errors.New("the target node count does not fit the migration mode")

// ErrMigrationExhausted means no node on any tier can receive a fragment that must move.
var ErrMigrationExhausted = errors.New("no node can receive the fragment on any tier")
