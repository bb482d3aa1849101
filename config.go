package sudscale

import (
	"os"

	"github.com/DurantVivado/reedsolomon"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// maxShards is the largest stripe a GF(2^8) code can hold.
const maxShards = 256

// Config describes one scaling run.
type Config struct {
	OriginNodes int   `yaml:"originNodes"` // nodes before scaling
	TargetNodes int   `yaml:"targetNodes"` // nodes after scaling, equal to OriginNodes to redistribute
	StripeNum   int   `yaml:"stripeNum"`
	N           int   `yaml:"n"`    // fragments per stripe
	K           int   `yaml:"k"`    // fragments read to rebuild one
	Seed        int64 `yaml:"seed"` // seed of the initial placement, 0 picks one at random
}

// DefaultConfig shrinks a 12-node cluster of 6000 (3+1)-stripes to 8 nodes.
func DefaultConfig() Config {
	return Config{
		OriginNodes: 12,
		TargetNodes: 8,
		StripeNum:   6000,
		N:           4,
		K:           3,
	}
}

// LoadConfig reads a YAML config file; fields missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Validate rejects configurations whose loads cannot be equal before and after scaling.
func (c Config) Validate() error {
	if c.StripeNum <= 0 {
		return ErrInvalidStripeNum
	}
	if err := checkShards(c.N, c.K); err != nil {
		return err
	}
	if err := checkNodes(c.N, c.StripeNum, c.OriginNodes); err != nil {
		return errors.Wrap(err, "origin")
	}
	if err := checkNodes(c.N, c.StripeNum, c.TargetNodes); err != nil {
		return errors.Wrap(err, "target")
	}
	return nil
}

// NewScaler returns a Scaler carrying the stripe parameters of c.
func (c Config) NewScaler() *Scaler {
	return &Scaler{N: c.N, K: c.K, StripeNum: c.StripeNum}
}

//checkShards makes sure a (K, N-K) code exists
func checkShards(n, k int) error {
	if k <= 0 || n-k <= 0 {
		return errors.Wrapf(ErrInvalidShards, "n:%d, k:%d", n, k)
	}
	if n > maxShards {
		return errors.Wrapf(ErrTooManyShards, "n:%d", n)
	}
	if _, err := reedsolomon.New(k, n-k, reedsolomon.WithCauchyMatrix()); err != nil {
		return errors.Wrapf(err, "n:%d, k:%d", n, k)
	}
	return nil
}

//checkNodes makes sure nodeNum nodes can hold equal loads of distinct fragments
func checkNodes(n, stripeNum, nodeNum int) error {
	if nodeNum < n {
		return errors.Wrapf(ErrTooFewNodes, "%d nodes, n:%d", nodeNum, n)
	}
	if (n*stripeNum)%nodeNum != 0 {
		return errors.Wrapf(ErrIndivisible, "%d fragments on %d nodes", n*stripeNum, nodeNum)
	}
	return nil
}

//checkParams validates the Scaler's own parameters against nodeNum
func (s *Scaler) checkParams(nodeNum int) error {
	if s.StripeNum <= 0 {
		return ErrInvalidStripeNum
	}
	if err := checkShards(s.N, s.K); err != nil {
		return err
	}
	return checkNodes(s.N, s.StripeNum, nodeNum)
}
