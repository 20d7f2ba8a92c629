package layout

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Weights scale the terms of the cost function.
type Weights struct {
	// EdgeLength multiplies the length of every edge.
	EdgeLength float64 `json:"edge_length" toml:"edge_length" yaml:"edge_length" validate:"gte=0"`
	// ShortEdge multiplies the shortfall of edges below the minimum length.
	ShortEdge float64 `json:"short_edge" toml:"short_edge" yaml:"short_edge" validate:"gte=0"`
	// ShortEdgeStep is added once for every edge below the minimum length.
	ShortEdgeStep float64 `json:"short_edge_step" toml:"short_edge_step" yaml:"short_edge_step" validate:"gte=0"`
	// AspectRatio multiplies the bounding box aspect deviation.
	AspectRatio float64 `json:"aspect_ratio" toml:"aspect_ratio" yaml:"aspect_ratio" validate:"gte=0"`
	// Overlap multiplies the overlap depth of intersecting nodes.
	Overlap float64 `json:"overlap" toml:"overlap" yaml:"overlap" validate:"gte=0"`
}

// DefaultWeights returns weights that keep edges at their minimum length and
// nodes apart before anything else.
func DefaultWeights() Weights {
	return Weights{
		EdgeLength:    1,
		ShortEdge:     10,
		ShortEdgeStep: 100,
		AspectRatio:   0.5,
		Overlap:       10,
	}
}

// Options configure an [Optimizer].
type Options struct {
	Weights Weights `json:"weights" toml:"weights" yaml:"weights"`

	// MaxIterations bounds the number of proposed moves.
	MaxIterations int `json:"max_iterations" toml:"max_iterations" yaml:"max_iterations" validate:"gte=1"`

	// ConvergenceWindow stops the search after this many iterations without
	// a new best arrangement. Zero disables the check.
	ConvergenceWindow int `json:"convergence_window" toml:"convergence_window" yaml:"convergence_window" validate:"gte=0"`

	// InitialTemperature is the starting temperature relative to the typical
	// node extent. Zero turns the search into pure descent.
	InitialTemperature float64 `json:"initial_temperature" toml:"initial_temperature" yaml:"initial_temperature" validate:"gte=0"`

	SwapProbability         float64 `json:"swap_probability" toml:"swap_probability" yaml:"swap_probability" validate:"gte=0,lte=1"`
	NeighborJumpProbability float64 `json:"neighbor_jump_probability" toml:"neighbor_jump_probability" yaml:"neighbor_jump_probability" validate:"gte=0,lte=1"`

	// Seed makes runs reproducible.
	Seed uint64 `json:"seed" toml:"seed" yaml:"seed"`

	// ProgressInterval is the number of iterations between progress reports.
	ProgressInterval int `json:"progress_interval" toml:"progress_interval" yaml:"progress_interval" validate:"gte=1"`
}

// Default option values.
const (
	DefaultMaxIterations      = 20000
	DefaultConvergenceWindow  = 4000
	DefaultInitialTemperature = 1.0
	DefaultSwapProbability    = 0.1
	DefaultNeighborJump       = 0.3
	DefaultSeed               = 1
	DefaultProgressInterval   = 250
)

// DefaultOptions returns the options used by the editor.
func DefaultOptions() Options {
	return Options{
		Weights:                 DefaultWeights(),
		MaxIterations:           DefaultMaxIterations,
		ConvergenceWindow:       DefaultConvergenceWindow,
		InitialTemperature:      DefaultInitialTemperature,
		SwapProbability:         DefaultSwapProbability,
		NeighborJumpProbability: DefaultNeighborJump,
		Seed:                    DefaultSeed,
		ProgressInterval:        DefaultProgressInterval,
	}
}

// ErrInvalidOptions is returned when [Options] fail validation.
var ErrInvalidOptions = errors.New("invalid layout options")

// Validate checks the options. The returned error wraps [ErrInvalidOptions].
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, describe(err))
	}
	if o.SwapProbability+o.NeighborJumpProbability > 1 {
		return fmt.Errorf("%w: swap and neighbor jump probabilities exceed 1", ErrInvalidOptions)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	switch e.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Namespace(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must not exceed %s", e.Namespace(), e.Param())
	default:
		return fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag())
	}
}
