// Package config defines the run configuration for octnav: which point cloud to index, how deep to
// build the octree, which points to navigate between, and how much work the planner may do.
package config

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/octnav/logging"
	"go.viam.com/octnav/motionplan"
)

// defaults used when a value is not configured.
const (
	DefaultMaxDepth   = 5
	DefaultStartIndex = 15
	DefaultGoalIndex  = -1
)

// Config describes a single planning run.
type Config struct {
	ConfigFilePath string `json:"-"`

	Input    string                     `json:"input"`
	MaxDepth int                        `json:"max_depth,omitempty"`
	Start    PointSelector              `json:"start"`
	Goal     PointSelector              `json:"goal"`
	Planner  *motionplan.PlannerOptions `json:"planner,omitempty"`
	LogLevel string                     `json:"log_level,omitempty"`
}

// Default returns the configuration used when only an input file is given.
func Default(input string) *Config {
	cfg := &Config{Input: input}
	cfg.fillDefaults()
	return cfg
}

func (c *Config) fillDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Start.IsEmpty() {
		c.Start = IndexSelector(DefaultStartIndex)
	}
	if c.Goal.IsEmpty() {
		c.Goal = IndexSelector(DefaultGoalIndex)
	}
	if c.Planner == nil {
		c.Planner = motionplan.NewPlannerOptions()
	}
}

// Ensure fills in defaults for anything left unset and then validates the config.
func (c *Config) Ensure() error {
	c.fillDefaults()
	return c.Validate("")
}

// Validate returns every problem with the config combined into one error.
func (c *Config) Validate(path string) error {
	var err error
	if c.Input == "" {
		err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "input"))
	}
	if c.MaxDepth < 1 {
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)))
	}
	err = multierr.Append(err, c.Start.Validate(joinPath(path, "start")))
	err = multierr.Append(err, c.Goal.Validate(joinPath(path, "goal")))
	if c.Planner != nil {
		err = multierr.Append(err, c.Planner.Validate(joinPath(path, "planner")))
	}
	if c.LogLevel != "" {
		if _, lvlErr := logging.LevelFromString(c.LogLevel); lvlErr != nil {
			err = multierr.Append(err, utils.NewConfigValidationError(path, lvlErr))
		}
	}
	return err
}

// Level returns the configured log level, INFO if none is set.
func (c *Config) Level() logging.Level {
	if c.LogLevel == "" {
		return logging.INFO
	}
	lvl, err := logging.LevelFromString(c.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return lvl
}

// PointSelector picks a query point either by its position in the input cloud or by its coordinates.
// Exactly one of Index and Point must be set.
type PointSelector struct {
	Index *int       `json:"index,omitempty"`
	Point *r3.Vector `json:"point,omitempty"`
}

// IndexSelector selects the point at idx. Negative indices count back from the end of the cloud.
func IndexSelector(idx int) PointSelector {
	return PointSelector{Index: &idx}
}

// PointSelectorAt selects the point with exactly the coordinates of p.
func PointSelectorAt(p r3.Vector) PointSelector {
	return PointSelector{Point: &p}
}

// IsEmpty reports whether nothing has been selected.
func (s PointSelector) IsEmpty() bool {
	return s.Index == nil && s.Point == nil
}

// Validate ensures exactly one selection method is used.
func (s PointSelector) Validate(path string) error {
	if s.IsEmpty() {
		return utils.NewConfigValidationFieldRequiredError(path, "index")
	}
	if s.Index != nil && s.Point != nil {
		return utils.NewConfigValidationError(path, errors.New("only one of index and point may be set"))
	}
	return nil
}

// Resolve returns the selected point out of pts, which must be in cloud order.
func (s PointSelector) Resolve(pts []r3.Vector) (r3.Vector, error) {
	if s.Point != nil {
		return *s.Point, nil
	}
	if s.Index == nil {
		return r3.Vector{}, errors.New("no point selected")
	}
	idx := *s.Index
	if idx < 0 {
		idx += len(pts)
	}
	if idx < 0 || idx >= len(pts) {
		return r3.Vector{}, errors.Errorf("point index %d out of range for cloud with %d points", *s.Index, len(pts))
	}
	return pts[idx], nil
}

func (s PointSelector) String() string {
	switch {
	case s.Point != nil:
		return fmt.Sprintf("point %v", *s.Point)
	case s.Index != nil:
		return fmt.Sprintf("index %d", *s.Index)
	default:
		return "unset"
	}
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
