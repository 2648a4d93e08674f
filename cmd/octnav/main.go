// Package main reads a point cloud, indexes it with an octree, and searches for a route between two
// of its points.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/octnav/config"
	"go.viam.com/octnav/logging"
	"go.viam.com/octnav/motionplan"
	"go.viam.com/octnav/octree"
	"go.viam.com/octnav/pointcloud"
)

var logger = logging.NewLogger("octnav")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Input         string       `flag:"0,usage=point cloud file (.las or .pcd)"`
	ConfigFile    string       `flag:"config,usage=json config file"`
	MaxDepth      int          `flag:"max-depth,usage=maximum octree depth"`
	Start         selectorFlag `flag:"start,usage=start point as an index into the unique cloud points or comma separated coordinates"`
	Goal          selectorFlag `flag:"goal,usage=goal point as an index into the unique cloud points or comma separated coordinates"`
	MaxIterations int          `flag:"max-iterations,usage=maximum nodes to expand"`
	Debug         bool         `flag:"debug,usage=enable debug logging"`
}

// selectorFlag is a query point given either as an index into the cloud or as x,y,z coordinates.
// Indices count unique positions in file order; repeated positions in the file are not counted again.
type selectorFlag struct {
	sel config.PointSelector
}

func (f *selectorFlag) Set(val string) error {
	parts := strings.Split(val, ",")
	if len(parts) == 1 {
		idx, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return errors.Wrapf(err, "invalid point index %q", val)
		}
		f.sel = config.IndexSelector(idx)
		return nil
	}
	if len(parts) != 3 {
		return errors.Errorf("expected x,y,z but got %q", val)
	}
	var coords [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return errors.Wrapf(err, "invalid coordinate %q", part)
		}
		coords[i] = v
	}
	f.sel = config.PointSelectorAt(r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]})
	return nil
}

func (f *selectorFlag) String() string {
	if f.sel.IsEmpty() {
		return ""
	}
	return f.sel.String()
}

func (f *selectorFlag) Get() interface{} {
	return f.sel
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg, err := argsToConfig(argsParsed, logger)
	if err != nil {
		return err
	}
	if argsParsed.Debug {
		logger.SetLevel(logging.DEBUG)
	} else {
		logger.SetLevel(cfg.Level())
	}

	return runPlan(ctx, cfg, os.Stdout, logger)
}

// argsToConfig reads the config file if one is given and then applies command line overrides.
func argsToConfig(args Arguments, logger logging.Logger) (*config.Config, error) {
	var cfg *config.Config
	if args.ConfigFile != "" {
		var err error
		if cfg, err = config.Read(args.ConfigFile, logger); err != nil {
			return nil, err
		}
		if args.Input != "" {
			cfg.Input = args.Input
		}
	} else {
		if args.Input == "" {
			return nil, errors.New("need a point cloud file or a -config")
		}
		cfg = config.Default(args.Input)
	}

	if args.MaxDepth != 0 {
		cfg.MaxDepth = args.MaxDepth
	}
	if !args.Start.sel.IsEmpty() {
		cfg.Start = args.Start.sel
	}
	if !args.Goal.sel.IsEmpty() {
		cfg.Goal = args.Goal.sel
	}
	if args.MaxIterations != 0 {
		cfg.Planner.MaxIterations = args.MaxIterations
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runPlan loads the cloud, builds the octree, resolves both query points, and writes the outcome of
// the search to out.
func runPlan(ctx context.Context, cfg *config.Config, out io.Writer, logger logging.Logger) error {
	logger.Infof("reading point cloud from %s", cfg.Input)
	cloud, err := pointcloud.NewFromFile(cfg.Input, logger.Sublogger("pointcloud"))
	if err != nil {
		return err
	}

	tree, err := octree.FromPointCloud(ctx, cloud, cfg.MaxDepth, logger.Sublogger("octree"))
	if err != nil {
		return err
	}
	stats := tree.Stats()
	logger.Infow("built octree", "points", tree.Size(), "nodes", stats.Nodes, "max_depth", cfg.MaxDepth)
	logger.Debugw("octree occupancy", "occupied_nodes", stats.OccupiedNodes, "deepest_level", stats.DeepestLevel,
		"mean", stats.MeanOccupancy, "stddev", stats.StdDevOccupancy, "max", stats.MaxOccupancy)

	pts := pointcloud.CloudToPoints(cloud)
	start, err := resolveState(tree, pts, cfg.Start)
	if err != nil {
		return errors.Wrap(err, "cannot resolve start")
	}
	goal, err := resolveState(tree, pts, cfg.Goal)
	if err != nil {
		return errors.Wrap(err, "cannot resolve goal")
	}

	problem, err := motionplan.NewProblem(start, goal, cfg.Planner, logger.Sublogger("motionplan"))
	if err != nil {
		return err
	}
	res, err := problem.Search(ctx)
	if err != nil {
		return err
	}
	logger.Infow("search finished", "outcome", res.Outcome.String(), "nodes_visited", problem.NodesVisited())

	if res.Outcome != motionplan.OutcomeFound {
		_, err = fmt.Fprintln(out, res.Outcome.String())
		return err
	}
	_, err = fmt.Fprintf(out, "path cost %d\n%s\n", res.Path.TotalCost, res.Path.String())
	return err
}

func resolveState(tree *octree.Octree, pts []r3.Vector, sel config.PointSelector) (*motionplan.State, error) {
	p, err := sel.Resolve(pts)
	if err != nil {
		return nil, err
	}
	return motionplan.NewState(tree, p)
}
