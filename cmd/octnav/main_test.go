package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/octnav/config"
	"go.viam.com/octnav/logging"
	"go.viam.com/octnav/motionplan"
	"go.viam.com/octnav/pointcloud"
)

// writeGridCloud writes an 18 point grid cloud and returns its path and points in file order.
func writeGridCloud(t *testing.T, ext string) (string, []r3.Vector) {
	t.Helper()
	cloud := pointcloud.New()
	var pts []r3.Vector
	for z := 0.; z < 2; z++ {
		for y := 0.; y < 3; y++ {
			for x := 0.; x < 3; x++ {
				p := r3.Vector{X: x * 4, Y: y * 4, Z: z * 4}
				test.That(t, cloud.Set(p, nil), test.ShouldBeNil)
				pts = append(pts, p)
			}
		}
	}

	fn := filepath.Join(t.TempDir(), "grid"+ext)
	switch ext {
	case ".pcd":
		var buf bytes.Buffer
		test.That(t, pointcloud.ToPCD(cloud, &buf, pointcloud.PCDAscii), test.ShouldBeNil)
		test.That(t, os.WriteFile(fn, buf.Bytes(), 0o600), test.ShouldBeNil)
	case ".las":
		test.That(t, pointcloud.WriteToLASFile(cloud, fn), test.ShouldBeNil)
	}
	return fn, pts
}

func TestRunPlan(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("defaults", func(t *testing.T) {
		fn, _ := writeGridCloud(t, ".pcd")
		var out bytes.Buffer
		test.That(t, runPlan(context.Background(), config.Default(fn), &out, logger), test.ShouldBeNil)
		test.That(t, out.String(), test.ShouldContainSubstring, "path cost")
		test.That(t, out.String(), test.ShouldContainSubstring, "ascend")
	})

	t.Run("las input with coordinates", func(t *testing.T) {
		fn, pts := writeGridCloud(t, ".las")
		cfg := config.Default(fn)
		cfg.MaxDepth = 3
		cfg.Start = config.PointSelectorAt(pts[0])
		cfg.Goal = config.PointSelectorAt(pts[0])
		var out bytes.Buffer
		test.That(t, runPlan(context.Background(), cfg, &out, logger), test.ShouldBeNil)
		test.That(t, out.String(), test.ShouldContainSubstring, "path cost 0")
	})

	t.Run("missing goal point", func(t *testing.T) {
		fn, _ := writeGridCloud(t, ".pcd")
		cfg := config.Default(fn)
		cfg.Goal = config.PointSelectorAt(r3.Vector{X: 1, Y: 1, Z: 1})
		var out bytes.Buffer
		err := runPlan(context.Background(), cfg, &out, logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, motionplan.IsLookupError(err), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "goal")
		test.That(t, out.Len(), test.ShouldEqual, 0)
	})

	t.Run("index out of range", func(t *testing.T) {
		fn, _ := writeGridCloud(t, ".pcd")
		cfg := config.Default(fn)
		cfg.Start = config.IndexSelector(100)
		err := runPlan(context.Background(), cfg, &bytes.Buffer{}, logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "out of range")
	})

	t.Run("budget exceeded", func(t *testing.T) {
		fn, _ := writeGridCloud(t, ".pcd")
		cfg := config.Default(fn)
		cfg.Planner.MaxIterations = 1
		var out bytes.Buffer
		test.That(t, runPlan(context.Background(), cfg, &out, logger), test.ShouldBeNil)
		test.That(t, out.String(), test.ShouldEqual, "budget exceeded\n")
	})
}

func TestSelectorCountsUniquePoints(t *testing.T) {
	logger := logging.NewTestLogger(t)
	fn := filepath.Join(t.TempDir(), "dupes.pcd")
	contents := "VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nWIDTH 4\nHEIGHT 1\n" +
		"VIEWPOINT 0 0 0 1 0 0 0\nPOINTS 4\nDATA ascii\n0 0 0\n0 0 0\n4 4 4\n0 0 0\n"
	test.That(t, os.WriteFile(fn, []byte(contents), 0o600), test.ShouldBeNil)

	cloud, err := pointcloud.NewFromFile(fn, logger)
	test.That(t, err, test.ShouldBeNil)
	pts := pointcloud.CloudToPoints(cloud)
	test.That(t, pts, test.ShouldResemble, []r3.Vector{{}, {X: 4, Y: 4, Z: 4}})

	p, err := config.IndexSelector(1).Resolve(pts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, r3.Vector{X: 4, Y: 4, Z: 4})

	p, err = config.IndexSelector(-1).Resolve(pts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, r3.Vector{X: 4, Y: 4, Z: 4})

	_, err = config.IndexSelector(2).Resolve(pts)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestArgsToConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("no input", func(t *testing.T) {
		_, err := argsToConfig(Arguments{}, logger)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("flags override config", func(t *testing.T) {
		cfgFile := filepath.Join(t.TempDir(), "octnav.json")
		test.That(t, os.WriteFile(cfgFile, []byte(`{"input": "a.las", "max_depth": 4, "goal": {"index": 2}}`), 0o600), test.ShouldBeNil)

		var start selectorFlag
		test.That(t, start.Set("1.5, 2, -3"), test.ShouldBeNil)
		cfg, err := argsToConfig(Arguments{
			Input:         "b.pcd",
			ConfigFile:    cfgFile,
			MaxDepth:      6,
			Start:         start,
			MaxIterations: 10,
		}, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.Input, test.ShouldEqual, "b.pcd")
		test.That(t, cfg.MaxDepth, test.ShouldEqual, 6)
		test.That(t, *cfg.Start.Point, test.ShouldResemble, r3.Vector{X: 1.5, Y: 2, Z: -3})
		test.That(t, *cfg.Goal.Index, test.ShouldEqual, 2)
		test.That(t, cfg.Planner.MaxIterations, test.ShouldEqual, 10)
	})
}

func TestSelectorFlag(t *testing.T) {
	var f selectorFlag
	test.That(t, f.String(), test.ShouldEqual, "")
	test.That(t, f.Set("7"), test.ShouldBeNil)
	test.That(t, *f.sel.Index, test.ShouldEqual, 7)
	test.That(t, f.Set("-1"), test.ShouldBeNil)
	test.That(t, *f.sel.Index, test.ShouldEqual, -1)
	test.That(t, f.Set("1,2"), test.ShouldNotBeNil)
	test.That(t, f.Set("1,b,3"), test.ShouldNotBeNil)
	test.That(t, f.Set("seven"), test.ShouldNotBeNil)
}

func TestMainWithArgs(t *testing.T) {
	logger := logging.NewTestLogger(t)
	fn, _ := writeGridCloud(t, ".pcd")

	test.That(t, mainWithArgs(context.Background(), []string{"octnav", "-start", "0", "-goal", "17", "-debug", fn}, logger), test.ShouldBeNil)

	err := mainWithArgs(context.Background(), []string{"octnav", "-max-depth", "0", "-max-iterations", "-3", fn}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_iterations")

	err = mainWithArgs(context.Background(), []string{"octnav"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
