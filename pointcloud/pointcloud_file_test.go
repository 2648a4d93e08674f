package pointcloud

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/octnav/logging"
)

func makeTestCloud(t *testing.T, colored bool) PointCloud {
	t.Helper()
	cloud := New()
	for i, p := range []r3.Vector{
		{X: -1, Y: -2, Z: 5},
		{X: 582, Y: 12, Z: 0},
		{X: 7, Y: 6, Z: 1},
		{X: 0.5, Y: 1.25, Z: -3},
	} {
		var d Data
		if colored {
			d = NewColoredData(color.NRGBA{R: uint8(10 * i), G: 20, B: 30, A: 255})
		}
		test.That(t, cloud.Set(p, d), test.ShouldBeNil)
	}
	return cloud
}

func TestNewFromFile(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("LAS", func(t *testing.T) {
		cloud := makeTestCloud(t, true)
		fn := filepath.Join(t.TempDir(), "cloud.las")
		test.That(t, WriteToLASFile(cloud, fn), test.ShouldBeNil)

		read, err := NewFromFile(fn, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, read.Size(), test.ShouldEqual, cloud.Size())
		test.That(t, read.MetaData().HasColor, test.ShouldBeTrue)
		d, ok := read.At(582, 12, 0)
		test.That(t, ok, test.ShouldBeTrue)
		r, g, b := d.RGB255()
		test.That(t, []uint8{r, g, b}, test.ShouldResemble, []uint8{10, 20, 30})
	})

	t.Run("PCD", func(t *testing.T) {
		cloud := makeTestCloud(t, false)
		fn := filepath.Join(t.TempDir(), "cloud.pcd")
		var buf bytes.Buffer
		test.That(t, ToPCD(cloud, &buf, PCDAscii), test.ShouldBeNil)
		test.That(t, os.WriteFile(fn, buf.Bytes(), 0o600), test.ShouldBeNil)

		read, err := NewFromFile(fn, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, CloudToPoints(read), test.ShouldResemble, CloudToPoints(cloud))
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := NewFromFile("cloud.ply", logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "do not know how to read")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.las"), logger)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestPCD(t *testing.T) {
	t.Run("ascii with color", func(t *testing.T) {
		cloud := makeTestCloud(t, true)
		var buf bytes.Buffer
		test.That(t, ToPCD(cloud, &buf, PCDAscii), test.ShouldBeNil)
		test.That(t, buf.String(), test.ShouldContainSubstring, "FIELDS x y z rgb\n")
		test.That(t, buf.String(), test.ShouldContainSubstring, "DATA ascii\n")

		read, err := ReadPCD(&buf)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, CloudToPoints(read), test.ShouldResemble, CloudToPoints(cloud))
		d, ok := read.At(7, 6, 1)
		test.That(t, ok, test.ShouldBeTrue)
		r, _, _ := d.RGB255()
		test.That(t, r, test.ShouldEqual, uint8(20))
	})

	t.Run("binary", func(t *testing.T) {
		cloud := makeTestCloud(t, false)
		var buf bytes.Buffer
		test.That(t, ToPCD(cloud, &buf, PCDBinary), test.ShouldBeNil)

		read, err := ReadPCD(&buf)
		test.That(t, err, test.ShouldBeNil)
		// every test coordinate is exactly representable as a float32
		test.That(t, CloudToPoints(read), test.ShouldResemble, CloudToPoints(cloud))
	})

	t.Run("compressed is rejected", func(t *testing.T) {
		var buf bytes.Buffer
		test.That(t, ToPCD(makeTestCloud(t, false), &buf, PCDCompressed), test.ShouldNotBeNil)
	})

	for _, tc := range []struct {
		name   string
		header string
		errStr string
	}{
		{"bad version", "VERSION .5\n", "unsupported pcd version"},
		{"out of order", "VERSION .7\nSIZE 4 4 4\n", "supposed to start with FIELDS"},
		{"bad fields", "VERSION .7\nFIELDS x y\n", "unsupported pcd fields"},
		{
			"points mismatch",
			"VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nWIDTH 2\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS 3\n",
			"does not match",
		},
		{
			"points past max int",
			"VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nWIDTH 18446744073709551615\nHEIGHT 1\n" +
				"VIEWPOINT 0 0 0 1 0 0 0\nPOINTS 18446744073709551615\nDATA ascii\n1 2 3\n",
			"too large",
		},
		{
			"huge ascii count with short body",
			"VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nWIDTH 17179869184\nHEIGHT 1\n" +
				"VIEWPOINT 0 0 0 1 0 0 0\nPOINTS 17179869184\nDATA ascii\n1 2 3\n",
			"point 1",
		},
		{
			"huge binary count with short body",
			"VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nWIDTH 17179869184\nHEIGHT 1\n" +
				"VIEWPOINT 0 0 0 1 0 0 0\nPOINTS 17179869184\nDATA binary\n\x00\x00",
			"point 0",
		},
		{
			"truncated body",
			"VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nWIDTH 2\nHEIGHT 1\n" +
				"# a comment line\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS 2\nDATA ascii\n1 2 3\n",
			"point 1",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadPCD(strings.NewReader(tc.header))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errStr)
		})
	}
}
