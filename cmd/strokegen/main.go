// Package main is the offline stroke generator: it builds a stroke mesh from
// a knot list (or a demo stroke) and exports it as Wavefront OBJ.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/voxelforge/vrpaint/internal/config"
	"github.com/voxelforge/vrpaint/internal/engine/stroke"
	"github.com/voxelforge/vrpaint/internal/logger"
	"github.com/voxelforge/vrpaint/pkg/formats"
	math "github.com/voxelforge/vrpaint/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	brush, err := cfg.Brush.Brush()
	if err != nil {
		logger.Error("invalid brush settings", zap.Error(err))
		os.Exit(1)
	}

	st := stroke.New(brush, stroke.Color{0.9, 0.35, 0.2, 1})
	if cfg.Export.Input != "" {
		if err := appendKnotFile(st, cfg.Export.Input); err != nil {
			logger.Error("failed to read knot list", zap.Error(err))
			os.Exit(1)
		}
	} else {
		appendHelix(st, 120)
	}

	buf := st.Geometry()
	if err := formats.WriteOBJFile(cfg.Export.Output, buf.Positions, buf.Normals, buf.UVs, buf.Indices); err != nil {
		logger.Error("export failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("stroke exported",
		zap.String("path", cfg.Export.Output),
		zap.Int("knots", st.KnotCount()),
		zap.Int("vertices", buf.VertexCount()),
		zap.Int("triangles", buf.TriangleCount()),
	)
}

// appendHelix draws the demo stroke: a gentle helix with breathing pressure.
func appendHelix(st *stroke.Stroke, knots int) {
	const (
		radius = 0.25
		pitch  = 0.12
		step   = 2 * math32.Pi / 48
	)
	for i := 0; i < knots; i++ {
		theta := float32(i) * step
		sin, cos := math32.Sincos(theta)
		pos := math.Vec3{
			X: radius * cos,
			Y: pitch * theta / (2 * math32.Pi),
			Z: radius * sin,
		}
		pressure := 0.6 + 0.3*math32.Sin(float32(i)*0.17)
		st.AppendKnot(pos, pressure, math.QuatIdentity())
	}
}

// appendKnotFile reads "x y z [pressure]" lines, one knot each. Blank lines
// and #-comments are skipped; pressure defaults to 1.
func appendKnotFile(st *stroke.Stroke, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 && len(fields) != 4 {
			return fmt.Errorf("%s:%d: expected 'x y z [pressure]', got %d fields", path, lineNo, len(fields))
		}

		var vals [4]float32
		vals[3] = 1
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			vals[i] = float32(v)
		}

		st.AppendKnot(math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, vals[3], math.QuatIdentity())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if st.KnotCount() == 0 {
		return fmt.Errorf("%s: no knots", path)
	}
	return nil
}
