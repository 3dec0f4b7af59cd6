// Package config handles tool configuration loading and management.
package config

import (
	"fmt"

	"github.com/voxelforge/vrpaint/internal/engine/stroke"
)

// Config holds all settings for the stroke tools.
type Config struct {
	Brush   BrushConfig   `yaml:"brush"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// BrushConfig holds brush tuning.
type BrushConfig struct {
	Size                 float32 `yaml:"size"`                   // full diameter at pressure 1, meters
	BreakAngleMultiplier float32 `yaml:"break_angle_multiplier"` // > 0, break sensitivity
	TextureEdgeChop      float32 `yaml:"texture_edge_chop"`      // fraction trimmed per atlas-row edge
	UVStyle              string  `yaml:"uv_style"`               // "distance" or "unitized"
	AtlasRows            int     `yaml:"atlas_rows"`
	TileRate             float32 `yaml:"tile_rate"`
}

// ViewerConfig holds window settings for the preview viewer.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ExportConfig holds paths for the offline generator.
type ExportConfig struct {
	Input  string `yaml:"input"`  // knot list file; empty selects the demo stroke
	Output string `yaml:"output"` // OBJ destination
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	stock := stroke.DefaultBrush()
	return &Config{
		Brush: BrushConfig{
			Size:                 stock.Size,
			BreakAngleMultiplier: stock.BreakAngleMultiplier,
			TextureEdgeChop:      stock.TextureEdgeChop,
			UVStyle:              stock.UVStyle.String(),
			AtlasRows:            stock.AtlasRows,
			TileRate:             stock.TileRate,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Export: ExportConfig{
			Output: "stroke.obj",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Brush converts the brush section into a stroke.Brush.
func (c *BrushConfig) Brush() (stroke.Brush, error) {
	style, err := stroke.ParseUVStyle(c.UVStyle)
	if err != nil {
		return stroke.Brush{}, fmt.Errorf("brush config: %w", err)
	}
	if c.Size <= 0 {
		return stroke.Brush{}, fmt.Errorf("brush config: size must be positive, got %v", c.Size)
	}
	if c.BreakAngleMultiplier <= 0 {
		return stroke.Brush{}, fmt.Errorf("brush config: break_angle_multiplier must be positive, got %v", c.BreakAngleMultiplier)
	}
	return stroke.Brush{
		Size:                 c.Size,
		BreakAngleMultiplier: c.BreakAngleMultiplier,
		TextureEdgeChop:      c.TextureEdgeChop,
		UVStyle:              style,
		AtlasRows:            c.AtlasRows,
		TileRate:             c.TileRate,
	}, nil
}
