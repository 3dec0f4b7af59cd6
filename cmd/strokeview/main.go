// Package main is the entry point for the stroke preview viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/voxelforge/vrpaint/internal/config"
	"github.com/voxelforge/vrpaint/internal/logger"
	"github.com/voxelforge/vrpaint/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Stroke Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	brush, err := cfg.Brush.Brush()
	if err != nil {
		logger.Error("invalid brush settings", zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.NewWithDemo(viewer.Config{
		Title:      "Stroke Viewer",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	}, brush)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
