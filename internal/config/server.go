// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds settings for the network hosts (web and SSH). Values come from
// the environment and may be overridden by command line flags.
type Server struct {
	HTTPAddr      string        `env:"CVT_HTTP_ADDR" envDefault:":8080"`
	SSHAddr       string        `env:"CVT_SSH_ADDR" envDefault:":2222"`
	HostKeyPath   string        `env:"CVT_HOST_KEY"`
	FrameInterval time.Duration `env:"CVT_FRAME_INTERVAL" envDefault:"16ms"`
	MaxSessions   int           `env:"CVT_MAX_SESSIONS" envDefault:"64"`
}

// LoadServer reads server settings from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("failed to parse server environment: %w", err)
	}
	if cfg.FrameInterval <= 0 {
		return Server{}, fmt.Errorf("CVT_FRAME_INTERVAL must be positive, got %s", cfg.FrameInterval)
	}
	if cfg.HostKeyPath == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return Server{}, err
		}
		cfg.HostKeyPath = filepath.Join(dir, "ssh_host_ed25519_key")
	}
	return cfg, nil
}
