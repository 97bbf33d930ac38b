// File: server/config.go
// Package server defines configuration for the pairflow daemon facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon parameters.
type Config struct {
	SupplyPort   uint16        `toml:"supply_port"`   // mandatory listening port for supply peers
	DemandPort   uint16        `toml:"demand_port"`   // mandatory listening port for demand peers
	DriverPort   uint16        `toml:"driver_port"`   // optional driver endpoint, 0 = disabled
	Verbose      bool          `toml:"verbose"`       // log every forwarded chunk and timeout
	IdleTimeout  uint32        `toml:"idle_timeout"`  // seconds of inactivity before reaping, 0 = disabled
	DriverPeriod uint32        `toml:"driver_period"` // seconds between periodic driver updates, 0 = disabled
	WaitTimeout  time.Duration `toml:"-"`             // upper bound of one multiplexer wait
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SupplyPort:  4000,
		DemandPort:  4001,
		WaitTimeout: 250 * time.Millisecond,
	}
}

// LoadConfig reads a TOML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports configuration errors that would prevent startup.
func (c *Config) Validate() error {
	if c.SupplyPort == 0 {
		return fmt.Errorf("supply port must be set")
	}
	if c.DemandPort == 0 {
		return fmt.Errorf("demand port must be set")
	}
	ports := map[uint16]string{c.SupplyPort: "supply"}
	if kind, ok := ports[c.DemandPort]; ok {
		return fmt.Errorf("demand port %d collides with the %s port", c.DemandPort, kind)
	}
	ports[c.DemandPort] = "demand"
	if c.DriverPort != 0 {
		if kind, ok := ports[c.DriverPort]; ok {
			return fmt.Errorf("driver port %d collides with the %s port", c.DriverPort, kind)
		}
	}
	return nil
}
