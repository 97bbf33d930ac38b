// File: cmd/pairflowd/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// pairflowd pairs supply peers with demand peers and relays bytes between
// them. An optional driver endpoint streams unmet-demand backlog counts to
// external autoscalers.

package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/momentics/pairflow/server"
)

const version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("pairflowd", flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pairflowd [options]\n\nOptions:\n%s", flags.FlagUsages())
	}

	supplyPort := flags.Uint16P("supply-port", "s", 0, "listening port for supply peers")
	demandPort := flags.Uint16P("demand-port", "d", 0, "listening port for demand peers")
	driverPort := flags.Uint16P("driver-port", "D", 0, "listening port for drivers (0 = disabled)")
	idleTimeout := flags.Uint32P("idle-timeout", "t", 0, "seconds before idle connections are dropped (0 = disabled)")
	driverPeriod := flags.Uint32P("driver-period", "p", 0, "seconds between periodic driver updates (0 = disabled)")
	verbose := flags.BoolP("verbose", "v", false, "log forwarded chunks and timeouts")
	configPath := flags.StringP("config", "c", "", "TOML configuration file")
	showVersion := flags.Bool("version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Printf("pairflowd version %s\n", version)
		return 0
	}

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = loaded
	}

	// Flags override the config file.
	if flags.Changed("supply-port") {
		cfg.SupplyPort = *supplyPort
	}
	if flags.Changed("demand-port") {
		cfg.DemandPort = *demandPort
	}
	if flags.Changed("driver-port") {
		cfg.DriverPort = *driverPort
	}
	if flags.Changed("idle-timeout") {
		cfg.IdleTimeout = *idleTimeout
	}
	if flags.Changed("driver-period") {
		cfg.DriverPeriod = *driverPeriod
	}
	if *verbose {
		cfg.Verbose = true
	}

	srv, err := server.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := srv.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
