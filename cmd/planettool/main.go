// planettool inspects and exercises cubesphere planet grids.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/encoding/json"

	"github.com/Faultbox/planetgrid/internal/config"
	"github.com/Faultbox/planetgrid/internal/logger"
)

// stdout receives command results; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, command, args[1:]); err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}

func run(cfg *config.Config, command string, args []string) error {
	switch command {
	case "locate", "loc":
		return cmdLocate(cfg, args)
	case "neighbors", "nb":
		return cmdNeighbors(cfg, args)
	case "bounds":
		return cmdBounds(cfg, args)
	case "simulate", "sim":
		return cmdSimulate(cfg, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `planettool - cubesphere planet grid utility

Usage:
  planettool [global options] <command> [options]

Global options:
  -config <file>        Config file (default ./planetgrid.yaml)
  -radius <m>           Planet radius
  -projection <name>    tangent or everitt
  -min-level <n>        Finest level the LOD manager may split to
  -debug                Debug logging
  -log-file <file>      Also log to a rotating file
  -metrics <addr>       Serve Prometheus metrics while simulating

Commands:
  locate [-lat d -lon d | -dir x,y,z] [-level n]   Find the chunk under a direction
  neighbors [-refine addr,...] <address>           Resolve edge and corner neighbors
  bounds [-min h -max h] <address>                 Bounding sphere and box of a chunk
  simulate [-ticks n -altitude m -speed d]         Fly a camera and run the LOD manager

Addresses are written face/level/x/y, for example +Z/12/128/255. Put -- before
an address on a negative face so it is not read as a flag.

Examples:
  planettool locate -lat 51.5 -lon -0.1 -level 8
  planettool neighbors -refine +Y/18/1/1 +X/19/1/1
  planettool -radius 1737400 bounds -- -Z/10/3/7
  planettool -metrics :9100 simulate -ticks 500 -hold`)
}

// writeJSON prints v as indented JSON.
func writeJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
