package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/raylens/internal/raylens"
)

func main() {
	raylens.Debug = os.Getenv("DEBUG") != ""
	raylens.Progress = os.Getenv("QUIET") == ""
	if os.Getenv("PROFILE") != "" {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var (
		rayCount int
		dist     string
		maxIter  int
		seed     int64
	)

	root := &cobra.Command{
		Use:           "raylens",
		Short:         "Sequential ray tracing and lens optimization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	paraxial := &cobra.Command{
		Use:   "paraxial <lens.json>",
		Short: "Print the first-order report (EFL, F-number, NA) of a lens",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return raylens.RunParaxial(args[0])
		},
	}

	trace := &cobra.Command{
		Use:   "trace <lens.json>",
		Short: "Trace ray bundles and print per-field spot statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return raylens.RunTrace(args[0], rayCount, dist)
		},
	}
	trace.Flags().IntVar(&rayCount, "rays", raylens.DefaultRayCount, "rays per bundle")
	trace.Flags().StringVar(&dist, "distribution", "hexapolar", "pupil distribution: grid, hexapolar, random")

	optimize := &cobra.Command{
		Use:   "optimize <lens.json>",
		Short: "Optimize the curved radii to minimize RMS spot size",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return raylens.RunOptimize(args[0], maxIter, seed)
		},
	}
	optimize.Flags().IntVar(&maxIter, "iterations", 100, "generation budget")
	optimize.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")

	root.AddCommand(paraxial, trace, optimize)

	if err := root.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
