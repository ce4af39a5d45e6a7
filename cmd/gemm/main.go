// Package main provides the gemm CLI: capability reporting and a small
// multiplication benchmark over the public API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gemm-go/gemm/gemm"
	"github.com/gemm-go/gemm/matrix"
)

const version = "v0.1.0"

var (
	size       int
	strategy   string
	verbose    bool
	policyFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gemm",
		Short: "tiered dense matrix multiplication",
	}

	capsCmd := &cobra.Command{
		Use:   "caps",
		Short: "print the hardware capability snapshot",
		Run: func(_ *cobra.Command, _ []string) {
			caps := gemm.GetCapabilities()
			fmt.Printf("blas accelerated:  %v\n", caps.BLASAccelerated)
			fmt.Printf("gpu available:     %v\n", caps.GPUAvailable)
			fmt.Printf("cpu threads:       %d\n", caps.CPUThreads)
			fmt.Printf("simd tier:         %d\n", caps.SIMDTier)
			fmt.Printf("est. gflops small: %.1f\n", caps.EstimatedGFLOPSSmall)
			fmt.Printf("est. gflops med:   %.1f\n", caps.EstimatedGFLOPSMedium)
			fmt.Printf("est. gflops large: %.1f\n", caps.EstimatedGFLOPSLarge)
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "multiply two random square matrices and report throughput",
		RunE: func(_ *cobra.Command, _ []string) error {
			strat, err := gemm.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			pol := gemm.DefaultPolicy()
			if policyFile != "" {
				if pol, err = gemm.LoadPolicy(policyFile); err != nil {
					return err
				}
			}

			a := matrix.Randn(size, size, 1)
			b := matrix.Randn(size, size, 2)

			start := time.Now()
			if _, err := gemm.MultiplyPolicy(a, b, strat, verbose, pol); err != nil {
				return err
			}
			elapsed := time.Since(start)

			flops := 2 * float64(size) * float64(size) * float64(size)
			fmt.Printf("%dx%d @ %s: %v (%.2f GFLOPS)\n",
				size, size, strat, elapsed, flops/elapsed.Seconds()/1e9)
			return nil
		},
	}
	benchCmd.Flags().IntVar(&size, "size", 512, "square matrix dimension")
	benchCmd.Flags().StringVar(&strategy, "strategy", "auto", "multiplication strategy")
	benchCmd.Flags().BoolVar(&verbose, "verbose", false, "log the dispatch decision")
	benchCmd.Flags().StringVar(&policyFile, "policy", "", "YAML file overriding auto-selection thresholds")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("gemm %s\n", version)
		},
	}

	rootCmd.AddCommand(capsCmd, benchCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
