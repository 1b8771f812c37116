package main

import (
	"fmt"
	"os"
	"runtime/pprof"
)

func startCpuProfiler(filename string) (func() error, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}

	return func() error {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			return fmt.Errorf("could not close profile file: %w", err)
		}
		return nil
	}, nil
}
