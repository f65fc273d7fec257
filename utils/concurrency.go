package utils

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Routines resolves a requested worker count. Zero or negative values are relative to the CPU count.
func Routines(routines int) int {
	if routines <= 0 {
		return max(runtime.NumCPU()+routines, 1)
	}
	return routines
}

// SplitWork runs do for every index in [0, workSize) across routines goroutines.
// Indexes are handed out in order from a shared counter. The first error, or cancellation of ctx,
// stops every routine from claiming more work.
func SplitWork(ctx context.Context, routines int, workSize uint64, do func(workIndex uint64, routineIndex int) error, init func(routines, routineIndex int) error) error {
	routines = Routines(routines)

	if workSize < uint64(routines) {
		routines = int(workSize)
	}

	if init != nil {
		for routineIndex := range routines {
			if err := init(routines, routineIndex); err != nil {
				return err
			}
		}
	}

	var counter atomic.Uint64

	eg, ctx := errgroup.WithContext(ctx)

	for routineIndex := range routines {
		eg.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}

				workIndex := counter.Add(1)
				if workIndex > workSize {
					return nil
				}

				if err := do(workIndex-1, routineIndex); err != nil {
					return err
				}
			}
		})
	}
	return eg.Wait()
}
