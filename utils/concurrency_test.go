package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestSplitWork(t *testing.T) {
	const size = 1000

	var seen [size]atomic.Uint32
	var inits atomic.Int32

	err := SplitWork(context.Background(), 4, size, func(workIndex uint64, routineIndex int) error {
		if routineIndex < 0 || routineIndex >= 4 {
			t.Errorf("routine index %d out of range", routineIndex)
		}
		seen[workIndex].Add(1)
		return nil
	}, func(routines, routineIndex int) error {
		inits.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if inits.Load() != 4 {
		t.Fatalf("expected 4 init calls, got %d", inits.Load())
	}

	for i := range seen {
		if n := seen[i].Load(); n != 1 {
			t.Fatalf("work index %d done %d times", i, n)
		}
	}
}

func TestSplitWork_Error(t *testing.T) {
	errStop := errors.New("stop")

	err := SplitWork(context.Background(), 2, 100, func(workIndex uint64, routineIndex int) error {
		if workIndex == 10 {
			return errStop
		}
		return nil
	}, nil)
	if !errors.Is(err, errStop) {
		t.Fatalf("expected %v, got %v", errStop, err)
	}
}

func TestSplitWork_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var done atomic.Uint64
	err := SplitWork(ctx, 2, 100, func(workIndex uint64, routineIndex int) error {
		done.Add(1)
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if done.Load() != 0 {
		t.Fatalf("expected no work after cancel, got %d", done.Load())
	}
}

func TestSplitWork_SmallWork(t *testing.T) {
	var routinesSeen atomic.Int32
	err := SplitWork(context.Background(), 8, 3, func(workIndex uint64, routineIndex int) error {
		return nil
	}, func(routines, routineIndex int) error {
		routinesSeen.Store(int32(routines))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if routinesSeen.Load() != 3 {
		t.Fatalf("expected routines capped to 3, got %d", routinesSeen.Load())
	}
}

func TestSiUnits(t *testing.T) {
	for _, v := range []struct {
		n        float64
		expected string
	}{
		{0, "0.00 "},
		{999, "999.00 "},
		{1500, "1.50 K"},
		{2_500_000, "2.50 M"},
		{3e9, "3.00 G"},
		{4e12, "4.00 T"},
	} {
		if s := SiUnits(v.n, 2); s != v.expected {
			t.Errorf("SiUnits(%v) = %q, want %q", v.n, s, v.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("debug")
	if err != nil {
		t.Fatal(err)
	}
	if level&LogLevelDebug == 0 || level&LogLevelError == 0 {
		t.Fatalf("unexpected debug mask %b", level)
	}

	if level, _ = ParseLogLevel("error"); level != LogLevelError {
		t.Fatalf("unexpected error mask %b", level)
	}

	if _, err = ParseLogLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
