package pow

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"git.gammaspectra.live/P2Pool/verushash/types"
	"git.gammaspectra.live/P2Pool/verushash/utils"
	"git.gammaspectra.live/P2Pool/verushash/verus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"
)

var (
	ErrNonceSpaceExhausted = errors.New("nonce space exhausted")
	ErrStopped             = errors.New("search stopped")
)

// checkInterval hashes between cancellation checks
const checkInterval = 256

// Search scans nonces start, start+1, ... on the calling goroutine and returns the first one whose
// message passes target. It is unbounded other than by the nonce space, ctx cancels it.
func Search(ctx context.Context, prefix *[PrefixSize]byte, start uint64, target Target) (nonce uint64, digest types.Hash, err error) {
	registerMetrics()

	state := verus.NewState()
	message := MessageFromPrefix(prefix, start)

	var hashes uint64
	defer func() {
		searchHashes.Add(float64(hashes))
	}()

	for nonce = start; ; nonce++ {
		if hashes%checkInterval == 0 {
			if err = ctx.Err(); err != nil {
				searchResultCancelled.Inc()
				return 0, types.ZeroHash, err
			}
		}

		message.SetNonce(nonce)
		digest = state.Sum(message[:])
		hashes++

		if CheckDigest(digest, target) {
			searchResultFound.Inc()
			return nonce, digest, nil
		}

		if nonce == math.MaxUint64 {
			searchResultExhausted.Inc()
			return 0, types.ZeroHash, ErrNonceSpaceExhausted
		}
	}
}

type workerCounter struct {
	hashes atomic.Uint64
	_      cpu.CacheLinePad
}

// Searcher parallel nonce search. Workers claim consecutive batches of nonces from a shared cursor,
// and every hit lowers a shared best offset, so the result is the lowest passing nonce at or above
// start, same as Search.
type Searcher struct {
	// Threads worker count, zero or negative values are relative to the CPU count
	Threads int
	// BatchSize nonces claimed by a worker at once
	BatchSize uint64
	// Stop optional external stop flag, polled along with the context
	Stop *atomic.Bool
	// ReportInterval when non-zero, hashrate is logged at this interval
	ReportInterval time.Duration

	counters []workerCounter
	started  time.Time
}

const DefaultBatchSize = 1024

func NewSearcher(threads int) *Searcher {
	return &Searcher{
		Threads:   threads,
		BatchSize: DefaultBatchSize,
	}
}

// Hashes total hashes done by the current or last search
func (s *Searcher) Hashes() (n uint64) {
	for i := range s.counters {
		n += s.counters[i].hashes.Load()
	}
	return n
}

// Elapsed time since the current or last search started
func (s *Searcher) Elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

func (s *Searcher) stopped() bool {
	return s.Stop != nil && s.Stop.Load()
}

// Search see Searcher. Not safe to call concurrently on the same Searcher.
func (s *Searcher) Search(ctx context.Context, prefix *[PrefixSize]byte, start uint64, target Target) (nonce uint64, digest types.Hash, err error) {
	registerMetrics()

	threads := utils.Routines(s.Threads)
	batchSize := max(s.BatchSize, 1)

	s.counters = make([]workerCounter, threads)
	s.started = time.Now()

	// offsets are relative to start, span is the last valid one
	span := math.MaxUint64 - start
	lastBatch := span / batchSize

	var cursor atomic.Uint64
	var best atomic.Uint64
	var found atomic.Bool
	best.Store(math.MaxUint64)

	lower := func(offset uint64) {
		for {
			cur := best.Load()
			if offset >= cur || best.CompareAndSwap(cur, offset) {
				break
			}
		}
		found.Store(true)
	}

	beyondBest := func(offset uint64) bool {
		return found.Load() && offset > best.Load()
	}

	eg, ctx := errgroup.WithContext(ctx)

	if s.ReportInterval > 0 {
		done := make(chan struct{})
		defer close(done)
		go s.report(ctx, done)
	}

	for i := range threads {
		counter := &s.counters[i].hashes
		eg.Go(func() error {
			state := verus.NewState()
			message := MessageFromPrefix(prefix, start)

			var pending uint64
			defer func() {
				counter.Add(pending)
				searchHashes.Add(float64(pending))
			}()

			for {
				batch := cursor.Add(1) - 1
				if batch > lastBatch {
					return nil
				}
				first := batch * batchSize
				last := first + min(batchSize-1, span-first)

				for offset := first; ; offset++ {
					if pending%checkInterval == 0 {
						counter.Add(pending)
						searchHashes.Add(float64(pending))
						pending = 0

						if err := ctx.Err(); err != nil {
							return err
						}
						if s.stopped() {
							return ErrStopped
						}
					}

					if beyondBest(offset) {
						// every later batch is beyond it too
						return nil
					}

					message.SetNonce(start + offset)
					pending++
					if CheckDigest(state.Sum(message[:]), target) {
						lower(offset)
						break
					}

					if offset == last {
						break
					}
				}
			}
		})
	}

	if err = eg.Wait(); err != nil {
		if errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			searchResultCancelled.Inc()
		}
		return 0, types.ZeroHash, err
	}

	if !found.Load() {
		searchResultExhausted.Inc()
		return 0, types.ZeroHash, ErrNonceSpaceExhausted
	}

	searchResultFound.Inc()
	nonce = start + best.Load()
	message := MessageFromPrefix(prefix, nonce)
	return nonce, verus.Sum(message[:]), nil
}

func (s *Searcher) report(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(s.ReportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			utils.Logf("Search", "%d hashes, %s", s.Hashes(), utils.HashRate(s.Hashes(), s.Elapsed()))
		}
	}
}
