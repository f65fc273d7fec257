// Package verifier checks submitted proof-of-work messages for the issuing side: digests are cached
// per message and accepted solutions are remembered so the same message cannot be redeemed twice.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"git.gammaspectra.live/P2Pool/verushash/pow"
	"git.gammaspectra.live/P2Pool/verushash/types"
	"git.gammaspectra.live/P2Pool/verushash/utils"
	"git.gammaspectra.live/P2Pool/verushash/verus"
	"github.com/dolthub/swiss"
	"github.com/floatdrop/lru"
)

var (
	ErrTargetNotMet = errors.New("target not met")
	ErrDuplicate    = errors.New("duplicate solution")
)

const DefaultCacheSize = 4096

type Verifier struct {
	lock     sync.Mutex
	cache    *lru.LRU[pow.Message, types.Hash]
	accepted *swiss.Map[pow.Message, time.Time]

	trackDuplicates bool
	cacheSize       int

	states sync.Pool
}

type Option func(v *Verifier)

// WithCacheSize number of digests kept, zero disables the cache
func WithCacheSize(size int) Option {
	return func(v *Verifier) {
		v.cacheSize = size
	}
}

// WithDuplicateTracking remember accepted messages and reject them when seen again
func WithDuplicateTracking(enabled bool) Option {
	return func(v *Verifier) {
		v.trackDuplicates = enabled
	}
}

func New(options ...Option) *Verifier {
	registerMetrics()

	v := &Verifier{
		cacheSize:       DefaultCacheSize,
		trackDuplicates: true,
	}
	for _, o := range options {
		o(v)
	}

	if v.cacheSize > 0 {
		v.cache = lru.New[pow.Message, types.Hash](v.cacheSize)
	}
	v.accepted = swiss.NewMap[pow.Message, time.Time](64)
	v.states.New = func() any {
		return verus.NewState()
	}
	return v
}

func (v *Verifier) sum(message []byte) types.Hash {
	//nolint:forcetypeassert
	state := v.states.Get().(*verus.State)
	defer v.states.Put(state)
	return state.Sum(message)
}

// Hash digest of message, from the cache when present
func (v *Verifier) Hash(message pow.Message) types.Hash {
	if v.cache != nil {
		v.lock.Lock()
		h := v.cache.Get(message)
		v.lock.Unlock()
		if h != nil {
			cacheHits.Inc()
			return *h
		}
	}

	digest := v.sum(message[:])

	if v.cache != nil {
		v.lock.Lock()
		v.cache.Set(message, digest)
		v.lock.Unlock()
	}
	return digest
}

// Verify stateless check of an arbitrary length message, nothing is cached or remembered
func (v *Verifier) Verify(message []byte, target pow.Target) bool {
	return pow.CheckDigest(v.sum(message), target)
}

// Check verifies message against target and, when duplicate tracking is enabled, records it as
// accepted. The digest is returned even when the check fails.
func (v *Verifier) Check(message pow.Message, target pow.Target) (types.Hash, error) {
	digest := v.Hash(message)

	if !pow.CheckDigest(digest, target) {
		checkTargetNotMet.Inc()
		return digest, fmt.Errorf("%w: digest %s, target %s", ErrTargetNotMet, pow.TargetFromDigest(digest), target)
	}

	if v.trackDuplicates {
		v.lock.Lock()
		defer v.lock.Unlock()
		if when, ok := v.accepted.Get(message); ok {
			checkDuplicate.Inc()
			return digest, fmt.Errorf("%w: nonce %d accepted at %s", ErrDuplicate, message.Nonce(), when.UTC().Format(time.RFC3339))
		}
		v.accepted.Put(message, time.Now())
	}

	checkAccepted.Inc()
	utils.Debugf("Verifier", "accepted nonce %d for challenge %s, digest %s", message.Nonce(), message.Challenge(), digest)
	return digest, nil
}

// Submission message to check with its target
type Submission struct {
	Message pow.Message
	Target  pow.Target
}

// Result of checking one Submission
type Result struct {
	Digest types.Hash
	Err    error
}

// CheckAll checks every submission across routines goroutines. Results are in submission order.
// Duplicates within the batch are resolved in whichever order the workers reach them.
func (v *Verifier) CheckAll(ctx context.Context, routines int, submissions []Submission) ([]Result, error) {
	results := make([]Result, len(submissions))
	err := utils.SplitWork(ctx, routines, uint64(len(submissions)), func(workIndex uint64, routineIndex int) error {
		s := submissions[workIndex]
		results[workIndex].Digest, results[workIndex].Err = v.Check(s.Message, s.Target)
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Forget drops accepted messages for challenge, returning how many were removed
func (v *Verifier) Forget(challenge pow.Challenge) (removed int) {
	v.lock.Lock()
	defer v.lock.Unlock()

	var messages []pow.Message
	v.accepted.Iter(func(message pow.Message, _ time.Time) (stop bool) {
		if message.Challenge() == challenge {
			messages = append(messages, message)
		}
		return false
	})
	for _, message := range messages {
		v.accepted.Delete(message)
	}
	return len(messages)
}

// Accepted number of remembered accepted messages
func (v *Verifier) Accepted() int {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.accepted.Count()
}
