package pow

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"

	"git.gammaspectra.live/P2Pool/verushash/types"
	"git.gammaspectra.live/P2Pool/verushash/verus"
)

// FindChallengeSolution searches from a random nonce on the calling goroutine until a message for
// challenge and identity passes difficulty, or stop is set.
func FindChallengeSolution(challenge Challenge, identity Identity, difficulty uint64, stop *atomic.Bool) (solution Message, hash types.Hash, ok bool) {
	var nonceSlice [NonceSize]byte
	_, _ = rand.Read(nonceSlice[:])
	nonce := binary.LittleEndian.Uint64(nonceSlice[:])

	target := DifficultyToTarget(difficulty)
	state := verus.NewState()
	solution = NewMessage(challenge, identity, nonce)

	for {
		hash = state.Sum(solution[:])

		//check if we have been asked to stop
		if stop.Load() {
			return solution, hash, false
		}

		if CheckDigest(hash, target) {
			return solution, hash, true
		}

		nonce++
		solution.SetNonce(nonce)
	}
}

// CalculateChallengeHash verifies a solution received for challenge, bound to identity
func CalculateChallengeHash(challenge Challenge, identity Identity, nonce uint64, difficulty uint64) (hash types.Hash, ok bool) {
	message := NewMessage(challenge, identity, nonce)
	hash = verus.Sum(message[:])
	return hash, CheckDigest(hash, DifficultyToTarget(difficulty))
}
