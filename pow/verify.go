package pow

import (
	"git.gammaspectra.live/P2Pool/verushash/types"
	"git.gammaspectra.live/P2Pool/verushash/verus"
)

// CheckDigest digest read as big-endian must be at or below target, equal passes
func CheckDigest(digest types.Hash, target Target) bool {
	return TargetFromDigest(digest).Compare(target) <= 0
}

// Verify hashes message and checks it against target
func Verify(message []byte, target Target) bool {
	return CheckDigest(verus.Sum(message), target)
}

// VerifyWithState Verify reusing the key buffer of state
func VerifyWithState(state *verus.State, message []byte, target Target) bool {
	return CheckDigest(state.Sum(message), target)
}

// CalculateDigest digest of a framed message
func CalculateDigest(message Message) types.Hash {
	return verus.Sum(message[:])
}
