package pow

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"

	"git.gammaspectra.live/P2Pool/edwards25519"
	"git.gammaspectra.live/P2Pool/verushash/types"
	fasthex "github.com/tmthrgd/go-hex"
	"golang.org/x/crypto/sha3"
)

const (
	ChallengeSize      = 32
	IdentitySize       = 32
	IdentityPrefixSize = 24
	NonceSize          = 8

	PrefixSize  = ChallengeSize + IdentityPrefixSize
	MessageSize = PrefixSize + NonceSize
)

var ErrInvalidIdentity = errors.New("invalid identity")

// Challenge issued by the verifying side. Solutions are bound to it.
//
//nolint:recvcheck
type Challenge [ChallengeSize]byte

// NewChallenge derives a challenge as Keccak-256 over the concatenation of data
func NewChallenge(data ...[]byte) (c Challenge) {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		_, _ = h.Write(b)
	}
	h.Sum(c[:0])
	return c
}

func ChallengeFromString(s string) (Challenge, error) {
	return types.Bytes32FromString[Challenge](s)
}

func (c Challenge) String() string {
	return fasthex.EncodeToString(c[:])
}

func (c Challenge) MarshalJSON() ([]byte, error) {
	return types.Hash(c).MarshalJSON()
}

func (c *Challenge) UnmarshalJSON(b []byte) error {
	return (*types.Hash)(c).UnmarshalJSON(b)
}

// Identity ed25519 public key of the solver. Only the first 24 bytes enter the message.
//
//nolint:recvcheck
type Identity [IdentitySize]byte

func IdentityFromString(s string) (Identity, error) {
	return types.Bytes32FromString[Identity](s)
}

// Validate checks the identity is a canonically encoded ed25519 point
func (id Identity) Validate() error {
	p, err := new(edwards25519.Point).SetBytes(id[:])
	if err != nil {
		return errors.Join(ErrInvalidIdentity, err)
	}

	// Ban points which are either unreduced or -0
	if subtle.ConstantTimeCompare(p.Bytes(), id[:]) == 0 {
		return ErrInvalidIdentity
	}
	return nil
}

func (id Identity) String() string {
	return fasthex.EncodeToString(id[:])
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return types.Hash(id).MarshalJSON()
}

func (id *Identity) UnmarshalJSON(b []byte) error {
	return (*types.Hash)(id).UnmarshalJSON(b)
}

// Message proof-of-work input: challenge, identity prefix and little-endian nonce
//
//nolint:recvcheck
type Message [MessageSize]byte

// PrefixFor fixed part of every message searched for challenge and identity
func PrefixFor(challenge Challenge, identity Identity) (prefix [PrefixSize]byte) {
	copy(prefix[:], challenge[:])
	copy(prefix[ChallengeSize:], identity[:IdentityPrefixSize])
	return prefix
}

func NewMessage(challenge Challenge, identity Identity, nonce uint64) (m Message) {
	prefix := PrefixFor(challenge, identity)
	return MessageFromPrefix(&prefix, nonce)
}

func MessageFromPrefix(prefix *[PrefixSize]byte, nonce uint64) (m Message) {
	copy(m[:], prefix[:])
	m.SetNonce(nonce)
	return m
}

func MessageFromBytes(buf []byte) (m Message, err error) {
	if len(buf) != MessageSize {
		return m, errors.New("wrong message size")
	}
	copy(m[:], buf)
	return m, nil
}

func (m *Message) SetNonce(nonce uint64) {
	binary.LittleEndian.PutUint64(m[PrefixSize:], nonce)
}

func (m Message) Nonce() uint64 {
	return binary.LittleEndian.Uint64(m[PrefixSize:])
}

func (m Message) Challenge() (c Challenge) {
	copy(c[:], m[:ChallengeSize])
	return c
}

func (m Message) IdentityPrefix() (p [IdentityPrefixSize]byte) {
	copy(p[:], m[ChallengeSize:PrefixSize])
	return p
}

func (m Message) Prefix() (p [PrefixSize]byte) {
	copy(p[:], m[:PrefixSize])
	return p
}

func (m Message) String() string {
	return fasthex.EncodeToString(m[:])
}

func (m Message) MarshalJSON() ([]byte, error) {
	return types.Bytes(m[:]).MarshalJSON()
}

func (m *Message) UnmarshalJSON(b []byte) error {
	var buf types.Bytes
	if err := buf.UnmarshalJSON(b); err != nil {
		return err
	}
	var err error
	*m, err = MessageFromBytes(buf)
	return err
}
