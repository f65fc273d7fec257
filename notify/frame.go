package notify

import (
	"bytes"
	"errors"
	"fmt"

	"git.gammaspectra.live/P2Pool/verushash/pow"
	"git.gammaspectra.live/P2Pool/verushash/types"
	"git.gammaspectra.live/P2Pool/verushash/utils"
)

type Topic string

const (
	TopicUnknown Topic = "unknown"

	TopicSolution Topic = "json-solution"
)

var errDigestMismatch = errors.New("digest mismatch")

// Solution found nonce for a challenge, as published to subscribers
type Solution struct {
	Challenge  pow.Challenge `json:"challenge"`
	Identity   pow.Identity  `json:"identity"`
	Nonce      uint64        `json:"nonce"`
	Digest     types.Hash    `json:"digest"`
	Difficulty uint64        `json:"difficulty"`
	Target     pow.Target    `json:"target"`
	Timestamp  int64         `json:"timestamp"`
}

func (s *Solution) Message() pow.Message {
	return pow.NewMessage(s.Challenge, s.Identity, s.Nonce)
}

// Verify recomputes the digest and checks it both matches the published one and passes Target
func (s *Solution) Verify() error {
	digest := pow.CalculateDigest(s.Message())
	if digest != s.Digest {
		return fmt.Errorf("nonce %d: %w", s.Nonce, errDigestMismatch)
	}
	if !pow.CheckDigest(digest, s.Target) {
		return fmt.Errorf("nonce %d: target not met", s.Nonce)
	}
	return nil
}

// FrameFromSolution single frame message: topic, a colon, then the JSON document
func FrameFromSolution(s *Solution) ([]byte, error) {
	buf, err := utils.MarshalJSON(s)
	if err != nil {
		return nil, fmt.Errorf("marshal solution: %w", err)
	}
	frame := make([]byte, 0, len(TopicSolution)+1+len(buf))
	frame = append(frame, TopicSolution...)
	frame = append(frame, ':')
	return append(frame, buf...), nil
}

// JSONFromFrame splits a frame into its topic and JSON payload
func JSONFromFrame(frame []byte) (Topic, []byte, error) {
	unknown := TopicUnknown

	topic, gson, ok := bytes.Cut(frame, []byte(":"))
	if !ok {
		return unknown, nil, fmt.Errorf("malformed: '%s'", string(frame))
	}

	switch Topic(topic) {
	case TopicSolution:
		return TopicSolution, gson, nil
	}

	return unknown, nil, fmt.Errorf("unknown topic '%s'", string(topic))
}

func SolutionFromFrame(frame []byte) (*Solution, error) {
	topic, gson, err := JSONFromFrame(frame)
	if err != nil {
		return nil, err
	}
	if topic != TopicSolution {
		return nil, fmt.Errorf("unexpected topic '%s'", topic)
	}

	var s Solution
	if err = utils.UnmarshalJSON(gson, &s); err != nil {
		return nil, fmt.Errorf("unmarshal solution: %w", err)
	}
	return &s, nil
}
