package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"git.gammaspectra.live/P2Pool/verushash/notify"
	"git.gammaspectra.live/P2Pool/verushash/pow"
)

func testSolution(t *testing.T) *notify.Solution {
	challenge := pow.NewChallenge([]byte("notify"))
	var identity pow.Identity
	identity[0] = 1

	const difficulty = 4
	prefix := pow.PrefixFor(challenge, identity)
	target := pow.DifficultyToTarget(difficulty)
	nonce, digest, err := pow.Search(context.Background(), &prefix, 0, target)
	if err != nil {
		t.Fatal(err)
	}

	return &notify.Solution{
		Challenge:  challenge,
		Identity:   identity,
		Nonce:      nonce,
		Digest:     digest,
		Difficulty: difficulty,
		Target:     target,
		Timestamp:  1700000000,
	}
}

func TestJSONFromFrame(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name          string
		input         []byte
		expectedJSON  []byte
		expectedTopic notify.Topic
		err           string
	}{
		{
			name:  "nil",
			input: nil,
			err:   "malformed",
		},

		{
			name:  "empty",
			input: []byte{},
			err:   "malformed",
		},

		{
			name:  "unknown-topic",
			input: []byte(`foobar:{"foo":"bar"}`),
			err:   "unknown topic",
		},

		{
			name:          "proper w/ known-topic",
			input:         []byte(`json-solution:{"nonce":1}`),
			expectedTopic: notify.TopicSolution,
			expectedJSON:  []byte(`{"nonce":1}`),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			aTopic, aJSON, err := notify.JSONFromFrame(tc.input)
			if tc.err != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.err) {
					t.Errorf("expected %s in, got %s", tc.err, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("expected no error, got %s", err)
			}

			if tc.expectedTopic != aTopic {
				t.Errorf("expected %s, got %s", tc.expectedTopic, aTopic)
			}

			if !bytes.Equal(tc.expectedJSON, aJSON) {
				t.Errorf("expected %s, got %s", string(tc.expectedJSON), string(aJSON))
			}
		})
	}
}

func TestSolutionFrame(t *testing.T) {
	s := testSolution(t)

	frame, err := notify.FrameFromSolution(s)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(frame, []byte("json-solution:{")) {
		t.Fatalf("unexpected frame %s", frame)
	}
	if !bytes.Contains(frame, []byte(`"digest":"`+s.Digest.String()+`"`)) {
		t.Fatalf("digest not hex encoded: %s", frame)
	}

	decoded, err := notify.SolutionFromFrame(frame)
	if err != nil {
		t.Fatal(err)
	}
	if *decoded != *s {
		t.Fatalf("expected %+v, got %+v", s, decoded)
	}

	if _, err = notify.SolutionFromFrame([]byte("json-solution:{")); err == nil {
		t.Fatal("expected error on truncated payload")
	}
}

func TestSolution_Verify(t *testing.T) {
	s := testSolution(t)
	if err := s.Verify(); err != nil {
		t.Fatal(err)
	}

	tampered := *s
	tampered.Digest[0] ^= 1
	if err := tampered.Verify(); err == nil || !strings.Contains(err.Error(), "digest mismatch") {
		t.Fatalf("expected digest mismatch, got %v", err)
	}

	tampered = *s
	tampered.Target = pow.ZeroTarget
	if err := tampered.Verify(); err == nil || !strings.Contains(err.Error(), "target not met") {
		t.Fatalf("expected target not met, got %v", err)
	}
}

func TestPublisher(t *testing.T) {
	const endpoint = "inproc://notify-test"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	publisher, err := notify.NewPublisher(ctx, endpoint)
	if err != nil {
		t.Fatal(err)
	}
	defer publisher.Close()

	s := testSolution(t)

	listenCtx, listenCancel := context.WithCancel(ctx)
	defer listenCancel()

	received := make(chan *notify.Solution, 1)
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- notify.NewClient(endpoint).Listen(listenCtx, func(s *notify.Solution) {
			select {
			case received <- s:
			default:
			}
			listenCancel()
		})
	}()

	// subscriptions propagate asynchronously, keep publishing until one arrives
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case r := <-received:
			if *r != *s {
				t.Fatalf("expected %+v, got %+v", s, r)
			}
			if err = <-listenErr; !notify.IsClosed(err) {
				t.Fatalf("expected closed listener, got %v", err)
			}
			return
		case err = <-listenErr:
			t.Fatalf("listener ended early: %v", err)
		case <-ctx.Done():
			t.Fatal("no solution received")
		case <-ticker.C:
			if err = publisher.Publish(s); err != nil {
				t.Fatal(err)
			}
		}
	}
}
