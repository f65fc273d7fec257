// Package notify publishes found solutions over ZeroMQ and subscribes to them.
package notify

import (
	"context"
	"errors"
	"fmt"

	"git.gammaspectra.live/P2Pool/verushash/utils"
	"github.com/go-zeromq/zmq4"
)

type Publisher struct {
	endpoint string
	sock     zmq4.Socket
}

// NewPublisher binds a PUB socket to endpoint. The socket closes with ctx.
func NewPublisher(ctx context.Context, endpoint string) (*Publisher, error) {
	sock := zmq4.NewPub(ctx)
	if err := sock.Listen(endpoint); err != nil {
		_ = sock.Close()
		return nil, fmt.Errorf("listen %s: %w", endpoint, err)
	}
	return &Publisher{
		endpoint: endpoint,
		sock:     sock,
	}, nil
}

func (p *Publisher) Publish(s *Solution) error {
	frame, err := FrameFromSolution(s)
	if err != nil {
		return err
	}
	if err = p.sock.Send(zmq4.NewMsg(frame)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	utils.Debugf("ZMQ", "published solution nonce %d on %s", s.Nonce, p.endpoint)
	return nil
}

func (p *Publisher) Close() error {
	return p.sock.Close()
}

type Client struct {
	endpoint string
	topics   []Topic
}

// NewClient subscriber of endpoint. With no topics, it subscribes to TopicSolution.
func NewClient(endpoint string, topics ...Topic) *Client {
	if len(topics) == 0 {
		topics = []Topic{TopicSolution}
	}
	return &Client{
		endpoint: endpoint,
		topics:   topics,
	}
}

// Listen delivers every solution received until ctx is done, which is then returned.
// Undecodable frames are logged and skipped.
func (c *Client) Listen(ctx context.Context, onSolution func(s *Solution)) error {
	sub := zmq4.NewSub(ctx)
	defer sub.Close()

	if err := sub.Dial(c.endpoint); err != nil {
		return fmt.Errorf("dial %s: %w", c.endpoint, err)
	}

	for _, topic := range c.topics {
		if err := sub.SetOption(zmq4.OptionSubscribe, string(topic)); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}

	for {
		msg, err := sub.Recv()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("recv: %w", err)
		}

		for _, frame := range msg.Frames {
			s, err := SolutionFromFrame(frame)
			if err != nil {
				utils.Errorf("ZMQ", "skipping frame: %s", err)
				continue
			}
			onSolution(s)
		}
	}
}

// IsClosed reports whether err is the result of Listen ending because its context finished
func IsClosed(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
