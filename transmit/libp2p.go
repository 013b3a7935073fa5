// Package transmit provides scheduler.TransmitFunc implementations: a
// libp2p-pubsub broadcaster for production use and an in-process channel
// transmitter for tests.
package transmit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/rs/zerolog"

	"github.com/cardano-foundation/wallet-submission/scheduler"
)

// DefaultTopic is the pubsub topic transaction blobs are published to,
// unless the caller joins a different one.
const DefaultTopic = "wallet-submission/txs/v1"

// PublishTimeout bounds how long one TransmitFunc call may block waiting
// for the topic to reach its readiness threshold; all of that call's
// Publish calls share this one deadline.
const PublishTimeout = 5 * time.Second

// LibP2P broadcasts transaction blobs over a gossipsub topic.
type LibP2P struct {
	ps     *pubsub.PubSub
	topic  *pubsub.Topic
	sub    *pubsub.Subscription
	logger zerolog.Logger
}

// NewLibP2P joins namespace on ps and returns a broadcaster for it.
func NewLibP2P(ps *pubsub.PubSub, namespace string, logger zerolog.Logger) (*LibP2P, error) {
	topic, err := ps.Join(namespace)
	if err != nil {
		return nil, err
	}
	l := &LibP2P{ps: ps, topic: topic, logger: logger}
	l.ensureSubscribed()
	return l, nil
}

// Announcement is the wire format published for each transaction: the opaque
// blob plus its inputs, so a listening peer can judge acceptance order.
// Each input is encoded as its Producer and Index only; whether an input is
// unknown to the scheduler is not part of the encoding.
type Announcement struct {
	Id      scheduler.TxId       `json:"id"`
	Payload []byte               `json:"payload"`
	Inputs  []scheduler.Outpoint `json:"inputs"`
}

// Notifiee receives transaction announcements gossiped on the topic,
// including the node's own. Returning an error rejects the message so it is
// not relayed further.
type Notifiee interface {
	OnTransaction(ctx context.Context, ann *Announcement) error
}

// Notify registers n as the topic's validator, delivering every announcement
// that arrives on the wire.
func (l *LibP2P) Notify(n Notifiee) {
	// error can be safely ignored
	_ = l.ps.RegisterTopicValidator(l.topic.String(), func(ctx context.Context, _ peer.ID, pmsg *pubsub.Message) pubsub.ValidationResult {
		var ann Announcement
		if err := json.Unmarshal(pmsg.Data, &ann); err != nil {
			return pubsub.ValidationReject
		}
		if err := n.OnTransaction(ctx, &ann); err != nil {
			return pubsub.ValidationReject
		}
		return pubsub.ValidationAccept
	})
}

// TransmitFunc returns a scheduler.TransmitFunc that publishes each event as
// its own message. Publish errors are logged, not surfaced: the transmit
// callback's result is irrelevant to the scheduler, which treats the
// blockchain, not the network call, as the oracle of success.
func (l *LibP2P) TransmitFunc() scheduler.TransmitFunc {
	return func(events []scheduler.SendEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		for _, ev := range events {
			data, err := json.Marshal(Announcement{Id: ev.Id, Payload: ev.Aux.Payload, Inputs: ev.Aux.Inputs})
			if err != nil {
				l.logger.Error().Err(err).Str("tx", ev.Id.String()).Msg("marshal transaction announcement")
				continue
			}
			// wait for at least one peer so publish isn't a silent no-op
			opt := pubsub.WithReadiness(pubsub.MinTopicSize(1))
			if err := l.topic.Publish(ctx, data, opt); err != nil {
				l.logger.Warn().Err(err).Str("tx", ev.Id.String()).Msg("publish transaction")
			}
		}
	}
}

// ensureSubscribed maintains one and only one subscription for the topic.
// PubSub requires at least one subscription in order to deliver messages to
// the topic's validator, which is where Notify hooks in.
func (l *LibP2P) ensureSubscribed() {
	sub, err := l.topic.Subscribe()
	if err != nil {
		return // safe to ignore
	}
	l.sub = sub

	go func() {
		for {
			_, err := sub.Next(context.Background())
			if err != nil {
				// happens when subscription is canceled
				return
			}
			// simply ignore messages; delivery goes through the validator
		}
	}()
}

// Close cancels the subscription and releases the underlying topic handle.
func (l *LibP2P) Close() (err error) {
	if l.sub != nil {
		l.sub.Cancel()
	}
	err = errors.Join(err, l.ps.UnregisterTopicValidator(l.topic.String()))
	err = errors.Join(err, l.topic.Close())
	return err
}
