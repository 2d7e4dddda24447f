// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

//go:build nats

package jobs

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/soundcluster/internal/config"
)

// newNATSTransport publishes jobs to JetStream so several instances can
// share the work. Streams are auto-provisioned per shard subject.
func newNATSTransport(cfg *config.JobsConfig, logger watermill.LoggerAdapter) (*transport, error) {
	if cfg.NATSURL == "" {
		return nil, fmt.Errorf("nats transport requires a NATS URL")
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	ackWait := cfg.JobTimeout + 30*time.Second
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		QueueGroupPrefix: cfg.SubjectPrefix,
		SubscribersCount: 1,
		AckWaitTimeout:   ackWait,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			AckAsync:      false,
			DurablePrefix: cfg.SubjectPrefix,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.MaxDeliver(1),
				natsgo.AckWait(ackWait),
				natsgo.DeliverNew(),
			},
		},
	}, logger)
	if err != nil {
		pub.Close() //nolint:errcheck
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &transport{
		pub: pub,
		sub: sub,
		close: func() error {
			return errors.Join(sub.Close(), pub.Close())
		},
	}, nil
}
