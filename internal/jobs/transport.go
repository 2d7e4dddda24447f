// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package jobs

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/soundcluster/internal/config"
)

// Transport names accepted by configuration.
const (
	TransportChannel = "channel"
	TransportNATS    = "nats"
)

// transport pairs the publisher and subscriber the queue runs on.
type transport struct {
	pub   message.Publisher
	sub   message.Subscriber
	close func() error
}

func newTransport(cfg *config.JobsConfig, logger watermill.LoggerAdapter) (*transport, error) {
	switch cfg.Transport {
	case "", TransportChannel:
		return newChannelTransport(cfg, logger), nil
	case TransportNATS:
		return newNATSTransport(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown job transport %q", cfg.Transport)
	}
}

// newChannelTransport runs jobs in process. Messages are not persisted; a
// message published while no handler is subscribed is dropped, which is
// why Submit refuses jobs until the router is running.
func newChannelTransport(cfg *config.JobsConfig, logger watermill.LoggerAdapter) *transport {
	buffer := int64(cfg.QueueSize)
	if buffer < 1 {
		buffer = 1
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            buffer,
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, logger)

	return &transport{
		pub:   pubsub,
		sub:   pubsub,
		close: pubsub.Close,
	}
}
