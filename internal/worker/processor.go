// Package worker hosts the per-channel batch consumers: a generic runner
// that drives the Kafka consume loop through the channel state machine, and
// one ChannelProcessor implementation per delivery medium.
package worker

import (
	"context"

	"github.com/ajayykmr/notification-service-go/internal/models"
)

// ChannelProcessor processes one raw batch payload for its channel and
// reports per-recipient accounting.
//
// Individual recipient failures are absorbed into the result's Failed
// counter; an error return means the batch as a whole could not be processed
// (malformed payload, cancelled context) and the runner must leave the
// offset uncommitted so the broker redelivers the message.
type ChannelProcessor interface {
	Channel() models.Channel
	ProcessBatch(ctx context.Context, raw []byte) (models.DispatchResult, error)
}
