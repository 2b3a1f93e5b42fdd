package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"wad-submission-api/models"

	"github.com/go-redis/redis/v8"
)

// Redis channels the presentation layer subscribes to.
const (
	ChannelNewSubmission     = "submissions.new"
	ChannelDeletedSubmission = "submissions.deleted"
)

// EventBroadcaster fans out entry lifecycle events to connected observers.
// Delivery is best effort: no acknowledgement, no backlog, no replay for
// observers that connect after the event.
type EventBroadcaster interface {
	PublishNewSubmission(view models.SubmissionView)
	PublishDeletedSubmissions(ids []int)
}

// RedisBroadcaster publishes events over Redis pub/sub.
type RedisBroadcaster struct {
	client *redis.Client
}

// NewRedisBroadcaster wraps an existing Redis client.
func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

func (b *RedisBroadcaster) publish(channel string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("broadcast: unable to encode %s payload: %v", channel, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("broadcast: publish to %s failed: %v", channel, err)
	}
}

func (b *RedisBroadcaster) PublishNewSubmission(view models.SubmissionView) {
	b.publish(ChannelNewSubmission, view)
}

func (b *RedisBroadcaster) PublishDeletedSubmissions(ids []int) {
	b.publish(ChannelDeletedSubmission, ids)
}

// NoopBroadcaster is used when no Redis backend is configured.
type NoopBroadcaster struct{}

func (NoopBroadcaster) PublishNewSubmission(models.SubmissionView) {}

func (NoopBroadcaster) PublishDeletedSubmissions([]int) {}
