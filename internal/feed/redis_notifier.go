package feed

import (
	"context"
	"errors"

	"github.com/redis/rueidis"
)

// RedisNotifier carries change signals over a Redis pub/sub channel so that
// several processes sharing one database observe each other's writes.
type RedisNotifier struct {
	client  rueidis.Client
	channel string
}

func NewRedisNotifier(client rueidis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
	}
}

func (r *RedisNotifier) Publish(ctx context.Context, ownerID string) error {
	cmd := r.client.B().Publish().Channel(r.channel).Message(ownerID).Build()
	return r.client.Do(ctx, cmd).Error()
}

// Subscribe returns when ctx is done or the connection carrying the
// subscription drops. Callers resubscribe after an error.
func (r *RedisNotifier) Subscribe(ctx context.Context, fn func(ownerID string), ready func()) error {
	if ready != nil {
		ctx = rueidis.WithOnSubscriptionHook(ctx, func(s rueidis.PubSubSubscription) {
			if s.Kind == "subscribe" && s.Channel == r.channel {
				ready()
			}
		})
	}

	cmd := r.client.B().Subscribe().Channel(r.channel).Build()
	err := r.client.Receive(ctx, cmd, func(msg rueidis.PubSubMessage) {
		fn(msg.Message)
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
