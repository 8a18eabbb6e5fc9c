package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueueService provides queue functionality using Redis Streams
type RedisQueueService struct {
	client *redis.Client
}

// NewRedisQueueService creates a new Redis queue service
func NewRedisQueueService(client *redis.Client) *RedisQueueService {
	return &RedisQueueService{
		client: client,
	}
}

// RefreshQueueItem represents one queued member role refresh
type RefreshQueueItem struct {
	DiscordID string `json:"discord_id"`
	Arm       string `json:"arm"`
	Trigger   string `json:"trigger"`
	Attempts  int    `json:"attempts"`
}

// EnqueueRefresh adds a refresh request to the stream
// XADD stream_name * data <json>
func (s *RedisQueueService) EnqueueRefresh(ctx context.Context, streamName string, item *RefreshQueueItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh item: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// DequeueRefresh reads one refresh request using a consumer group.
// Returns (item, messageID, error); (nil, "", nil) on timeout.
func (s *RedisQueueService) DequeueRefresh(ctx context.Context, streamName, groupName, consumerName string, blockTime time.Duration) (*RefreshQueueItem, string, error) {
	// XREADGROUP GROUP group consumer BLOCK milliseconds COUNT 1 STREAMS stream >
	args := &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{streamName, ">"}, // ">" means new messages only
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, "", fmt.Errorf("invalid message format: data field missing")
	}

	var item RefreshQueueItem
	if err := json.Unmarshal([]byte(dataStr), &item); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal refresh item: %w", err)
	}

	return &item, msg.ID, nil
}

// AckRefresh acknowledges successful processing of a message
func (s *RedisQueueService) AckRefresh(ctx context.Context, streamName, groupName, messageID string) error {
	return s.client.XAck(ctx, streamName, groupName, messageID).Err()
}

// CreateConsumerGroup creates a consumer group for the stream if it doesn't exist
func (s *RedisQueueService) CreateConsumerGroup(ctx context.Context, streamName, groupName string) error {
	// XGROUP CREATE stream group 0 MKSTREAM
	err := s.client.XGroupCreateMkStream(ctx, streamName, groupName, "0").Err()
	if err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists" {
		return nil
	}
	return err
}

// GetQueueLength returns the number of messages in the stream
func (s *RedisQueueService) GetQueueLength(ctx context.Context, streamName string) (int64, error) {
	length, err := s.client.XLen(ctx, streamName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// TrimStream removes old processed messages, keeping the most recent maxLen
func (s *RedisQueueService) TrimStream(ctx context.Context, streamName string, maxLen int64) error {
	return s.client.XTrimMaxLen(ctx, streamName, maxLen).Err()
}
