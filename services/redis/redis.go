package redis

import (
	redis_utils "Excusas/services/redis/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const roomStateTTL = 24 * time.Hour

// releaseBattleScript deletes the battle key only if it still points at the
// battle being released.
var releaseBattleScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisClient handles Redis operations. It stores the transient state of the
// rooms: who is present and which battle is running.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client instance. Addr is either a plain
// host:port or a redis:// URL.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if strings.Contains(Addr, "://") {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %v", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{client: client}, nil
}

// AddPlayer registers one more session of playerName in the room.
// Key format: "room:{id}:players" (hash name -> session count)
func (rc *RedisClient) AddPlayer(ctx context.Context, roomID, playerName string) error {
	key := redis_utils.FormatRoomPlayersKey(roomID)
	pipe := rc.client.TxPipeline()
	pipe.HIncrBy(ctx, key, playerName, 1)
	pipe.Expire(ctx, key, roomStateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error adding player to room: %v", err)
	}
	return nil
}

// RemovePlayer drops one session of playerName from the room. The name
// disappears once its last session is gone.
func (rc *RedisClient) RemovePlayer(ctx context.Context, roomID, playerName string) error {
	key := redis_utils.FormatRoomPlayersKey(roomID)
	n, err := rc.client.HIncrBy(ctx, key, playerName, -1).Result()
	if err != nil {
		return fmt.Errorf("error removing player from room: %v", err)
	}
	if n <= 0 {
		if err := rc.client.HDel(ctx, key, playerName).Err(); err != nil {
			return fmt.Errorf("error removing player from room: %v", err)
		}
	}
	return nil
}

// Players returns the display names present in the room, sorted.
func (rc *RedisClient) Players(ctx context.Context, roomID string) ([]string, error) {
	key := redis_utils.FormatRoomPlayersKey(roomID)
	counts, err := rc.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting room players: %v", err)
	}
	players := make([]string, 0, len(counts))
	for name, count := range counts {
		if count != "0" && !strings.HasPrefix(count, "-") {
			players = append(players, name)
		}
	}
	sort.Strings(players)
	return players, nil
}

// ClaimBattle makes battleID the active battle of the room unless another one
// holds the slot. It returns the battle holding the slot after the call.
// Key format: "room:{id}:battle"
func (rc *RedisClient) ClaimBattle(ctx context.Context, roomID, battleID string) (string, bool, error) {
	key := redis_utils.FormatRoomBattleKey(roomID)
	ok, err := rc.client.SetNX(ctx, key, battleID, roomStateTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("error claiming room battle: %v", err)
	}
	if ok {
		return battleID, true, nil
	}
	current, err := rc.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET, try once more.
		ok, err = rc.client.SetNX(ctx, key, battleID, roomStateTTL).Result()
		if err != nil {
			return "", false, fmt.Errorf("error claiming room battle: %v", err)
		}
		if ok {
			return battleID, true, nil
		}
		current, err = rc.client.Get(ctx, key).Result()
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading room battle: %v", err)
	}
	return current, false, nil
}

// ReleaseBattle frees the slot if battleID still holds it.
func (rc *RedisClient) ReleaseBattle(ctx context.Context, roomID, battleID string) error {
	key := redis_utils.FormatRoomBattleKey(roomID)
	if err := releaseBattleScript.Run(ctx, rc.client, []string{key}, battleID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("error releasing room battle: %v", err)
	}
	return nil
}

// ActiveBattle returns the battle holding the room slot, "" if none.
func (rc *RedisClient) ActiveBattle(ctx context.Context, roomID string) (string, error) {
	key := redis_utils.FormatRoomBattleKey(roomID)
	id, err := rc.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error reading room battle: %v", err)
	}
	return id, nil
}
