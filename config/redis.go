package config

import (
	"Excusas/services/redis"
	"log"
)

// Connect to Redis. An empty URL means room state stays in memory.
func Connect_redis(redisUri string) (*redis.RedisClient, error) {
	if redisUri == "" {
		return nil, nil
	}
	redisClient, err := redis.InitRedis(redisUri, 0)
	if err != nil {
		log.Printf("Error connecting to Redis: %v", err)
		return nil, err
	}
	log.Println("Redis connection established")
	return redisClient, nil
}
