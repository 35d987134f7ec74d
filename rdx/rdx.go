package rdx

import (
	"log"
	"os"
	"time"

	"dondar/globals"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	Conn = redis.NewClient(clientOptions(os.Getenv("REDIS_URL"), os.Getenv("REDIS_PASSWORD")))
}

// clientOptions accepts either a full redis:// URL or a bare host:port.
func clientOptions(redisURL, password string) *redis.Options {
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	if opts, err := redis.ParseURL(redisURL); err == nil {
		if opts.Password == "" {
			opts.Password = password
		}
		return opts
	}

	return &redis.Options{
		Addr:     redisURL,
		Password: password, // Empty if no password
		DB:       0,        // Default DB
	}
}

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxSet(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

func RdxPublish(channel string, payload []byte) error {
	return Conn.Publish(globals.Ctx, channel, payload).Err()
}
