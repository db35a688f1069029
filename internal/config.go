package internal

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	Host                   string        `env:"HOST,default=localhost"`
	Port                   int           `env:"PORT,default=8080"`
	DebugPort              int           `env:"DEBUG_PORT,default=8081"`
	LogLevel               string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath         string        `env:"BADGER_FILEPATH,required=true"`
	LimitMessages          *int          `env:"LIMIT_MESSAGES"`
	MaxContentLength       int           `env:"MAX_CONTENT_LENGTH,default=2000"`
	SubscriptionBufferSize int           `env:"SUBSCRIPTION_BUFFER_SIZE,default=64"`
	FeedBufferSize         int           `env:"FEED_BUFFER_SIZE,default=256"`
	DeliveryTimeout        time.Duration `env:"DELIVERY_TIMEOUT,default=2s"`
	MatchConflictRetries   int           `env:"MATCH_CONFLICT_RETRIES,default=50"`
	RestartInterval        time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval         time.Duration `env:"METRIC_INTERVAL,default=5s"`
	AuthSecret             string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration      time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	BroadcastRooms         string        `env:"BROADCAST_ROOMS,default=general"`
}

// BroadcastRoomNames splits BROADCAST_ROOMS on commas, dropping blanks.
func (c Config) BroadcastRoomNames() []string {
	names := lo.Map(strings.Split(c.BroadcastRooms, ","), func(name string, _ int) string {
		return strings.TrimSpace(name)
	})
	return lo.Compact(names)
}
