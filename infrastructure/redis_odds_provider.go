package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pickem/domain/entities"
	"pickem/domain/interfaces"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ConnectRedis creates a redis client and verifies the connection
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

// oddsQuote is the cached payload the odds feed writes per event market selection
type oddsQuote struct {
	AmericanOdds int       `json:"american_odds"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RedisOddsProvider reads the freshest quote the odds feed has written to
// redis. A missing key is not an error; callers fall back to the odds stored
// on the pick.
type RedisOddsProvider struct {
	rdb      *redis.Client
	maxStale time.Duration
}

// NewRedisOddsProvider creates an odds provider backed by redis
func NewRedisOddsProvider(rdb *redis.Client) interfaces.OddsProvider {
	return &RedisOddsProvider{
		rdb:      rdb,
		maxStale: 5 * time.Minute,
	}
}

func oddsKey(eventID int64, market entities.MarketType, selection string) string {
	return fmt.Sprintf("odds:event:%d:%s:%s", eventID, market, selection)
}

// CurrentOdds returns the latest quote for an event market selection. The
// second return is false when no fresh quote is known.
func (p *RedisOddsProvider) CurrentOdds(ctx context.Context, eventID int64, market entities.MarketType, selection string) (int, bool, error) {
	b, err := p.rdb.Get(ctx, oddsKey(eventID, market, selection)).Bytes()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read odds for event %d: %w", eventID, err)
	}

	var quote oddsQuote
	if err := json.Unmarshal(b, &quote); err != nil {
		log.WithFields(log.Fields{
			"eventID": eventID,
			"market":  market,
			"error":   err,
		}).Warn("Malformed odds quote in cache, treating as absent")
		return 0, false, nil
	}

	if !quote.UpdatedAt.IsZero() && time.Since(quote.UpdatedAt) > p.maxStale {
		return 0, false, nil
	}

	return quote.AmericanOdds, true, nil
}
