package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"trainsurvey/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const statsCacheTTL = 60 * time.Second

// StatsService aggregates stored responses. Results are cached briefly in
// Redis per (configuration, gender filter); the service degrades to plain
// database aggregation when Redis is unavailable.
type StatsService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewStatsService(db *gorm.DB, redis *redis.Client) *StatsService {
	return &StatsService{db: db, redis: redis}
}

type ResponseStatistics struct {
	TrainConfigurationID uint           `json:"train_configuration_id"`
	TotalResponses       int            `json:"total_responses"`
	SeatSelections       int            `json:"seat_selections"`
	FloorSelections      int            `json:"floor_selections"`
	SelectionHeatmap     map[string]int `json:"selection_heatmap"`
}

// ComputeStatistics returns total/seat/floor counts and a heatmap keyed
// "row,col" for one configuration, optionally filtered by gender.
func (s *StatsService) ComputeStatistics(configID uint, gender string) (*ResponseStatistics, error) {
	if _, err := getConfiguration(s.db, configID); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("stats:%d:%s", configID, gender)
	if cached := s.getCachedStats(cacheKey); cached != nil {
		return cached, nil
	}

	query := s.db.Where("train_configuration_id = ?", configID)
	if gender != "" {
		query = query.Where("gender = ?", gender)
	}

	var responses []models.UserResponse
	if err := query.Find(&responses).Error; err != nil {
		return nil, err
	}

	stats := &ResponseStatistics{
		TrainConfigurationID: configID,
		SelectionHeatmap:     make(map[string]int),
	}
	for _, r := range responses {
		stats.TotalResponses++
		switch r.SelectionType {
		case "seat":
			stats.SeatSelections++
		case "floor":
			stats.FloorSelections++
		}
		stats.SelectionHeatmap[fmt.Sprintf("%d,%d", r.Row, r.Col)]++
	}

	s.storeCachedStats(cacheKey, stats)
	return stats, nil
}

// InvalidateConfiguration drops cached statistics after a new response.
func (s *StatsService) InvalidateConfiguration(configID uint) {
	if s.redis == nil {
		return
	}
	ctx := context.Background()
	pattern := fmt.Sprintf("stats:%d:*", configID)
	keys, err := s.redis.Keys(ctx, pattern).Result()
	if err != nil {
		log.Printf("Redis error scanning stats keys for configuration %d: %v", configID, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Redis error invalidating stats for configuration %d: %v", configID, err)
	}
}

func (s *StatsService) getCachedStats(key string) *ResponseStatistics {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(context.Background(), key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting %s: %v", key, err)
		}
		return nil
	}
	var stats ResponseStatistics
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		log.Printf("Failed to unmarshal cached stats for %s: %v", key, err)
		return nil
	}
	return &stats
}

func (s *StatsService) storeCachedStats(key string, stats *ResponseStatistics) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("Failed to marshal stats for %s: %v", key, err)
		return
	}
	if err := s.redis.Set(context.Background(), key, data, statsCacheTTL).Err(); err != nil {
		log.Printf("Redis error storing %s: %v", key, err)
	}
}
