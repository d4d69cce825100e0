package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/semla/internal/models"
)

const (
	taskKeyTpl       = "semla:%s"    // semla:${task}
	timeFieldTpl     = "time:%d"     // time:${week}
	feedbackFieldTpl = "feedback:%d" // feedback:${week}
)

type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithClient(client), nil
}

func NewWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client}
}

func (s *RedisStore) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

func (s *RedisStore) GetTime(task string, week int) (*float64, error) {
	raw, err := s.get(task, fmt.Sprintf(timeFieldTpl, week))
	if raw == nil || err != nil {
		return nil, err
	}
	seconds, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt submission %s/%d: %w", task, week, err)
	}
	return &seconds, nil
}

func (s *RedisStore) PutTime(sub models.Submission) error {
	key := fmt.Sprintf(taskKeyTpl, sub.Task)
	field := fmt.Sprintf(timeFieldTpl, sub.Week)
	value := strconv.FormatFloat(sub.Time, 'f', -1, 64)
	if err := s.redis.HSet(context.Background(), key, field, value).Err(); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

func (s *RedisStore) GetFeedback(task string, week int) (*int, error) {
	raw, err := s.get(task, fmt.Sprintf(feedbackFieldTpl, week))
	if raw == nil || err != nil {
		return nil, err
	}
	points, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt feedback %s/%d: %w", task, week, err)
	}
	return &points, nil
}

func (s *RedisStore) PutFeedback(fb models.Feedback) error {
	key := fmt.Sprintf(taskKeyTpl, fb.Task)
	field := fmt.Sprintf(feedbackFieldTpl, fb.Week)
	if err := s.redis.HSet(context.Background(), key, field, fb.Points).Err(); err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	return nil
}

func (s *RedisStore) get(task, field string) (*string, error) {
	key := fmt.Sprintf(taskKeyTpl, task)
	value, err := s.redis.HGet(context.Background(), key, field).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return &value, nil
}
