package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"calquiz-service/internal/domain"
	"go.uber.org/zap"
)

const (
	// LeaderboardKey is the single key the ranked list is persisted under.
	LeaderboardKey = "high_scores"
	// LeaderboardCapacity is the maximum number of records kept.
	LeaderboardCapacity = 10
	// RecordDateLayout formats ScoreRecord.Date as "YYYY-MM-DD HH:MM:SS".
	RecordDateLayout = "2006-01-02 15:04:05"
)

// KeyValueStore is the durable storage the leaderboard is persisted in (memory, SQLite, Redis, Postgres).
// Get reports ok=false when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// Leaderboard is what the game service needs from the high-score list.
type Leaderboard interface {
	Load(ctx context.Context) ([]domain.ScoreRecord, error)
	Submit(ctx context.Context, record domain.ScoreRecord) (bool, error)
	Best(ctx context.Context) (domain.ScoreRecord, bool, error)
}

// LeaderboardStore keeps the top records as one JSON document in a KeyValueStore.
type LeaderboardStore struct {
	kv  KeyValueStore
	key string
	log *zap.Logger

	// serializes load-modify-persist within this process
	mu sync.Mutex
}

func NewLeaderboardStore(kv KeyValueStore, log *zap.Logger) *LeaderboardStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeaderboardStore{kv: kv, key: LeaderboardKey, log: log}
}

// Load returns the persisted list, or an empty one when nothing was stored yet.
// Malformed data is logged and treated as empty.
func (l *LeaderboardStore) Load(ctx context.Context) ([]domain.ScoreRecord, error) {
	raw, ok, err := l.kv.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	if !ok || len(raw) == 0 {
		return []domain.ScoreRecord{}, nil
	}
	var records []domain.ScoreRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		l.log.Warn("discarding malformed leaderboard", zap.String("key", l.key), zap.Error(err))
		return []domain.ScoreRecord{}, nil
	}
	if records == nil {
		records = []domain.ScoreRecord{}
	}
	return records, nil
}

// Submit inserts a record, keeps the top LeaderboardCapacity and persists the result.
// Records with a blank name are rejected without touching storage.
func (l *LeaderboardStore) Submit(ctx context.Context, record domain.ScoreRecord) (bool, error) {
	record.Name = strings.TrimSpace(record.Name)
	if record.Name == "" {
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.Load(ctx)
	if err != nil {
		return false, err
	}
	ranked := RankRecords(current, record, LeaderboardCapacity)
	data, err := json.Marshal(ranked)
	if err != nil {
		return false, fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := l.kv.Put(ctx, l.key, data); err != nil {
		return false, fmt.Errorf("persist leaderboard: %w", err)
	}
	l.log.Info("score recorded",
		zap.String("name", record.Name),
		zap.Int("score", record.Score),
		zap.Int64("total_time", record.TotalTime),
		zap.Int("entries", len(ranked)),
	)
	return true, nil
}

// Best returns the top record of the stored list.
func (l *LeaderboardStore) Best(ctx context.Context) (domain.ScoreRecord, bool, error) {
	records, err := l.Load(ctx)
	if err != nil {
		return domain.ScoreRecord{}, false, err
	}
	best, ok := BestRecord(records)
	return best, ok, nil
}

// RankRecords appends record, sorts by score descending keeping insertion order for ties,
// and truncates to capacity. The input slice is not modified.
func RankRecords(records []domain.ScoreRecord, record domain.ScoreRecord, capacity int) []domain.ScoreRecord {
	ranked := make([]domain.ScoreRecord, 0, len(records)+1)
	ranked = append(ranked, records...)
	ranked = append(ranked, record)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if capacity > 0 && len(ranked) > capacity {
		ranked = ranked[:capacity]
	}
	return ranked
}

// BestRecord returns the highest score, first found wins on ties.
func BestRecord(records []domain.ScoreRecord) (domain.ScoreRecord, bool) {
	if len(records) == 0 {
		return domain.ScoreRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best, true
}

// NewScoreRecord stamps a result with the local wall-clock date.
func NewScoreRecord(name string, score int, totalTime int64, at time.Time) domain.ScoreRecord {
	return domain.ScoreRecord{
		Name:      name,
		Score:     score,
		Date:      at.Format(RecordDateLayout),
		TotalTime: totalTime,
	}
}
