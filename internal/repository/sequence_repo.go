package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"rentalhub/internal/model"

	"gorm.io/gorm"
)

// SequenceRepository hands out document numbers of the form
// PREFIX-YYYYMMDD-NNNNN, one counter per prefix per day.
type SequenceRepository interface {
	NextNumber(ctx context.Context, prefix string, now time.Time) (string, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) NextNumber(ctx context.Context, prefix string, now time.Time) (string, error) {
	db := GetDB(ctx, r.db)
	dateKey := now.Format("20060102")

	// Advisory lock keyed on the prefix serializes concurrent allocations
	// for the same document type within the transaction.
	if err := db.Exec("SELECT pg_advisory_xact_lock(?)", lockKey(prefix)).Error; err != nil {
		return "", err
	}

	seq := model.DocumentSequence{Prefix: prefix, DateKey: dateKey}
	if err := db.Where(&seq).FirstOrCreate(&seq).Error; err != nil {
		return "", err
	}
	seq.LastValue++
	if err := db.Save(&seq).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", prefix, dateKey, seq.LastValue), nil
}

func lockKey(prefix string) int64 {
	h := fnv.New32a()
	h.Write([]byte(prefix))
	return int64(h.Sum32())
}
