package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// RateEventRecord is one emitted rate event written to the audit table.
// Origin distinguishes locally produced events from bus replications.
type RateEventRecord struct {
	ID        uint `gorm:"primaryKey"`
	EventType string
	Currency  string
	Rate      float64
	Platform  string
	Origin    string
	Timestamp time.Time
}

func (RateEventRecord) TableName() string {
	return "rate_events_log"
}

type RateEventLogger interface {
	LogRateEvent(ctx context.Context, record RateEventRecord) error
}

type PGRateEventLogger struct {
	db *gorm.DB
}

func NewPGRateEventLogger(db *gorm.DB) *PGRateEventLogger {
	return &PGRateEventLogger{db: db}
}

func (l *PGRateEventLogger) LogRateEvent(ctx context.Context, record RateEventRecord) error {
	return l.db.WithContext(ctx).Create(&record).Error
}
