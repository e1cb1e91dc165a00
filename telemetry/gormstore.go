package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// eventRecord is the SQLite row for one persisted event. The full
// event rides along as JSON so the record survives schema drift in the
// attribute set.
type eventRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	EventID   string `gorm:"size:36;uniqueIndex"`
	Name      string `gorm:"size:255;index"`
	Record    string
	CreatedAt time.Time
}

func (eventRecord) TableName() string { return "telemetry_events" }

// GormStore persists events to a local SQLite database. This is the
// durable on-device store; appends are serialized by a writer lock on
// top of the driver's own transaction.
type GormStore struct {
	mu     sync.Mutex
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore opens (or creates) the SQLite database at path and
// migrates the event table. Use ":memory:" for tests.
func NewGormStore(path string, logger *zap.Logger) (*GormStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open telemetry database: %w", err)
	}
	if err := db.AutoMigrate(&eventRecord{}); err != nil {
		return nil, fmt.Errorf("migrate telemetry schema: %w", err)
	}
	logger.Info("telemetry store opened",
		zap.String("component", "telemetry_store"), zap.String("path", path))
	return &GormStore{db: db, logger: logger}, nil
}

func (s *GormStore) Append(event Event) error {
	record, err := event.MarshalRecord()
	if err != nil {
		return fmt.Errorf("marshal telemetry event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	row := eventRecord{
		EventID:   event.ID,
		Name:      event.Name,
		Record:    string(record),
		CreatedAt: event.Timestamp,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

func (s *GormStore) Events() ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []eventRecord
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read telemetry events: %w", err)
	}
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		var e Event
		if err := json.Unmarshal([]byte(row.Record), &e); err != nil {
			return nil, fmt.Errorf("corrupt telemetry record %d: %w", row.ID, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *GormStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
