package sink

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SummaryRecord is one broker's summary for one timeslot, the SQLite
// shape of a CSV broker group.
type SummaryRecord struct {
	ID                  uint   `gorm:"primaryKey"`
	Game                string `gorm:"index"`
	Timeslot            int    `gorm:"index"`
	Broker              string `gorm:"index"`
	NetDemand           float64
	MarketQty           float64
	MarketCost          float64
	Imbalance           float64
	BalancingCost       float64
	MarketImbalanceCost float64
	EstimatedCost       float64
}

// SQLiteSink writes the summary table into a SQLite database, one record
// per broker per timeslot. Selected when the output path carries a
// .db/.sqlite suffix.
type SQLiteSink struct {
	db *gorm.DB
}

// NewSQLiteSink opens (or creates) the database and migrates the schema.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite output: %w", err)
	}
	if err := db.AutoMigrate(&SummaryRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite output: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// BeginHeader is a no-op; the migrated schema is the header.
func (s *SQLiteSink) BeginHeader(game string, brokers []string) error {
	return nil
}

// WriteRow inserts one record per broker group.
func (s *SQLiteSink) WriteRow(row Row) error {
	records := make([]SummaryRecord, len(row.Brokers))
	for i, b := range row.Brokers {
		records[i] = SummaryRecord{
			Game:                row.Game,
			Timeslot:            row.Timeslot,
			Broker:              b.Broker,
			NetDemand:           b.NetDemand,
			MarketQty:           b.MarketQty,
			MarketCost:          b.MarketCost,
			Imbalance:           b.Imbalance,
			BalancingCost:       b.BalancingCost,
			MarketImbalanceCost: b.MarketImbalanceCost,
			EstimatedCost:       b.EstimatedCost,
		}
	}
	if len(records) == 0 {
		return nil
	}
	return s.db.Create(&records).Error
}

// Close releases the underlying connection.
func (s *SQLiteSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
