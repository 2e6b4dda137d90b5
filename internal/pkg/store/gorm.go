package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/database"
)

// Entry is one key/value row
type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:512"`
	Value     []byte    `gorm:"column:entry_value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (Entry) TableName() string {
	return "kv_entries"
}

// Gorm stores entries in the kv_entries table
type Gorm struct {
	db *gorm.DB
}

// NewGorm migrates the entry table and returns the store
func NewGorm(db *database.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Gorm{db: db.DB}, nil
}

func (g *Gorm) Get(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := g.db.WithContext(ctx).Where("entry_key = ?", key).Take(&e).Error
	if database.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: db get %s: %w", key, err)
	}
	return e.Value, nil
}

func (g *Gorm) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("store: db set %s: %w", key, err)
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := g.db.WithContext(ctx).Where("entry_key IN ?", keys).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("store: db delete: %w", err)
	}
	return nil
}

func (g *Gorm) Keys(ctx context.Context, prefix string) ([]string, error) {
	var rows []string
	err := g.db.WithContext(ctx).Model(&Entry{}).
		Where("entry_key LIKE ? ESCAPE '\\'", likePrefix(prefix)).
		Pluck("entry_key", &rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: db keys %s: %w", prefix, err)
	}

	// LIKE is case-insensitive on sqlite and collation-ordered on postgres
	keys := make([]string, 0, len(rows))
	for _, k := range rows {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
