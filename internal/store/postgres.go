package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Fork0n/open-hoot/internal/models"
)

// SessionRecord is the row backing one session document. The document is
// stored whole as jsonb; version implements optimistic concurrency for
// TransactionalUpdate.
type SessionRecord struct {
	Code      string         `gorm:"primaryKey;size:6"`
	Doc       datatypes.JSON `gorm:"type:jsonb;not null"`
	Version   int64          `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostgresStore is the production SessionStore, one jsonb document per
// session with version-checked updates.
type PostgresStore struct {
	db *gorm.DB

	// maxAttempts bounds the optimistic-retry loop before the update is
	// reported as aborted.
	maxAttempts int
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db, maxAttempts: 5}
}

func (p *PostgresStore) Get(ctx context.Context, code string) (*models.Session, error) {
	var rec SessionRecord
	err := p.db.WithContext(ctx).First(&rec, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", code, err)
	}
	return decodeDoc(rec.Doc)
}

func (p *PostgresStore) CreateIfAbsent(ctx context.Context, code string, value *models.Session) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", code, err)
	}

	rec := SessionRecord{Code: code, Doc: doc, Version: 1}
	err = p.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create session %s: %w", code, err)
	}
	return nil
}

func (p *PostgresStore) TransactionalUpdate(ctx context.Context, code string, fn UpdateFunc) (*models.Session, error) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		var rec SessionRecord
		err := p.db.WithContext(ctx).First(&rec, "code = ?", code).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", code, err)
		}

		next, err := decodeDoc(rec.Doc)
		if err != nil {
			return nil, err
		}
		if err := fn(next); err != nil {
			return nil, err
		}

		doc, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("encode session %s: %w", code, err)
		}

		res := p.db.WithContext(ctx).Model(&SessionRecord{}).
			Where("code = ? AND version = ?", code, rec.Version).
			Updates(map[string]any{"doc": datatypes.JSON(doc), "version": rec.Version + 1})
		if res.Error != nil {
			return nil, fmt.Errorf("update session %s: %w", code, res.Error)
		}
		if res.RowsAffected == 1 {
			return next, nil
		}
		// Version moved under us; re-read and re-apply fn.
	}
	return nil, ErrContention
}

func decodeDoc(doc datatypes.JSON) (*models.Session, error) {
	var s models.Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("decode session document: %w", err)
	}
	if s.Players == nil {
		s.Players = make(map[string]models.Player)
	}
	if s.Scores == nil {
		s.Scores = make(map[string]int)
	}
	if s.Streaks == nil {
		s.Streaks = make(map[string]int)
	}
	if s.Answered == nil {
		s.Answered = make(map[string]int)
	}
	return &s, nil
}
