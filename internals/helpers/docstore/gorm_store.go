// file: internals/helpers/docstore/gorm_store.go

package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one row of the documents table.
type Document struct {
	Collection string         `gorm:"column:collection;type:varchar(64);primaryKey" json:"collection"`
	DocKey     string         `gorm:"column:doc_key;type:varchar(191);primaryKey" json:"doc_key"`
	Data       datatypes.JSON `gorm:"column:data;type:jsonb;not null" json:"data"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, collection, key string, out any) (bool, error) {
	var doc Document
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND doc_key = ?", collection, key).
		Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("docstore get %s/%s: %w", collection, key, err)
	}
	if err := sonic.Unmarshal(doc.Data, out); err != nil {
		return false, fmt.Errorf("docstore decode %s/%s: %w", collection, key, err)
	}
	return true, nil
}

func (s *GormStore) Set(ctx context.Context, collection, key string, v any) error {
	doc, err := newDocument(collection, key, v)
	if err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "collection"},
			{Name: "doc_key"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"data":       doc.Data,
			"updated_at": doc.UpdatedAt,
		}),
	}).Create(doc).Error
	if err != nil {
		return fmt.Errorf("docstore set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *GormStore) Create(ctx context.Context, collection, key string, v any) error {
	doc, err := newDocument(collection, key, v)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("docstore create %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, collection, key string) error {
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND doc_key = ?", collection, key).
		Delete(&Document{}).Error
	if err != nil {
		return fmt.Errorf("docstore delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *GormStore) PurgeBefore(ctx context.Context, collection string, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("collection = ? AND updated_at < ?", collection, cutoff.UTC()).
		Delete(&Document{})
	if res.Error != nil {
		return 0, fmt.Errorf("docstore purge %s: %w", collection, res.Error)
	}
	return res.RowsAffected, nil
}

func newDocument(collection, key string, v any) (*Document, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore encode %s/%s: %w", collection, key, err)
	}
	now := time.Now().UTC()
	return &Document{
		Collection: collection,
		DocKey:     key,
		Data:       datatypes.JSON(raw),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SQLSTATE 23505
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}
