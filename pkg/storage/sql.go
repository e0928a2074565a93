package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lnmedico/lnmedico-backend/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collectionRow maps the collections table created by pkg/migrate.
type collectionRow struct {
	Name      string `gorm:"primaryKey"`
	Document  string
	UpdatedAt time.Time
}

func (collectionRow) TableName() string { return "collections" }

// SQLBackend stores each collection as one row, replaced by an upsert.
type SQLBackend struct {
	client *db.Client
	now    func() time.Time
}

func NewSQLBackend(client *db.Client) (*SQLBackend, error) {
	if client == nil {
		return nil, errors.New("storage: db client required")
	}
	return &SQLBackend{client: client, now: time.Now}, nil
}

func (b *SQLBackend) Driver() string { return DriverSQL }

func (b *SQLBackend) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var row collectionRow
	err := b.client.DB().WithContext(ctx).Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	return []byte(row.Document), nil
}

func (b *SQLBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	row := collectionRow{Name: name, Document: string(data), UpdatedAt: b.now().UTC()}
	err := b.client.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", name, err)
	}
	return nil
}

func (b *SQLBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx)
}

func (b *SQLBackend) Close() error {
	return b.client.Close()
}
