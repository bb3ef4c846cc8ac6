package repository

import (
	"context"

	"gorm.io/gorm"
)

// Table は名前付きテーブルに対する汎用の読み書き (get / getFirst / scan / insert) です。
// 各リポジトリはこれを組み合わせて使います。
type Table[T any] struct {
	name       string
	primaryKey string
}

func NewTable[T any](name, primaryKey string) Table[T] {
	return Table[T]{name: name, primaryKey: primaryKey}
}

func (t Table[T]) Name() string {
	return t.name
}

// Get は主キーで1件取得します。無ければ model.ErrNotFound。
func (t Table[T]) Get(ctx context.Context, db *gorm.DB, id any) (*T, error) {
	var row T
	err := db.WithContext(ctx).Table(t.name).Where(t.primaryKey+" = ?", id).First(&row).Error
	if err != nil {
		return nil, translate("Table["+t.name+"].Get", err)
	}
	return &row, nil
}

// GetFirst は条件に合う最初の1件。order が空なら主キー順。
func (t Table[T]) GetFirst(ctx context.Context, db *gorm.DB, order string, query string, args ...any) (*T, error) {
	if order == "" {
		order = t.primaryKey
	}
	var row T
	err := db.WithContext(ctx).Table(t.name).Where(query, args...).Order(order).First(&row).Error
	if err != nil {
		return nil, translate("Table["+t.name+"].GetFirst", err)
	}
	return &row, nil
}

// Scan は条件に合うすべての行。query が空なら全件。
func (t Table[T]) Scan(ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	var rows []T
	tx := db.WithContext(ctx).Table(t.name)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, translate("Table["+t.name+"].Scan", err)
	}
	return rows, nil
}

// Insert は行を追加します。一意制約違反は model.ErrConflict。
func (t Table[T]) Insert(ctx context.Context, db *gorm.DB, rows ...*T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Table(t.name).Create(rows).Error; err != nil {
		return translate("Table["+t.name+"].Insert", err)
	}
	return nil
}
