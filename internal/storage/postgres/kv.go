package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
)

// KVStore keeps cache entries in the local_cache table.
type KVStore struct {
	db        *sqlx.DB
	txManager *TransactionManager
}

func NewKVStore(db *sqlx.DB) *KVStore {
	return &KVStore{db: db, txManager: NewTransactionManager(db)}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &value,
		"SELECT value FROM local_cache WHERE key = $1", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO local_cache (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, key, string(value))
	return err
}

// SetMany writes all entries in one transaction.
func (s *KVStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, k := range keys {
			if err := s.Set(txCtx, k, entries[k]); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM local_cache WHERE key = $1", key)
	return err
}
