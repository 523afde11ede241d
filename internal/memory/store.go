package memory

import (
	"context"
	"fmt"

	"github.com/easeaico/kb-chatbot/internal/config"
	"github.com/easeaico/kb-chatbot/internal/knowledge"
	"github.com/spf13/afero"
)

// Store defines the contract for knowledge snapshot persistence.
// It abstracts the storage layer behind the push and pull commands.
type Store interface {
	// Load merges every stored pair into kb, creating sections as needed,
	// and returns the number of pairs stored.
	Load(ctx context.Context, kb *knowledge.Base) (int, error)

	// Save replaces the stored snapshot with the current contents of kb.
	Save(ctx context.Context, kb *knowledge.Base) error

	// Close releases any resources held by the store.
	Close() error
}

// Open connects to the backend selected by cfg.Type. Database backends have
// their schema created before Open returns. fs is only used by the file backend.
func Open(ctx context.Context, cfg config.StoreConfig, fs afero.Fs) (Store, error) {
	switch cfg.Type {
	case config.StoreFile:
		return NewFileStore(fs, cfg.DSN), nil

	case config.StoreSQLite:
		store, err := NewSQLiteStore(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.InitSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil

	case config.StorePostgres:
		store, err := NewPostgresStore(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.InitSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
