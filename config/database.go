package config

import (
	"context"
	"fmt"

	"github.com/faunapedia/api-go/store"
	"github.com/faunapedia/api-go/store/memstore"
	"github.com/faunapedia/api-go/store/mongostore"
	"github.com/faunapedia/api-go/store/pgstore"
)

// OpenStore connects the backend selected by StoreDriver and prepares its
// schema or indexes.
func OpenStore(ctx context.Context, c *Config) (store.Store, error) {
	switch c.StoreDriver {
	case DriverMongo:
		s, err := mongostore.Connect(ctx, c.MongoURI, c.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(context.Background())
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := pgstore.Open(c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close(context.Background())
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return s, nil
	case DriverMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
}
