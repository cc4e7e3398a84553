package db

import (
	"context"
	"fmt"

	"github.com/JustinWhittecar/mekmount/internal/config"
)

// Open connects the snapshot store selected by cfg. The "none" backend
// returns a nil store. The returned func releases the connection.
func Open(ctx context.Context, cfg config.Snapshot) (SnapshotStore, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "postgres":
		s, err := Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "none":
		return nil, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
}
