package core

import (
	"context"

	"github.com/anoixa/snapi/cache"
	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/storage"
)

func checkDatabaseHealth(provider database.Provider) string {
	if provider == nil {
		return "not initialized"
	}

	if err := provider.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkCacheHealth(provider cache.Provider) string {
	if provider == nil {
		return "not initialized"
	}

	ctx := context.Background()
	if _, err := provider.Exists(ctx, "health:probe"); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func checkStorageHealth(storageFactory *storage.Factory) string {
	if storageFactory == nil {
		return "not initialized"
	}

	provider := storageFactory.GetDefault()
	if provider == nil {
		return "error: no default storage provider"
	}

	ctx := context.Background()
	if err := provider.Health(ctx); err != nil {
		return "error: " + err.Error()
	}

	return "ok"
}
