// Package data provides data access layer implementations: storage
// clients, the response cache, the request audit log, the contact
// directory and outbound webhook notifications.
package data

import (
	"CourtGate/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewRedisClient,
	NewMySQLClient,
)

// Data holds the shared storage clients.
type Data struct {
	rdb *redis.Client
	db  *gorm.DB
}

// NewData creates a new Data instance. Redis or MySQL being unavailable
// does not prevent startup; dependent features degrade gracefully.
func NewData(_ *conf.Data, logger log.Logger, rdb *redis.Client, db *gorm.DB) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	if rdb == nil {
		helper.Warn("Redis client is nil, response caching and breaker mirroring will be unavailable")
	}
	if db == nil {
		helper.Warn("MySQL client is nil, request audit log will be unavailable")
	}

	d := &Data{
		rdb: rdb,
		db:  db,
	}

	cleanup := func() {
		helper.Info("closing the data resources")
	}

	return d, cleanup, nil
}
