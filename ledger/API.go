package ledger

import "log"
import "github.com/AbuOrstho/fin-assistant/botcfg"

// NewLedgerFromConfig wires the production stores: the Redis-backed owner
// registry and the file-backed grid and log under the configured data dir.
func NewLedgerFromConfig(cfg botcfg.Config) *Ledger {
	log.Printf("Connecting to the owner registry at redis '%s' (db %d); data dir: %s", cfg.Redis.Server, cfg.Redis.DB, cfg.Storage.Dir)
	registry := NewRedisRegistry(cfg.Redis.Server, cfg.Redis.DB, cfg.Redis.Pass)
	schema := NewCategorySchema()
	grid := NewAggregateStore(cfg.Storage.Dir, schema)
	records := NewLogStore(cfg.Storage.Dir)
	return NewLedger(registry, schema, grid, records)
}
