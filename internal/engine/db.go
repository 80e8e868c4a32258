// Package engine wires the config, page pool, catalog, and request
// queue into the single running instance cmd/server starts.
package engine

import (
	"os"

	"github.com/tuannm99/slotdb/internal/catalog"
	"github.com/tuannm99/slotdb/internal/config"
	"github.com/tuannm99/slotdb/internal/pagepool"
	"github.com/tuannm99/slotdb/internal/reqqueue"
)

// queueCapacity bounds how many requests may sit pending before a
// producer's Push blocks.
const queueCapacity = 256

// Engine owns every long-lived component: the page pool and catalog
// (accessed exclusively by Worker once Start runs), and the request
// queue producers push onto.
type Engine struct {
	Config  *config.Config
	Pool    *pagepool.Pool
	Catalog *catalog.Catalog
	Queue   *reqqueue.Queue
	Worker  *reqqueue.Worker
}

// Open loads cfg's catalog and builds the engine's components. It does
// not start the worker goroutine; call Start for that.
func Open(cfg *config.Config) (*Engine, error) {
	pageSize := os.Getpagesize()
	pool := pagepool.NewPool(cfg.MaxMemoryPoolPageNum, pageSize)

	cat, err := catalog.Open(cfg.TableMetaDir, cfg.TableFileDir, pageSize, pool)
	if err != nil {
		return nil, err
	}

	queue := reqqueue.NewQueue(queueCapacity)
	worker := reqqueue.NewWorker(queue, cat)

	return &Engine{Config: cfg, Pool: pool, Catalog: cat, Queue: queue, Worker: worker}, nil
}

// Start runs the single request-serializing worker on its own goroutine.
func (e *Engine) Start() {
	go e.Worker.Run()
}

// Close stops accepting new requests and flushes every open table file.
func (e *Engine) Close() error {
	e.Queue.Close()
	return e.Catalog.Close()
}
