package clientcache

import (
	"fmt"
	"sync"

	"s3bridge/core/metrics"
	"s3bridge/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Builder constructs the client for a missing key.
type Builder func() (storage.Client, error)

// Cache maps resolved configurations to storage clients.
type Cache struct {
	mu      sync.RWMutex
	clients map[Key]storage.Client
	sf      singleflight.Group
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates an empty cache. m may be nil.
func New(logger *zap.Logger, m *metrics.Metrics) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		clients: make(map[Key]storage.Client),
		logger:  logger,
		metrics: m,
	}
}

// GetOrCreate returns the client cached under key, building it with build on a miss.
func (c *Cache) GetOrCreate(key Key, build Builder) (storage.Client, error) {
	// Fast path
	if client, ok := c.lookup(key); ok {
		c.metrics.CacheLookup(true)
		return client, nil
	}
	c.metrics.CacheLookup(false)

	result, err, _ := c.sf.Do(key.id(), func() (interface{}, error) {
		// Another flight may have published the client after our lookup.
		if client, ok := c.lookup(key); ok {
			return client, nil
		}

		l := c.logger.With(
			zap.String("endpoint", key.Endpoint),
			zap.String("access_key", key.AccessKey),
			zap.String("region", key.Region),
		)
		l.Debug("Building storage client")

		client, err := build()
		c.metrics.ClientBuilt(err)
		if err != nil {
			l.Warn("Storage client build failed", zap.Error(err))
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("client builder returned no client")
		}

		c.mu.Lock()
		c.clients[key] = client
		size := len(c.clients)
		c.mu.Unlock()

		c.metrics.SetCachedClients(size)
		l.Debug("Storage client cached", zap.Int("cached_clients", size))
		return client, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(storage.Client), nil
}

// Len returns the number of cached clients.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients)
}

func (c *Cache) lookup(key Key) (storage.Client, bool) {
	c.mu.RLock()
	client, ok := c.clients[key]
	c.mu.RUnlock()
	return client, ok
}
