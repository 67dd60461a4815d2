// Package clientcache keeps one storage client per resolved configuration.
//
// The cache is keyed by endpoint, access key, secret key and region. The
// session token is deliberately left out of the key: calls that differ only in
// their token share the client built for the first of them, which keeps that
// first token. Clients are built lazily on the first miss and kept for the
// lifetime of the Cache; there is no eviction.
//
// # Concurrency
//
// Lookups take a read lock. Builds are deduplicated per key with
// singleflight, so N concurrent callers with the same key trigger exactly one
// build, while builds for different keys proceed in parallel. A failed build
// stores nothing and the next call retries.
//
// # Usage
//
//	cache := clientcache.New(logger, m)
//	client, err := cache.GetOrCreate(key, func() (storage.Client, error) {
//	    return storage.NewClient(ctx, cfg, settings)
//	})
package clientcache
