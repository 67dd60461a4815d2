package objects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"s3bridge/core/bridge"
	"s3bridge/core/clientcache"
	"s3bridge/core/credentials"
	"s3bridge/core/failure"
	"s3bridge/core/metrics"
	"s3bridge/core/storage"

	"go.uber.org/zap"
)

// Operation names used in failures, logs and metrics.
const (
	OpHeadObject   = "HeadObject"
	OpCreateBucket = "CreateBucket"
	OpPutObject    = "PutObject"
	OpGetObject    = "GetObject"
)

// Service runs object operations against S3-compatible backends.
type Service struct {
	cfg      storage.Config
	resolver *credentials.Resolver
	cache    *clientcache.Cache
	bridge   *bridge.Bridge
	factory  storage.Factory
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a new object service.
func NewService(cfg storage.Config, resolver *credentials.Resolver, cache *clientcache.Cache, br *bridge.Bridge, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		resolver: resolver,
		cache:    cache,
		bridge:   br,
		factory:  storage.NewClient,
		metrics:  m,
		logger:   logger,
	}
}

// WithFactory replaces the storage client constructor.
func (s *Service) WithFactory(f storage.Factory) *Service {
	s.factory = f
	return s
}

// ObjectExists reports whether bucket/key exists.
func (s *Service) ObjectExists(bucket, key string, o credentials.Overrides) (bool, error) {
	start := time.Now()

	exists, err := s.objectExists(bucket, key, o)
	s.observe(OpHeadObject, bucket, key, start, err)
	return exists, err
}

func (s *Service) objectExists(bucket, key string, o credentials.Overrides) (bool, error) {
	client, err := s.client(OpHeadObject, o)
	if err != nil {
		return false, err
	}

	_, err = bridge.Run(s.bridge, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.HeadObject(ctx, bucket, key)
	})
	if err == nil {
		return true, nil
	}
	if fe := passthrough(OpHeadObject, err); fe != nil {
		return false, fe.On(bucket, key)
	}

	switch storage.Classify(err).Fault {
	case storage.FaultNotFound:
		return false, nil
	case storage.FaultAccessDenied:
		msg := fmt.Sprintf("AccessDenied for s3://%s/%s (check credentials/policy)", bucket, key)
		return false, failure.Wrap(failure.KindAccessDenied, OpHeadObject, msg, err).On(bucket, key)
	default:
		return false, failure.Wrap(failure.KindBackend, OpHeadObject, "S3 HeadObject error", err).On(bucket, key)
	}
}

// CreateBucket creates bucket. An already existing bucket is reported as a failure.
func (s *Service) CreateBucket(bucket string, o credentials.Overrides) (bool, error) {
	start := time.Now()

	created, err := s.createBucket(bucket, o)
	s.observe(OpCreateBucket, bucket, "", start, err)
	return created, err
}

func (s *Service) createBucket(bucket string, o credentials.Overrides) (bool, error) {
	client, err := s.client(OpCreateBucket, o)
	if err != nil {
		return false, err
	}

	_, err = bridge.Run(s.bridge, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.CreateBucket(ctx, bucket)
	})
	if err != nil {
		return false, mapWriteError(OpCreateBucket, "CreateBucket failed", err).On(bucket, "")
	}
	return true, nil
}

// PutObject uploads data to bucket/key and returns the ETag without quotes.
// A nil contentType leaves the header unset.
func (s *Service) PutObject(bucket, key string, data []byte, o credentials.Overrides, contentType *string) (string, error) {
	start := time.Now()

	etag, err := s.putObject(bucket, key, data, o, contentType)
	s.observe(OpPutObject, bucket, key, start, err)
	return etag, err
}

func (s *Service) putObject(bucket, key string, data []byte, o credentials.Overrides, contentType *string) (string, error) {
	client, err := s.client(OpPutObject, o)
	if err != nil {
		return "", err
	}

	var ct string
	if contentType != nil {
		ct = *contentType
	}

	etag, err := bridge.Run(s.bridge, func(ctx context.Context) (string, error) {
		return client.PutObject(ctx, bucket, key, data, ct)
	})
	if err != nil {
		return "", mapWriteError(OpPutObject, "PutObject failed", err).On(bucket, key)
	}
	return etag, nil
}

// GetObject downloads bucket/key in full.
func (s *Service) GetObject(bucket, key string, o credentials.Overrides) ([]byte, error) {
	start := time.Now()

	data, err := s.getObject(bucket, key, o)
	s.observe(OpGetObject, bucket, key, start, err)
	return data, err
}

func (s *Service) getObject(bucket, key string, o credentials.Overrides) ([]byte, error) {
	client, err := s.client(OpGetObject, o)
	if err != nil {
		return nil, err
	}

	data, err := bridge.Run(s.bridge, func(ctx context.Context) ([]byte, error) {
		return client.GetObject(ctx, bucket, key)
	})
	if err == nil {
		return data, nil
	}
	if errors.Is(err, storage.ErrBodyCollect) {
		return nil, failure.Wrap(failure.KindBackend, OpGetObject, "Collect error", err).On(bucket, key)
	}
	return nil, mapWriteError(OpGetObject, "GetObject failed", err).On(bucket, key)
}

// client resolves the overrides and returns the cached client for them.
func (s *Service) client(op string, o credentials.Overrides) (storage.Client, error) {
	resolved, err := s.resolver.Resolve(o)
	if err != nil {
		var fe *failure.Error
		if errors.As(err, &fe) {
			fe.Op = op
			return nil, fe
		}
		return nil, failure.Wrap(failure.KindConfig, op, "credential resolution failed", err)
	}

	key := clientcache.Key{
		Endpoint:  resolved.Endpoint,
		AccessKey: resolved.AccessKey,
		SecretKey: resolved.SecretKey,
		Region:    resolved.Region,
	}
	settings := storage.Settings{
		Endpoint:     resolved.Endpoint,
		AccessKey:    resolved.AccessKey,
		SecretKey:    resolved.SecretKey,
		SessionToken: resolved.SessionToken,
		Region:       resolved.Region,
	}

	client, err := s.cache.GetOrCreate(key, func() (storage.Client, error) {
		return bridge.Run(s.bridge, func(ctx context.Context) (storage.Client, error) {
			return s.factory(ctx, s.cfg, settings)
		})
	})
	if err != nil {
		if fe := passthrough(op, err); fe != nil {
			return nil, fe
		}
		return nil, failure.Wrap(failure.KindConfig, op, "Storage client configuration failed", err)
	}
	return client, nil
}

// passthrough returns err as a failure when it is one already or when the
// bridge refused to run it. It returns nil for plain backend errors.
func passthrough(op string, err error) *failure.Error {
	if errors.Is(err, bridge.ErrClosed) {
		return failure.Wrap(failure.KindDispatch, op, "Dispatch failure", err)
	}
	var fe *failure.Error
	if errors.As(err, &fe) {
		if fe.Op == "" {
			fe.Op = op
		}
		return fe
	}
	return nil
}

// mapWriteError applies the policy shared by every operation except HeadObject:
// transport failures are dispatch failures, anything else is a backend error.
func mapWriteError(op, message string, err error) *failure.Error {
	if fe := passthrough(op, err); fe != nil {
		return fe
	}
	if storage.Classify(err).Fault == storage.FaultDispatch {
		return failure.Wrap(failure.KindDispatch, op, "Dispatch failure", err)
	}
	return failure.Wrap(failure.KindBackend, op, message, err)
}

func (s *Service) observe(op, bucket, key string, start time.Time, err error) {
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		kind, _ := failure.KindOf(err)
		outcome = kind.String()
	}
	s.metrics.ObserveOperation(op, outcome, elapsed)

	l := s.logger.With(
		zap.String("operation", op),
		zap.String("bucket", bucket),
		zap.Duration("elapsed", elapsed),
	)
	if key != "" {
		l = l.With(zap.String("key", key))
	}
	if err != nil {
		l.Warn("Object operation failed", zap.String("outcome", outcome), zap.Error(err))
		return
	}
	l.Debug("Object operation completed")
}
