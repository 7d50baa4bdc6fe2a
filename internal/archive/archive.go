// Package archive stores the raw vendor pages fetched during a run in object
// storage, so a disputed summary can be replayed against the exact payloads
// that produced it.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Store writes raw API pages to an S3-compatible bucket. A nil *Store is a
// valid no-op, so runs work with archiving disabled.
type Store struct {
	client *minio.Client
	bucket string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create archive client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// StorePage saves one raw page. Archive failures are logged and swallowed;
// they never fail the run that produced the page.
func (s *Store) StorePage(ctx context.Context, store, businessDay, kind string, page int, payload []byte) {
	if s == nil {
		return
	}
	key := fmt.Sprintf("%s/%s/%s/page-%03d.json", store, businessDay, kind, page)
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to archive raw page")
		return
	}
	log.Debug().Str("key", key).Int("bytes", len(payload)).Msg("archived raw page")
}

// ListDay returns the archived object keys for one store and business day.
func (s *Store) ListDay(ctx context.Context, store, businessDay string) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	prefix := fmt.Sprintf("%s/%s/", store, businessDay)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	keys := []string{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archive objects: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}
