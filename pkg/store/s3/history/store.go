package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/models/store"
	"github.com/ledgercheck/finhealth/pkg/store/history"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	objectSuffix = ".json"
	fetchLimit   = 8
)

// API is the subset of the S3 client used by the store.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type Settings struct {
	// Bucket holding one JSON object per record
	Bucket string `mapstructure:"bucket"`
	// Key prefix (default: history)
	Prefix string `mapstructure:"prefix"`
	// AWS region (default: us-east-1)
	Region string `mapstructure:"region"`
	// Shared config profile, empty for the default chain
	Profile string `mapstructure:"profile"`
}

func DefaultSettings() Settings {
	return Settings{
		Prefix: "history",
		Region: "us-east-1",
	}
}

type objectStore struct {
	client API
	bucket string
	prefix string
}

func NewStore(client API, settings Settings) (history.Store, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if settings.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	return &objectStore{
		client: client,
		bucket: settings.Bucket,
		prefix: strings.Trim(settings.Prefix, "/"),
	}, nil
}

func (s *objectStore) key(id string) string {
	return path.Join(s.prefix, id+objectSuffix)
}

func (s *objectStore) Add(ctx context.Context, record store.HistoryRecord) error {
	key := s.key(record.ID)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err == nil {
		return fmt.Errorf("history record %s already exists", record.ID)
	}
	if !isNotFound(err) {
		return fmt.Errorf("check history record %s: %w", record.ID, err)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode history record %s: %w", record.ID, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put history record %s: %w", record.ID, err)
	}

	zerolog.Ctx(ctx).Debug().Str("bucket", s.bucket).Str("key", key).Msg("History record uploaded")
	return nil
}

func (s *objectStore) Get(ctx context.Context, id string) (*store.HistoryRecord, error) {
	return s.get(ctx, s.key(id), id)
}

func (s *objectStore) get(ctx context.Context, key, id string) (*store.HistoryRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("get history record %s: %w", id, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read history record %s: %w", id, err)
	}
	var record store.HistoryRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", history.ErrUnreadableRecord, id, err)
	}
	return &record, nil
}

// List fetches every record under the prefix and orders them by creation time.
func (s *objectStore) List(ctx context.Context, limit int) ([]store.HistoryRecord, error) {
	keys, err := s.listKeys(ctx)
	if err != nil {
		return nil, err
	}

	fetched := make([]*store.HistoryRecord, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for i, key := range keys {
		g.Go(func() error {
			id := strings.TrimSuffix(path.Base(key), objectSuffix)
			record, err := s.get(gctx, key, id)
			if errors.Is(err, history.ErrUnreadableRecord) {
				zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Skipping unreadable history record")
				return nil
			}
			if err != nil {
				return err
			}
			fetched[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]store.HistoryRecord, 0, len(fetched))
	for _, record := range fetched {
		if record != nil {
			records = append(records, *record)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *objectStore) listKeys(ctx context.Context) ([]string, error) {
	prefix := s.prefix
	if prefix != "" {
		prefix += "/"
	}

	var keys []string
	var continuationToken *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, fmt.Errorf("list history records: %w", err)
		}
		for _, obj := range out.Contents {
			if obj.Key != nil && strings.HasSuffix(*obj.Key, objectSuffix) {
				keys = append(keys, *obj.Key)
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuationToken = out.NextContinuationToken
	}
	return keys, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
