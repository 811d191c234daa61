package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/timecheck/internal/common"
	sc "github.com/dmitrijs2005/timecheck/internal/server/config"
	"github.com/dmitrijs2005/timecheck/internal/server/export"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ExportURLValidity is how long a presigned download link stays usable.
const ExportURLValidity = 15 * time.Minute

// AWS entry points, swapped out in tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportResult locates an uploaded export.
type ExportResult struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// ExportService renders a user's records and uploads them to object storage.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{db: db, repomanager: m, config: cfg, now: time.Now}
}

// ExportKey builds the object key for an export made at t.
func ExportKey(userID string, t time.Time, ext string) string {
	t = t.UTC()
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.%s", userID, t.Year(), t.Month(), t.Day(), uuid.New(), ext)
}

func (s *ExportService) s3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export snapshots every live task and time entry of userID in format
// ("json" or "csv"), stores it and returns a presigned download link.
func (s *ExportService) Export(ctx context.Context, userID, format string) (*ExportResult, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	contentType, err := export.ContentType(format)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repomanager.Tasks(s.db).SelectUpdated(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	entries, err := s.repomanager.TimeEntries(s.db).SelectUpdated(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("select time entries: %w", err)
	}

	now := s.now()
	var buf bytes.Buffer
	if err := export.Render(&buf, format, export.Snapshot{ExportedAt: now, Tasks: tasks, TimeEntries: entries}); err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	client, err := s.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := ExportKey(userID, now, format)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportURLValidity))
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	return &ExportResult{Key: key, URL: req.URL, ExpiresAt: now.Add(ExportURLValidity)}, nil
}
