package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/logging"
	"github.com/centrinote/centrinote/internal/server/config"
	"github.com/centrinote/centrinote/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// PresignedURL is a temporary link into recording storage.
type PresignedURL struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RecordingService hands out presigned storage URLs for meeting recordings.
type RecordingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	meetings    *MeetingService
	logger      logging.Logger
	now         func() time.Time
}

func NewRecordingService(db *sql.DB, rm repomanager.RepositoryManager, meetings *MeetingService,
	cfg *config.Config, logger logging.Logger) *RecordingService {
	return &RecordingService{
		db:          db,
		repomanager: rm,
		config:      cfg,
		meetings:    meetings,
		logger:      logger.With("module", "recordings"),
		now:         time.Now,
	}
}

// RecordingStorageKey returns a fresh object key for a user's recording.
func RecordingStorageKey(userID string, at time.Time) string {
	return fmt.Sprintf("recordings/%s/%04d/%02d/%02d/%v", userID, at.Year(), int(at.Month()), at.Day(), uuid.New())
}

func (s *RecordingService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	if !s.config.StorageConfigured() {
		return nil, fmt.Errorf("recording storage: %w", common.ErrNotConfigured)
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// UploadURL reserves a storage key for the meeting's recording, records it
// on the meeting and returns a presigned PUT URL.
func (s *RecordingService) UploadURL(ctx context.Context, userID, meetingID string) (*PresignedURL, error) {
	if _, err := s.meetings.Get(ctx, userID, meetingID); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := RecordingStorageKey(userID, s.now().UTC())

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	if err := s.repomanager.Meetings(s.db).SetRecordingKey(ctx, userID, meetingID, key); err != nil {
		s.logger.Error(ctx, "failed to save recording key", "user_id", userID, "meeting_id", meetingID, "error", err)
		return nil, fmt.Errorf("%w: save recording key: %v", common.ErrPersistence, err)
	}

	s.logger.Info(ctx, "recording upload url issued", "user_id", userID, "meeting_id", meetingID, "key", key)
	return &PresignedURL{
		Key:       key,
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: s.now().Add(s.config.PresignExpiry),
	}, nil
}

// DownloadURL returns a presigned GET URL for the meeting's recording, or
// common.ErrorNotFound when nothing was uploaded.
func (s *RecordingService) DownloadURL(ctx context.Context, userID, meetingID string) (*PresignedURL, error) {
	m, err := s.meetings.Get(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}
	if m.RecordingKey == "" {
		return nil, fmt.Errorf("recording: %w", common.ErrorNotFound)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := m.RecordingKey

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}

	return &PresignedURL{
		Key:       key,
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: s.now().Add(s.config.PresignExpiry),
	}, nil
}
