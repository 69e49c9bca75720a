package services

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	sc "github.com/dmitrijs2005/mylibrary/internal/server/config"
	"github.com/google/uuid"
)

const pdfContentType = "application/pdf"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

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

// UploadTicket tells the client where to PUT a PDF. Key is what a book
// records as its documentKey; DocumentURL is a preview link that expires
// with the ticket.
type UploadTicket struct {
	Key         string
	UploadURL   string
	DocumentURL string
	ExpiresAt   time.Time
}

// AttachmentService hands out presigned S3 URLs for book PDFs. File bytes
// never pass through the server.
type AttachmentService struct {
	config *sc.Config
	logger logging.Logger
	newID  func() string
	now    func() time.Time
}

func NewAttachmentService(cfg *sc.Config, logger logging.Logger) *AttachmentService {
	return &AttachmentService{
		config: cfg,
		logger: logger.With("module", "attachments"),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

type uploadRequest struct {
	FileName    string `json:"fileName" validate:"omitempty,pdf_file"`
	ContentType string `json:"contentType" validate:"required,eq=application/pdf"`
	Size        int64  `json:"size" validate:"gt=0,ltefield=MaxSize"`
	MaxSize     int64  `json:"-"`
}

// StorageKey builds books/<writer>/<yyyy>/<mm>/<uuid>.pdf.
func StorageKey(writerID string, t time.Time, id string) string {
	return fmt.Sprintf("books/%s/%04d/%02d/%s.pdf", url.PathEscape(writerID), t.Year(), int(t.Month()), id)
}

// ownsDocument reports whether key lies under the writer's upload prefix.
func ownsDocument(writerID, key string) bool {
	return strings.HasPrefix(key, "books/"+url.PathEscape(writerID)+"/") && !strings.Contains(key, "..")
}

func (s *AttachmentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
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

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload validates the announced file and returns an upload ticket
// under the writer's own key prefix.
func (s *AttachmentService) PresignUpload(ctx context.Context, id *auth.Identity, fileName, contentType string, size int64) (*UploadTicket, error) {
	if id == nil {
		return nil, common.ErrUnauthenticated
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	if err := validateStruct(&uploadRequest{
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		MaxSize:     s.config.MaxPDFSize,
	}); err != nil {
		return nil, err
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		s.logger.Error(ctx, "s3 config failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	now := s.now().UTC()
	bucket := s.config.S3Bucket
	key := StorageKey(id.Identifier, now, s.newID())
	expires := s3.WithPresignExpires(s.config.PresignTTL)

	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		ContentType:   aws.String(pdfContentType),
		ContentLength: aws.Int64(size),
	}, expires)
	if err != nil {
		return nil, fmt.Errorf("presign put error: %w", err)
	}

	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key}, expires)
	if err != nil {
		return nil, fmt.Errorf("presign get error: %w", err)
	}

	s.logger.Info(ctx, "upload presigned", "writer", id.Identifier, "key", key, "size", size)
	return &UploadTicket{
		Key:         key,
		UploadURL:   put.URL,
		DocumentURL: get.URL,
		ExpiresAt:   now.Add(s.config.PresignTTL),
	}, nil
}

// PresignDownload returns a time-limited GET URL for a stored PDF.
func (s *AttachmentService) PresignDownload(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, "books/") || strings.Contains(key, "..") {
		return "", &ValidationError{Fields: map[string]string{"key": "is not a book document key"}}
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign get error: %w", err)
	}
	return req.URL, nil
}
