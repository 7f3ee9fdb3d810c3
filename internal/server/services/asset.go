package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/ticketbox/internal/server/auth"
	"github.com/google/uuid"
)

const assetURLExpiry = 15 * time.Minute

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
)

// AssetUpload is a presigned PUT for box artwork or its metadata JSON.
type AssetUpload struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// AssetKey places an object under the box address so one box's assets
// never collide with another's.
func AssetKey(address string, now time.Time) string {
	return fmt.Sprintf("boxes/%s/%d/%02d/%02d/%v", address, now.Year(), now.Month(), now.Day(), uuid.New())
}

func (s *BoxService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
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

// RequestAssetUpload returns a presigned URL the creator uploads box assets
// to. The resulting object URL is what goes into the box InfoURI.
func (s *BoxService) RequestAssetUpload(ctx context.Context, caller, creator, boxID string) (*AssetUpload, error) {
	if err := auth.VerifySigner(caller, creator); err != nil {
		return nil, err
	}
	box, err := s.Get(ctx, creator, boxID)
	if err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bucket := s.config.S3Bucket
	key := AssetKey(box.Address, now)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(assetURLExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	s.logger.Info(ctx, "asset upload presigned", "box", box.ID, "key", key)
	return &AssetUpload{Key: key, URL: req.URL, ExpiresAt: now.Add(assetURLExpiry)}, nil
}
