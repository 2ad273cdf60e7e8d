package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/omoarwwa-coder/ayman-ai/utils"
)

// presignTTL is the longest validity SigV4 allows.
const presignTTL = 7 * 24 * time.Hour

// ImageArchive keeps a copy of scanned product photos and returns the URL
// they are served from.
type ImageArchive interface {
	Archive(ctx context.Context, data []byte, contentType string) (string, error)
}

type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3PresignGetAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Archive stores photos as private objects. They are served through the
// CloudFront distribution when one is configured, otherwise through a
// presigned GET URL.
type S3Archive struct {
	client    s3PutObjectAPI
	presigner s3PresignGetAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewS3Archive loads the default AWS credential chain for the region.
func NewS3Archive(ctx context.Context, bucket, region, publicURL string) (*S3Archive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return newS3Archive(client, s3.NewPresignClient(client), bucket, publicURL), nil
}

func newS3Archive(client s3PutObjectAPI, presigner s3PresignGetAPI, bucket, publicURL string) *S3Archive {
	return &S3Archive{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

func (a *S3Archive) Archive(ctx context.Context, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = utils.DefaultImageMIME
	}
	now := a.now()
	key := fmt.Sprintf("scans/%s/%d%s",
		utils.DayKey(now),
		now.UnixNano(),
		utils.ExtensionFor(contentType),
	)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if a.publicURL != "" {
		return fmt.Sprintf("%s/%s", a.publicURL, key), nil
	}
	req, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}
