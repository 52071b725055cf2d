package internal

import (
	"bytes"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// Uploader stores documents in a single bucket and hands out their
// public URLs.
type Uploader struct {
	client   s3iface.S3API
	bucket   string
	endpoint string
}

// Put uploads body under key and returns the object's public URL.
func (u *Uploader) Put(key string, body []byte, contentType string) (string, error) {
	_, err := u.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "put object %s/%s", u.bucket, key)
	}
	return u.URL(key), nil
}

func (u *Uploader) URL(key string) string {
	return strings.TrimRight(u.endpoint, "/") + "/" + u.bucket + "/" + key
}

func NewUploader(client s3iface.S3API, bucket string, endpoint string) *Uploader {
	return &Uploader{
		client:   client,
		bucket:   bucket,
		endpoint: endpoint,
	}
}
