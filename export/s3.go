package export

import (
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// UploadDirToS3 uploads every regular file under dir to bucket, keyed by
// its path relative to dir, mirroring the teacher's cloud/bucket.go S3
// session setup but targeting the AWS SDK's own uploader directly rather
// than the gocloud.dev blob abstraction, since export only ever writes to
// S3 and never reads back from it.
func UploadDirToS3(dir, bucket, region string) error {
	if region == "" {
		region = "us-east-2"
	}
	cfg := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return errs.Wrap(errs.IO, "export.UploadDirToS3", "creating AWS session", err)
	}
	uploader := s3manager.NewUploader(sess)

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errs.Wrap(errs.IO, "export.UploadDirToS3", "walking "+path, err)
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return errs.Wrap(errs.IO, "export.UploadDirToS3", "computing relative path", err)
		}
		f, err := os.Open(path)
		if err != nil {
			return errs.Wrap(errs.IO, "export.UploadDirToS3", "opening "+path, err)
		}
		defer f.Close()

		_, err = uploader.Upload(&s3manager.UploadInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(filepath.ToSlash(rel)),
			Body:   f,
		})
		if err != nil {
			return errs.Wrap(errs.IO, "export.UploadDirToS3", "uploading "+rel, err)
		}
		return nil
	})
}
