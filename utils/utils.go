package utils

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"outreach-portal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func ComparePasswords(hashedPassword string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), password) == nil
}

// PictureKey builds a collision-resistant object key: concurrent uploads of
// the same filename must never overwrite each other.
func PictureKey(originalFilename string) string {
	base := filepath.Base(originalFilename)
	return fmt.Sprintf("picture-%d-%s-%s", time.Now().Unix(), uuid.NewString()[:8], base)
}

func s3Client(cfg *config.Config) (*s3.S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create AWS session")
	}
	return s3.New(sess), nil
}

// UploadFileToS3 stores the file under key with public-read visibility and
// returns the directly usable URL.
func UploadFileToS3(cfg *config.Config, file multipart.File, key string) (string, error) {
	svc, err := s3Client(cfg)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", errors.Wrap(err, "read file buffer")
	}

	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(cfg.S3Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
		ACL:    aws.String("public-read"),
	})
	if err != nil {
		return "", errors.Wrap(err, "upload file to S3")
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.S3Bucket, cfg.AWSRegion, key), nil
}

func DeleteFileFromS3(cfg *config.Config, fileURL string) error {
	svc, err := s3Client(cfg)
	if err != nil {
		return err
	}

	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.S3Bucket, cfg.AWSRegion)
	key := strings.TrimPrefix(fileURL, prefix)

	_, err = svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(cfg.S3Bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "delete file from S3")
}

func StrToInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func NullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
