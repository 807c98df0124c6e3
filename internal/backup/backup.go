// Package backup uploads encrypted snapshots of the chore database to
// S3-compatible storage and restores them before the server starts.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const keyPrefix = "backups/"

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config holds S3 target and encryption settings for backups.
type Config struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Passphrase string
	DBPath     string
}

// Manager runs encrypted database backups. A manager with incomplete
// configuration is disabled and every Run is a no-op.
type Manager struct {
	mu     sync.Mutex
	cfg    Config
	db     *sql.DB
	client s3Client
	logger *slog.Logger

	lastRun time.Time
}

func NewManager(cfg Config, db *sql.DB, logger *slog.Logger) *Manager {
	m := &Manager{cfg: cfg, db: db, logger: logger}
	if m.Enabled() {
		m.client = newS3Client(cfg)
	}
	return m
}

// Enabled reports whether backups are fully configured.
func (m *Manager) Enabled() bool {
	return m.cfg.Bucket != "" && m.cfg.AccessKey != "" && m.cfg.SecretKey != "" && m.cfg.Passphrase != ""
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// LastRun returns the completion time of the most recent successful backup.
func (m *Manager) LastRun() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRun
}

// Run checkpoints the WAL, copies the database, encrypts the copy with a
// fresh salt, and uploads it. Returns the object key.
func (m *Manager) Run(ctx context.Context) (string, error) {
	if !m.Enabled() {
		return "", nil
	}

	timestamp := time.Now().UTC().Format("2006-01-02T150405Z")
	key := fmt.Sprintf("%sbackup-%s.db.enc", keyPrefix, timestamp)

	tmpDir := os.TempDir()
	dbCopy := filepath.Join(tmpDir, fmt.Sprintf("choreboard-backup-%s.db", timestamp))
	encFile := dbCopy + ".enc"
	defer os.Remove(dbCopy)
	defer os.Remove(encFile)

	if _, err := m.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return "", fmt.Errorf("wal checkpoint: %w", err)
	}
	if err := copyFile(m.cfg.DBPath, dbCopy); err != nil {
		return "", fmt.Errorf("copy database: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}
	if err := EncryptFile(dbCopy, encFile, m.cfg.Passphrase, salt); err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	encData, err := os.Open(encFile)
	if err != nil {
		return "", fmt.Errorf("open encrypted file: %w", err)
	}
	defer encData.Close()
	stat, err := encData.Stat()
	if err != nil {
		return "", fmt.Errorf("stat encrypted file: %w", err)
	}

	if _, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.Bucket),
		Key:           aws.String(key),
		Body:          encData,
		ContentLength: aws.Int64(stat.Size()),
	}); err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	m.mu.Lock()
	m.lastRun = time.Now().UTC()
	m.mu.Unlock()

	m.logger.Info("backup uploaded", "key", key, "size_bytes", stat.Size())
	return key, nil
}

// LatestKey returns the newest backup object key, or "" when none exist.
func (m *Manager) LatestKey(ctx context.Context) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("backup not configured")
	}

	out, err := m.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.Bucket),
		Prefix: aws.String(keyPrefix),
	})
	if err != nil {
		return "", fmt.Errorf("list backups: %w", err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	if len(keys) == 0 {
		return "", nil
	}
	// Timestamped names sort chronologically.
	sort.Strings(keys)
	return keys[len(keys)-1], nil
}

// Restore downloads the named backup, decrypts it, verifies integrity, and
// replaces the database file. The database must not be open.
func (m *Manager) Restore(ctx context.Context, key string) error {
	if !m.Enabled() {
		return fmt.Errorf("backup not configured")
	}

	tmpDir := os.TempDir()
	encFile := filepath.Join(tmpDir, "choreboard-restore.db.enc")
	decFile := filepath.Join(tmpDir, "choreboard-restore.db")
	defer os.Remove(encFile)
	defer os.Remove(decFile)

	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	out, err := os.Create(encFile)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(out, result.Body); err != nil {
		out.Close()
		return fmt.Errorf("write downloaded file: %w", err)
	}
	out.Close()

	if err := DecryptFile(encFile, decFile, m.cfg.Passphrase); err != nil {
		return fmt.Errorf("decrypt backup: %w", err)
	}

	tmpDB, err := sql.Open("sqlite", decFile)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	var integrity string
	err = tmpDB.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity)
	tmpDB.Close()
	if err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if integrity != "ok" {
		return fmt.Errorf("integrity check failed: %s", integrity)
	}

	if err := copyFile(decFile, m.cfg.DBPath); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	os.Remove(m.cfg.DBPath + "-wal")
	os.Remove(m.cfg.DBPath + "-shm")

	m.logger.Info("backup restored", "key", key)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
