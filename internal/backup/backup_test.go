package backup

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"choreboard/internal/database"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[aws.ToString(input.Key)] = data
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	data, ok := f.objects[aws.ToString(input.Key)]
	f.mu.Unlock()
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	return out, nil
}

func newTestManager(t *testing.T, dbPath string) (*Manager, *fakeS3) {
	t.Helper()

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := Config{
		Bucket:     "test-bucket",
		Region:     "auto",
		AccessKey:  "key",
		SecretKey:  "secret",
		Passphrase: "household-secret",
		DBPath:     dbPath,
	}
	m := NewManager(cfg, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	fake := newFakeS3()
	m.client = fake
	return m, fake
}

func TestManagerDisabledWithoutConfig(t *testing.T) {
	m := NewManager(Config{Bucket: "b"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if m.Enabled() {
		t.Error("manager with missing credentials should be disabled")
	}

	key, err := m.Run(context.Background())
	if err != nil || key != "" {
		t.Errorf("disabled Run should be a no-op, got key=%q err=%v", key, err)
	}
}

func TestRunUploadsEncryptedSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chores.db")
	m, fake := newTestManager(t, dbPath)

	key, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if key == "" {
		t.Fatal("expected an object key")
	}

	data, ok := fake.objects[key]
	if !ok {
		t.Fatalf("object %q not uploaded", key)
	}
	if bytes.Contains(data, []byte("SQLite format 3")) {
		t.Error("uploaded snapshot must not contain the raw database header")
	}
	if m.LastRun().IsZero() {
		t.Error("expected LastRun to be recorded")
	}
}

func TestLatestKeyPicksNewest(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chores.db")
	m, fake := newTestManager(t, dbPath)

	fake.objects[keyPrefix+"backup-2026-01-01T030000Z.db.enc"] = []byte("old")
	fake.objects[keyPrefix+"backup-2026-02-01T030000Z.db.enc"] = []byte("new")

	key, err := m.LatestKey(context.Background())
	if err != nil {
		t.Fatalf("latest key: %v", err)
	}
	if key != keyPrefix+"backup-2026-02-01T030000Z.db.enc" {
		t.Errorf("expected newest key, got %q", key)
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "chores.db")

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO chores (title, due_date) VALUES ('Dishes', '2026-09-01')`); err != nil {
		t.Fatalf("seed chore: %v", err)
	}

	cfg := Config{
		Bucket:     "test-bucket",
		Region:     "auto",
		AccessKey:  "key",
		SecretKey:  "secret",
		Passphrase: "household-secret",
		DBPath:     dbPath,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager(cfg, db, logger)
	fake := newFakeS3()
	m.client = fake

	key, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	db.Close()

	restorePath := filepath.Join(dir, "restored.db")
	restorer := NewManager(Config{
		Bucket:     cfg.Bucket,
		Region:     cfg.Region,
		AccessKey:  cfg.AccessKey,
		SecretKey:  cfg.SecretKey,
		Passphrase: cfg.Passphrase,
		DBPath:     restorePath,
	}, nil, logger)
	restorer.client = fake

	if err := restorer.Restore(context.Background(), key); err != nil {
		t.Fatalf("restore: %v", err)
	}

	restored, err := database.Open(restorePath)
	if err != nil {
		t.Fatalf("open restored database: %v", err)
	}
	defer restored.Close()

	var title string
	if err := restored.QueryRow(`SELECT title FROM chores`).Scan(&title); err != nil {
		t.Fatalf("query restored chore: %v", err)
	}
	if title != "Dishes" {
		t.Errorf("expected restored chore, got %q", title)
	}
}
