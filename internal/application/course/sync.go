package course

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/studybuddy-api/internal/domain"
)

// Keys of the open course data feed.
const (
	keyCode   = "科號"
	keyNameZH = "課程中文名稱"
	keyNameEN = "課程英文名稱"
)

// maxCatalogBytes caps the downloaded payload.
const maxCatalogBytes = 64 << 20

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type snapshotArchive interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type courseWriter interface {
	PutBatch(ctx context.Context, courses []domain.Course) error
}

// SyncResult summarizes one catalog import.
type SyncResult struct {
	Fetched     int
	Stored      int
	SnapshotURI string
}

// Syncer downloads the catalog, archives the raw payload and upserts every course.
type Syncer struct {
	client  HTTPDoer
	archive snapshotArchive
	store   courseWriter
	logger  *slog.Logger
	now     func() time.Time
}

type SyncerDeps struct {
	Client  HTTPDoer
	Archive snapshotArchive // optional
	Store   courseWriter
	Logger  *slog.Logger
	Now     func() time.Time
}

func NewSyncer(deps SyncerDeps) *Syncer {
	s := &Syncer{
		client:  deps.Client,
		archive: deps.Archive,
		store:   deps.Store,
		logger:  deps.Logger,
		now:     deps.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// SnapshotKey is the archive key for a payload fetched at t.
func SnapshotKey(t time.Time) string {
	return "catalog/" + t.UTC().Format("20060102T150405Z") + ".json"
}

// Sync fetches url and imports it.
func (s *Syncer) Sync(ctx context.Context, url string) (SyncResult, error) {
	raw, err := s.fetch(ctx, url)
	if err != nil {
		return SyncResult{}, err
	}
	var uri string
	if s.archive != nil {
		uri, err = s.archive.Upload(ctx, SnapshotKey(s.now()), bytes.NewReader(raw), "application/json")
		if err != nil {
			return SyncResult{}, fmt.Errorf("archive catalog: %w", err)
		}
		s.logger.Info("archived catalog snapshot", slog.String("uri", uri), slog.Int("bytes", len(raw)))
	}
	res, err := s.Import(ctx, bytes.NewReader(raw))
	res.SnapshotURI = uri
	return res, err
}

// Import parses a catalog payload from r and upserts it.
func (s *Syncer) Import(ctx context.Context, r io.Reader) (SyncResult, error) {
	courses, fetched, err := ParseCatalog(r)
	if err != nil {
		return SyncResult{}, err
	}
	if err := s.store.PutBatch(ctx, courses); err != nil {
		return SyncResult{Fetched: fetched}, fmt.Errorf("store courses: %w", err)
	}
	s.logger.Info("imported course catalog", slog.Int("fetched", fetched), slog.Int("stored", len(courses)))
	return SyncResult{Fetched: fetched, Stored: len(courses)}, nil
}

func (s *Syncer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(raw) > maxCatalogBytes {
		return nil, fmt.Errorf("catalog exceeds %d bytes", maxCatalogBytes)
	}
	return raw, nil
}

// ParseCatalog decodes the feed into courses keyed by code. Entries without a code are
// skipped and a repeated code keeps its last entry. It also returns the raw entry count.
func ParseCatalog(r io.Reader) ([]domain.Course, int, error) {
	var entries []map[string]any
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, 0, fmt.Errorf("decode catalog: %w", err)
	}
	index := make(map[string]int, len(entries))
	courses := make([]domain.Course, 0, len(entries))
	for _, e := range entries {
		c := domain.Course{
			Code:   str(e[keyCode]),
			NameZH: str(e[keyNameZH]),
			NameEN: str(e[keyNameEN]),
		}
		if c.Code == "" {
			continue
		}
		c.BuildSearchText()
		if i, ok := index[c.Code]; ok {
			courses[i] = c
			continue
		}
		index[c.Code] = len(courses)
		courses = append(courses, c)
	}
	return courses, len(entries), nil
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
