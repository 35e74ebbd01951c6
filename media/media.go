// Package media turns uploaded or linked photos into hosted image URLs.
package media

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/config"
	"github.com/sayanchanda7290/roomradar/filemgr"
	"github.com/sayanchanda7290/roomradar/metrics"
	"github.com/sayanchanda7290/roomradar/utils"
)

// File is a photo staged in scratch storage. Index is its position in the
// upload request.
type File struct {
	TempPath     string
	OriginalName string
	MimeType     string
	Index        int
}

// Result reports the outcome for one uploaded file.
type Result struct {
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
	Index int    `json:"-"`
}

func (r Result) OK() bool { return r.Error == "" }

type Ingestor struct {
	uploader     Uploader
	client       *http.Client
	scratchDir   string
	timeout      time.Duration
	maxBytes     int64
	maxDimension int
	now          func() time.Time
}

func NewIngestor(up Uploader, cfg config.MediaConfig, scratchDir string) *Ingestor {
	return &Ingestor{
		uploader:     up,
		client:       &http.Client{},
		scratchDir:   scratchDir,
		timeout:      cfg.DownloadTimeout,
		maxBytes:     cfg.MaxDownloadBytes,
		maxDimension: cfg.MaxImageDimension,
		now:          time.Now,
	}
}

// IngestByLink downloads an http(s) image and uploads it.
func (in *Ingestor) IngestByLink(ctx context.Context, link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.New(apperr.ValidationFailure, "link must be an http or https URL")
	}

	dir, err := os.MkdirTemp(in.scratchDir, "link-*")
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "scratch dir", err)
	}
	defer os.RemoveAll(dir)

	name := "photo" + strconv.FormatInt(in.now().UnixMilli(), 10) + ".jpg"
	var hosted string
	file, err := in.download(ctx, u.String(), dir, name)
	if err == nil {
		hosted, err = in.ingest(ctx, file)
	}
	metrics.ObservePhoto("link", err)
	if err != nil {
		return "", err
	}
	return hosted, nil
}

func (in *Ingestor) download(ctx context.Context, link, dir, name string) (File, error) {
	if in.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return File{}, apperr.Wrap(apperr.ValidationFailure, "invalid link", err)
	}
	resp, err := in.client.Do(req)
	if err != nil {
		return File{}, apperr.Wrap(apperr.IngestionFailure, "download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return File{}, apperr.New(apperr.IngestionFailure, fmt.Sprintf("download failed: %s", resp.Status))
	}

	path, mimeType, err := filemgr.SaveFile(resp.Body, name, filemgr.PicPhoto, dir, in.maxBytes, func(string) string { return name })
	if err != nil {
		return File{}, apperr.Wrap(apperr.IngestionFailure, "download failed", err)
	}
	return File{TempPath: path, OriginalName: name, MimeType: mimeType}, nil
}

// StageUploads copies multipart parts into a fresh scratch directory.
// Parts that fail validation are reported in rejected. cleanup removes
// everything staged.
func (in *Ingestor) StageUploads(headers []*multipart.FileHeader) (staged []File, rejected []Result, cleanup func(), err error) {
	dir, err := os.MkdirTemp(in.scratchDir, "upload-*")
	if err != nil {
		return nil, nil, nil, apperr.Wrap(apperr.Internal, "scratch dir", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	for i, h := range headers {
		name := utils.SanitizeFilename(h.Filename)
		f, err := h.Open()
		if err != nil {
			rejected = append(rejected, Result{Name: name, Error: err.Error(), Index: i})
			continue
		}
		path, mimeType, err := filemgr.SaveFile(f, name, filemgr.PicPhoto, dir, in.maxBytes, nil)
		f.Close()
		if err != nil {
			metrics.ObservePhoto("upload", err)
			rejected = append(rejected, Result{Name: name, Error: err.Error(), Index: i})
			continue
		}
		staged = append(staged, File{TempPath: path, OriginalName: name, MimeType: mimeType, Index: i})
	}
	return staged, rejected, cleanup, nil
}

// IngestUploaded uploads every staged file independently. A failure does not
// stop the remaining files and nothing already uploaded is rolled back.
func (in *Ingestor) IngestUploaded(ctx context.Context, files []File) []Result {
	results := make([]Result, 0, len(files))
	for _, f := range files {
		link, err := in.ingest(ctx, f)
		metrics.ObservePhoto("upload", err)
		if err != nil {
			log.Printf("upload %s: %v", f.OriginalName, err)
			results = append(results, Result{Name: f.OriginalName, Error: apperr.Message(err), Index: f.Index})
			continue
		}
		results = append(results, Result{Name: f.OriginalName, URL: link, Index: f.Index})
	}
	return results
}

func (in *Ingestor) ingest(ctx context.Context, f File) (string, error) {
	path, err := filemgr.NormalizeImage(f.TempPath, in.maxDimension)
	if err != nil {
		return "", apperr.Wrap(apperr.IngestionFailure, "unreadable image", err)
	}
	defer os.Remove(path)
	f.TempPath = path

	link, err := in.uploader.Upload(ctx, f)
	if err != nil {
		return "", apperr.Wrap(apperr.IngestionFailure, "upload failed", err)
	}
	log.Printf("Stored %s as %s", filepath.Base(f.OriginalName), link)
	return link, nil
}
