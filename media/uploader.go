package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/sayanchanda7290/roomradar/config"
	"github.com/sayanchanda7290/roomradar/filemgr"
)

// Uploader stores a prepared image and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// NewUploader picks the backend named by cfg.Storage.Provider.
func NewUploader(cfg *config.Config) (Uploader, error) {
	switch cfg.Storage.Provider {
	case config.ProviderCloudinary:
		return NewCloudinaryUploader(cfg.Cloudinary, cfg.Storage.Folder)
	case config.ProviderLocal, "":
		return NewLocalUploader(filemgr.UploadsRoot, cfg.Server.PublicURL), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, f File) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, f.TempPath, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("cloudinary returned no URL")
	}
	return resp.SecureURL, nil
}

// LocalUploader copies images below root and serves them from publicURL/uploads/.
type LocalUploader struct {
	root      string
	publicURL string
}

func NewLocalUploader(root, publicURL string) *LocalUploader {
	return &LocalUploader{root: root, publicURL: strings.TrimRight(publicURL, "/")}
}

func (u *LocalUploader) Upload(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := filemgr.RelativeDir(filemgr.EntityPlace, filemgr.PicPhoto)
	destDir := filemgr.ResolvePath(u.root, filemgr.EntityPlace, filemgr.PicPhoto)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(f.TempPath))
	if err := copyFile(f.TempPath, filepath.Join(destDir, name)); err != nil {
		return "", err
	}
	return u.publicURL + "/uploads/" + path.Join(rel, name), nil
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
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
