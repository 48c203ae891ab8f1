package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const LogoFolder = "courtdesk/logos"

type imageUploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// LogoUploader stores the business logo on Cloudinary.
type LogoUploader struct {
	api    imageUploader
	folder string
}

func NewLogoUploader(cld *cloudinary.Cloudinary) *LogoUploader {
	return &LogoUploader{api: &cld.Upload, folder: LogoFolder}
}

// UploadLogo accepts anything Cloudinary can ingest (data URI, remote URL) and
// returns the secure URL of the stored image.
func (u *LogoUploader) UploadLogo(ctx context.Context, file string) (string, error) {
	overwrite := true
	res, err := u.api.Upload(ctx, file, uploader.UploadParams{
		Folder:    u.folder,
		PublicID:  "logo",
		Overwrite: &overwrite,
		Tags:      []string{"courtdesk"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload logo: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("failed to upload logo: empty url in response")
	}
	return res.SecureURL, nil
}
