package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"genvid/internal/logging"
)

// ErrUnsupportedImage is returned for attachments that are not a known image
// type.
var ErrUnsupportedImage = errors.New("wizard: unsupported image type")

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// ImageStatus is a snapshot of the product image attachment. The local
// preview path is available as soon as the file is attached; the remote URL
// and Verified flag arrive once the background upload finishes.
type ImageStatus struct {
	PreviewPath string
	RemoteURL   string
	Uploading   bool
	Verified    bool
	Err         error
}

type imageState struct {
	previewPath string
	remoteURL   string
	uploading   bool
	verified    bool
	err         error
	settled     chan struct{}
}

// AttachImage validates the file, records it as the local preview
// immediately, and uploads it in the background. The returned error covers
// validation only; upload errors surface through Image and WaitImage.
func (f *Flow) AttachImage(ctx context.Context, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, ext)
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	f.mu.Lock()
	f.image = imageState{
		previewPath: path,
		uploading:   true,
		settled:     make(chan struct{}),
	}
	settled := f.image.settled
	f.mu.Unlock()

	go func() {
		defer file.Close()
		url, err := f.client.Upload(ctx, filepath.Base(path), file)

		f.mu.Lock()
		if f.image.settled == settled {
			f.image.uploading = false
			if err != nil {
				f.image.err = err
				f.logger.Warn("image upload failed", logging.Error(err))
			} else {
				f.image.remoteURL = url
				f.image.verified = true
			}
		}
		f.mu.Unlock()
		close(settled)
	}()
	return nil
}

// RemoveImage discards the attachment. An in-flight upload is ignored when it
// completes.
func (f *Flow) RemoveImage() {
	f.mu.Lock()
	f.image = imageState{}
	f.mu.Unlock()
}

// Image returns the current attachment snapshot.
func (f *Flow) Image() ImageStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ImageStatus{
		PreviewPath: f.image.previewPath,
		RemoteURL:   f.image.remoteURL,
		Uploading:   f.image.uploading,
		Verified:    f.image.verified,
		Err:         f.image.err,
	}
}

// WaitImage blocks until the in-flight upload settles or the context ends,
// then returns the snapshot. It returns immediately when no upload is
// running.
func (f *Flow) WaitImage(ctx context.Context) (ImageStatus, error) {
	f.mu.Lock()
	settled := f.image.settled
	f.mu.Unlock()
	if settled != nil {
		select {
		case <-settled:
		case <-ctx.Done():
			return f.Image(), ctx.Err()
		}
	}
	return f.Image(), nil
}
