package detection

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/teslashibe/go-gaze/internal/httpc"
)

// EnsureModel makes sure the model file at path exists, downloading it from
// url when it does not. client may be nil to use the shared client.
func EnsureModel(ctx context.Context, client *http.Client, path, url string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrModelMissing, path, err)
	}

	if url == "" {
		return fmt.Errorf("%w: %s (no download URL)", ErrModelMissing, path)
	}

	logger.Info("downloading face detection model", "path", path, "url", url)

	n, err := httpc.Download(ctx, client, url, path)
	if err != nil {
		logger.Error("model download failed; download it manually",
			"url", url,
			"path", path,
			"error", err)
		return fmt.Errorf("%w: %v", ErrModelFetchFailed, err)
	}

	logger.Info("model downloaded", "path", path, "bytes", n)
	return nil
}
