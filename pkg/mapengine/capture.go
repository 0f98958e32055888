package mapengine

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// captureFrame writes the current frame to FrameCaptureDir as a PNG.
func (e *Engine) captureFrame(img *ebiten.Image, year int) {
	if e.FrameCaptureDir == "" {
		return
	}
	if err := os.MkdirAll(e.FrameCaptureDir, 0o755); err != nil {
		e.logger.Error("error creating capture directory", zap.Error(err))
		return
	}
	path := filepath.Join(e.FrameCaptureDir, captureName(year, time.Now()))

	// ReadPixels must happen on the game goroutine; encoding need not.
	rgba := image.NewRGBA(img.Bounds())
	img.ReadPixels(rgba.Pix)

	go func() {
		if err := writePNG(path, rgba); err != nil {
			e.logger.Error("error writing capture", zap.String("path", path), zap.Error(err))
			return
		}
		e.logger.Info("captured frame", zap.String("path", path))
	}()
}

func captureName(year int, t time.Time) string {
	return fmt.Sprintf("co2-%d-%s.png", year, t.Format("20060102-150405"))
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
