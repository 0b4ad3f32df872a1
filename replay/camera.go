// Package replay feeds recorded sensor data to the control loop: camera frames from a
// directory of images and range scans from a CSV file.
package replay

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registers the webp decoder with image.Decode

	"github.com/viamrobotics/autodrive/perception"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// CameraConfig configures a replay camera.
type CameraConfig struct {
	Dir         string  `json:"dir"`
	FieldOfView float64 `json:"field_of_view"`
	// Width rescales frames to this width, keeping the aspect ratio. Zero keeps them as is.
	Width int  `json:"width"`
	Loop  bool `json:"loop"`
}

// A Camera replays the images of a directory in file name order.
type Camera struct {
	cfg   CameraConfig
	paths []string

	mu   sync.Mutex
	next int
}

// NewCamera lists the images in cfg.Dir.
func NewCamera(cfg CameraConfig) (*Camera, error) {
	paths, err := ImagePaths(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return &Camera{cfg: cfg, paths: paths}, nil
}

// ImagePaths returns the images in dir sorted by name. A directory without images is an error.
func ImagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list replay frames")
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no images in %q", dir)
	}
	slices.Sort(paths)
	return paths, nil
}

// Len returns the number of frames.
func (c *Camera) Len() int {
	return len(c.paths)
}

// NextFrame decodes the next image. Once every image was returned it reports no frame,
// unless the camera loops.
func (c *Camera) NextFrame(ctx context.Context) (perception.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return perception.Frame{}, false, err
	}
	c.mu.Lock()
	if c.next >= len(c.paths) {
		if !c.cfg.Loop {
			c.mu.Unlock()
			return perception.Frame{}, false, nil
		}
		c.next = 0
	}
	path := c.paths[c.next]
	c.next++
	c.mu.Unlock()

	img, err := LoadImage(path, c.cfg.Width)
	if err != nil {
		return perception.Frame{}, false, err
	}
	return perception.Frame{Image: img, FieldOfView: c.cfg.FieldOfView}, true, nil
}

// LoadImage decodes the image at path and scales it down or up to width, if non-zero.
func LoadImage(path string, width int) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode frame %q", path)
	}
	b := img.Bounds()
	if width <= 0 || b.Dx() == width {
		return img, nil
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst, nil
}
