package authority

import (
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Catalog picks session pictures from a directory.
type Catalog struct {
	Dir      string // Directory scanned for .png, .jpg and .jpeg files
	Fallback string // Used when Dir holds no pictures
}

// List returns the picture paths in Dir, sorted. A missing directory is empty.
func (c *Catalog) List() ([]string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			// Forward slashes: the path doubles as a URL.
			images = append(images, path.Join(filepath.ToSlash(c.Dir), e.Name()))
		}
	}
	slices.Sort(images)
	return images, nil
}

// Pick returns a random picture, avoiding previous when another one exists.
func (c *Catalog) Pick(rng *rand.Rand, previous string) string {
	images, err := c.List()
	if err != nil || len(images) == 0 {
		return c.Fallback
	}

	candidates := make([]string, 0, len(images))
	for _, img := range images {
		if path.Base(img) != path.Base(previous) {
			candidates = append(candidates, img)
		}
	}
	if len(candidates) == 0 {
		candidates = images
	}
	return candidates[rng.Intn(len(candidates))]
}
