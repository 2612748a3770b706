package slidescene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var errUnknownFormat = errors.New("unknown scene format")

// OpenScene reads a scene file, selecting the reader from the file
// extension. ".svg" uses the SVG reader; ".json" and ".capture" use
// the capture reader.
func OpenScene(path string) (*Scene, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".svg":
		return OpenSceneSVG(path)
	case ".json", ".capture":
		return OpenSceneCapture(path)
	}
	return nil, fmt.Errorf("%w: %q", errUnknownFormat, ext)
}
