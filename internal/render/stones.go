package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/park285/pente-server/internal/pente"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/stones/*.svg
var stoneFiles embed.FS

type stoneCacheKey struct {
	stone pente.Cell
	size  int
}

var (
	stoneCache   = map[stoneCacheKey]image.Image{}
	stoneCacheMu sync.RWMutex
)

func stoneAssetName(c pente.Cell) (string, error) {
	switch c {
	case pente.StoneX:
		return "assets/stones/x.svg", nil
	case pente.StoneO:
		return "assets/stones/o.svg", nil
	default:
		return "", fmt.Errorf("no stone asset for cell %q", rune(c))
	}
}

// stoneImage rasterizes the stone SVG at size×size, cached per (stone, size).
func stoneImage(c pente.Cell, size int) (image.Image, error) {
	key := stoneCacheKey{stone: c, size: size}

	stoneCacheMu.RLock()
	img, ok := stoneCache[key]
	stoneCacheMu.RUnlock()
	if ok {
		return img, nil
	}

	name, err := stoneAssetName(c)
	if err != nil {
		return nil, err
	}
	data, err := stoneFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read stone asset %s: %w", name, err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse stone svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	stoneCacheMu.Lock()
	stoneCache[key] = rgba
	stoneCacheMu.Unlock()
	return rgba, nil
}
