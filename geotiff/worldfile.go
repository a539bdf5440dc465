package geotiff

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/connorworley/topodump/geo"
)

// WorldFilePath maps a raster path to its ESRI world file path
// ("map.tif" -> "map.tfw").
func WorldFilePath(rasterPath string) string {
	return strings.TrimSuffix(rasterPath, filepath.Ext(rasterPath)) + ".tfw"
}

// WriteWorldFile writes the six-line ESRI world file for a transform: pixel
// width, the two rotation terms, pixel height, then the origin exactly as
// the transform names it.
func WriteWorldFile(filePath string, transform geo.Affine) error {
	content := fmt.Sprintf("%24.10f\n%24.10f\n%24.10f\n%24.10f\n%24.10f\n%24.10f\n",
		transform.PixelWidth,
		transform.RowRotation,
		transform.ColRotation,
		transform.PixelHeight,
		transform.OriginX,
		transform.OriginY,
	)
	return os.WriteFile(filePath, []byte(content), 0644)
}
