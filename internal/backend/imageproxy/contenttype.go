package imageproxy

import (
	"bytes"
	"image"
	"mime"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultContentType = "image/jpeg"
	mimeSVG            = "image/svg+xml"
)

// ResolveContentType keeps a meaningful upstream content type and otherwise
// derives one from the image bytes.
func ResolveContentType(declared string, data []byte) string {
	if declared != "" && !isGenericContentType(declared) {
		return declared
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		return "image/" + format
	}
	if isSVGData(data) {
		return mimeSVG
	}
	return DefaultContentType
}

// isHTML reports whether upstream answered with a page instead of a file,
// which Drive does for sign-in walls and virus-scan interstitials.
func isHTML(declared string) bool {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return false
	}
	return mediaType == "text/html"
}

func isGenericContentType(declared string) bool {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return true
	}
	switch mediaType {
	case "application/octet-stream", "binary/octet-stream", "application/binary":
		return true
	}
	return false
}

// isSVGData checks for an svg tag or the SVG namespace in the first 4KB.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := strings.ToLower(string(bytes.TrimSpace(data[:n])))
	return strings.Contains(header, "<svg") ||
		strings.Contains(header, `xmlns="http://www.w3.org/2000/svg"`)
}
