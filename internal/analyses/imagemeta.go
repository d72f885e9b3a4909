package analyses

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"design-insight-backend/internal/session"
)

// maxModelEdge caps the longest image edge sent to the provider. Larger
// screenshots are downscaled; the original stays in the stored record.
const maxModelEdge = 2048

func decodeImageMeta(data []byte, format string) (session.ImageMeta, error) {
	cfg, detected, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return session.ImageMeta{}, fmt.Errorf("decode image config: %w", err)
	}
	if detected != format {
		return session.ImageMeta{}, fmt.Errorf("%w: payload is %s, declared %s", ErrUnsupportedMIME, detected, format)
	}
	return session.ImageMeta{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: detected,
		Size:   int64(len(data)),
	}, nil
}

// downscaleForModel shrinks oversized screenshots before the provider call.
// Returns the input unchanged when it already fits, or when the format
// cannot be re-encoded losslessly enough to matter (webp re-encodes to png).
func downscaleForModel(data []byte, meta session.ImageMeta) (payload []byte, mime string, err error) {
	mime = "image/" + meta.Format
	if meta.Width <= maxModelEdge && meta.Height <= maxModelEdge {
		return data, mime, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if meta.Width >= meta.Height {
		img = imaging.Resize(img, maxModelEdge, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(img, 0, maxModelEdge, imaging.Lanczos)
	}
	var buf bytes.Buffer
	switch meta.Format {
	case "jpeg":
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90))
		mime = "image/jpeg"
	default:
		err = png.Encode(&buf, img)
		mime = "image/png"
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode resized image: %w", err)
	}
	return buf.Bytes(), mime, nil
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
