package sharecode

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DefaultQRSize is the edge length in pixels of rendered QR images.
const DefaultQRSize = 512

// QRCode renders a share code as a square PNG QR image.
func QRCode(code string, size int) ([]byte, error) {
	if code == "" {
		return nil, ErrMalformedCode
	}
	if size <= 0 {
		size = DefaultQRSize
	}

	symbol, err := qr.Encode(code, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr symbol: %w", err)
	}

	scaled, err := barcode.Scale(symbol, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale qr symbol to %dpx: %w", size, err)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode qr png: %w", err)
	}

	return buf.Bytes(), nil
}
