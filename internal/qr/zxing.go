package qr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/webp"

	"github.com/pkordes/routecards/internal/domain"
)

// DefaultMaxImageBytes caps remote image downloads.
const DefaultMaxImageBytes = 10 << 20

// ZXingDecoder decodes QR codes with gozxing. Remote images are fetched with
// the configured HTTP client.
type ZXingDecoder struct {
	client   *http.Client
	maxBytes int64
}

// NewZXingDecoder constructs a ZXingDecoder. A nil client uses
// http.DefaultClient; maxBytes <= 0 uses DefaultMaxImageBytes.
func NewZXingDecoder(client *http.Client, maxBytes int64) *ZXingDecoder {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &ZXingDecoder{client: client, maxBytes: maxBytes}
}

// Decode implements Decoder.
func (d *ZXingDecoder) Decode(ctx context.Context, src Source) (string, error) {
	data := src.Image
	if len(data) == 0 {
		fetched, err := d.fetch(ctx, src.URL)
		if err != nil {
			return "", err
		}
		data = fetched
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: read image: %v", domain.ErrDecode, err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: binarize: %v", domain.ErrDecode, err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	res, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("%w: no qr code found: %v", domain.ErrDecode, err)
	}
	return res.GetText(), nil
}

func (d *ZXingDecoder) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrDecode, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch image: %v", domain.ErrDecode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch image: status %d", domain.ErrDecode, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrDecode, err)
	}
	if int64(len(data)) > d.maxBytes {
		return nil, fmt.Errorf("%w: image larger than %d bytes", domain.ErrDecode, d.maxBytes)
	}
	return data, nil
}
