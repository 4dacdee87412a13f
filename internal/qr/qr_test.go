package qr_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/qr"
)

// ---- helpers ---------------------------------------------------------------

// qrPNG renders content as a QR code PNG.
func qrPNG(t *testing.T, content string) []byte {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))
	return buf.Bytes()
}

// mockDecoder is a hand-written test double for qr.Decoder.
type mockDecoder struct {
	decode func(ctx context.Context, src qr.Source) (string, error)
}

func (m *mockDecoder) Decode(ctx context.Context, src qr.Source) (string, error) {
	return m.decode(ctx, src)
}

var _ qr.Decoder = (*mockDecoder)(nil)

// ---- ZXingDecoder ----------------------------------------------------------

func TestZXingDecoder_DecodesLocalImage(t *testing.T) {
	dec := qr.NewZXingDecoder(nil, 0)

	got, err := dec.Decode(context.Background(), qr.Source{Image: qrPNG(t, "https://example.com/x")})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", got)
}

func TestZXingDecoder_NotAnImage(t *testing.T) {
	dec := qr.NewZXingDecoder(nil, 0)

	_, err := dec.Decode(context.Background(), qr.Source{Image: []byte("definitely not a png")})

	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestZXingDecoder_RemoteImage(t *testing.T) {
	img := qrPNG(t, "https://example.com/remote")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	dec := qr.NewZXingDecoder(srv.Client(), 0)
	got, err := dec.Decode(context.Background(), qr.Source{URL: srv.URL + "/qr.png"})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/remote", got)
}

func TestZXingDecoder_RemoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dec := qr.NewZXingDecoder(srv.Client(), 0)
	_, err := dec.Decode(context.Background(), qr.Source{URL: srv.URL + "/missing.png"})

	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestZXingDecoder_RemoteTooLarge(t *testing.T) {
	img := qrPNG(t, "https://example.com/big")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	dec := qr.NewZXingDecoder(srv.Client(), 16)
	_, err := dec.Decode(context.Background(), qr.Source{URL: srv.URL})

	assert.ErrorIs(t, err, domain.ErrDecode)
}

// ---- Gateway ---------------------------------------------------------------

func TestGateway_Decode_URLPayload(t *testing.T) {
	g := qr.NewGateway(qr.NewZXingDecoder(nil, 0), time.Second, nil)

	res := g.Decode(context.Background(), qr.Source{Image: qrPNG(t, "https://example.com/x")})

	assert.Equal(t, qr.StatusOK, res.Status)
	assert.Equal(t, "https://example.com/x", res.DestURL)
	assert.NoError(t, res.Err)
}

func TestGateway_Decode_NonURLPayloadIsOKWithoutDestination(t *testing.T) {
	g := qr.NewGateway(&mockDecoder{
		decode: func(_ context.Context, _ qr.Source) (string, error) { return "STOP-A001", nil },
	}, 0, nil)

	res := g.Decode(context.Background(), qr.Source{Image: []byte{1}})

	assert.Equal(t, qr.StatusOK, res.Status)
	assert.Equal(t, "STOP-A001", res.Text)
	assert.Empty(t, res.DestURL)
}

func TestGateway_Decode_WrapsForeignErrors(t *testing.T) {
	g := qr.NewGateway(&mockDecoder{
		decode: func(_ context.Context, _ qr.Source) (string, error) { return "", errors.New("camera on fire") },
	}, 0, nil)

	res := g.Decode(context.Background(), qr.Source{URL: "https://example.com/qr.png"})

	assert.Equal(t, qr.StatusFail, res.Status)
	assert.ErrorIs(t, res.Err, domain.ErrDecode)
}

func TestGateway_Decode_EmptySourceFails(t *testing.T) {
	g := qr.NewGateway(&mockDecoder{
		decode: func(_ context.Context, _ qr.Source) (string, error) {
			t.Fatal("decoder must not be called for an empty source")
			return "", nil
		},
	}, 0, nil)

	res := g.Decode(context.Background(), qr.Source{})

	assert.Equal(t, qr.StatusFail, res.Status)
}

func TestGateway_Decode_UnfetchableURLFails(t *testing.T) {
	g := qr.NewGateway(&mockDecoder{
		decode: func(_ context.Context, _ qr.Source) (string, error) {
			t.Fatal("decoder must not be called for a url it cannot fetch")
			return "", nil
		},
	}, 0, nil)

	for _, u := range []string{"blob:6f1c2f3e-0000-4000-8000-000000000000", "ftp://example.com/qr.png", "qr.png"} {
		res := g.Decode(context.Background(), qr.Source{URL: u})

		assert.Equal(t, qr.StatusFail, res.Status, u)
		assert.ErrorIs(t, res.Err, domain.ErrDecode, u)
	}
}

func TestGateway_Submit_ReportsLoadingThenDelivers(t *testing.T) {
	release := make(chan struct{})
	g := qr.NewGateway(&mockDecoder{
		decode: func(_ context.Context, _ qr.Source) (string, error) {
			<-release
			return "https://example.com/late", nil
		},
	}, 0, nil)

	results := make(chan qr.Result, 1)
	status := g.Submit(qr.Source{Image: []byte{1}}, func(r qr.Result) { results <- r })

	assert.Equal(t, qr.StatusLoading, status)
	close(release)
	g.Wait()

	res := <-results
	assert.Equal(t, qr.StatusOK, res.Status)
	assert.Equal(t, "https://example.com/late", res.DestURL)
}

func TestDestinationURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/x":  true,
		"http://example.com":     true,
		"HTTPS://EXAMPLE.COM/a":  true,
		"mailto:someone@x.com":   false,
		"ftp://example.com/file": false,
		"just some text":         false,
		"":                       false,
	}
	for in, want := range cases {
		_, ok := qr.DestinationURL(in)
		assert.Equal(t, want, ok, in)
	}
}

func TestStatus_IsFinished(t *testing.T) {
	assert.False(t, qr.StatusIdle.IsFinished())
	assert.False(t, qr.StatusLoading.IsFinished())
	assert.True(t, qr.StatusOK.IsFinished())
	assert.True(t, qr.StatusFail.IsFinished())
}
