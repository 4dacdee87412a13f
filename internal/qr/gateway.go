// Package qr turns images into decoded QR text. A Gateway wraps any Decoder
// and exposes the asynchronous contract the card controller relies on:
// submission reports "loading" at once, and the outcome arrives later through
// a completion callback.
package qr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkordes/routecards/internal/domain"
)

// Source is the image to decode: either bytes from a locally selected file
// or the URL of a remote image. Image takes precedence when both are set.
type Source struct {
	Image []byte
	URL   string
}

// Decoder extracts the text of the first QR code found in src.
// Failures should wrap domain.ErrDecode.
type Decoder interface {
	Decode(ctx context.Context, src Source) (string, error)
}

// Result is the outcome delivered to the completion callback.
type Result struct {
	Status Status
	// Text is the raw decoded payload, empty on failure.
	Text string
	// DestURL is Text when it is a web URL, empty otherwise.
	DestURL string
	Err     error
}

// Gateway runs decodes in the background. It has no cancellation of its own:
// every submitted decode runs to completion and its callback always fires.
// Callers decide whether the result is still relevant.
type Gateway struct {
	dec     Decoder
	timeout time.Duration
	log     *slog.Logger
	wg      sync.WaitGroup
}

// NewGateway constructs a Gateway. timeout bounds a single decode, including
// any remote fetch; zero means no bound. A nil logger uses slog.Default().
func NewGateway(dec Decoder, timeout time.Duration, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{dec: dec, timeout: timeout, log: log}
}

// Submit starts decoding src and returns StatusLoading immediately.
// done is called exactly once from another goroutine with the outcome.
func (g *Gateway) Submit(src Source, done func(Result)) Status {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		done(g.Decode(context.Background(), src))
	}()
	return StatusLoading
}

// Decode runs one decode synchronously.
func (g *Gateway) Decode(ctx context.Context, src Source) Result {
	if len(src.Image) == 0 && strings.TrimSpace(src.URL) == "" {
		return failed(fmt.Errorf("%w: empty source", domain.ErrDecode))
	}
	if len(src.Image) == 0 && !fetchable(src.URL) {
		g.log.Info("qr decode failed", "error", "unfetchable image url")
		return failed(fmt.Errorf("%w: cannot fetch image from %q", domain.ErrDecode, src.URL))
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.dec.Decode(ctx, src)
	if err != nil {
		if !errors.Is(err, domain.ErrDecode) {
			err = fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
		g.log.Info("qr decode failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return failed(err)
	}

	res := Result{Status: StatusOK, Text: text}
	if u, ok := DestinationURL(text); ok {
		res.DestURL = u
	}
	g.log.Debug("qr decoded", "is_url", res.DestURL != "", "duration_ms", time.Since(start).Milliseconds())
	return res
}

// Wait blocks until every submitted decode has delivered its result.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

// DestinationURL reports whether decoded text is a web link that can be used
// as a stop's QR destination.
func DestinationURL(text string) (string, bool) {
	text = strings.TrimSpace(text)
	u, err := url.Parse(text)
	if err != nil || u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return text, true
	}
	return "", false
}

// fetchable reports whether a remote image URL can be downloaded. Local
// references such as "blob:" ones must arrive as image bytes instead.
func fetchable(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

func failed(err error) Result {
	return Result{Status: StatusFail, Err: err}
}
