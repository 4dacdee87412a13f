package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/routecards/internal/domain"
)

func TestParseColor(t *testing.T) {
	c, err := domain.ParseColor("#3b82f6")
	require.NoError(t, err)
	assert.Equal(t, domain.Color{R: 0x3b, G: 0x82, B: 0xf6}, c)

	c, err = domain.ParseColor("f97316")
	require.NoError(t, err)
	assert.Equal(t, "#f97316", c.Hex())
}

func TestParseColor_Invalid(t *testing.T) {
	_, err := domain.ParseColor("#zzzzzz")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestColor_RouteLineIsTranslucentMarkerColor(t *testing.T) {
	assert.Equal(t, "#6366f1b3", domain.DefaultColor.RouteLine())
}

func TestColor_JSONRoundTripsAsHex(t *testing.T) {
	raw, err := json.Marshal(domain.Color{R: 0x22, G: 0xc5, B: 0x5e})
	require.NoError(t, err)
	assert.JSONEq(t, `"#22c55e"`, string(raw))
}
