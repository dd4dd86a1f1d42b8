package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"en", "en"},
		{"ro", "ro"},
		{"hu", "hu"},
		{"ro-RO,ro;q=0.9,en;q=0.8", "ro"},
		{"hu-HU", "hu"},
		{"de-DE", "en"},
		{"fr", "en"},
		{"", "en"},
		{"x", "en"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Negotiate(tc.header), "header %q", tc.header)
	}
}

func TestTranslationFallback(t *testing.T) {
	assert.Equal(t, "Comandă creată cu succes", T("ro", "orders.created"))
	assert.Equal(t, "Rendelés sikeresen létrehozva", T("hu", "orders.created"))

	// Unknown locale falls back to the default catalog
	assert.Equal(t, "Order created successfully", T("de", "orders.created"))

	// Unknown key falls back to the key itself
	assert.Equal(t, "orders.unknown", T("en", "orders.unknown"))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("en"))
	assert.True(t, Supported("ro"))
	assert.True(t, Supported("hu"))
	assert.False(t, Supported("de"))
	assert.False(t, Supported(""))
}
