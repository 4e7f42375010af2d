package nft

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIDBytesRoundTrip(t *testing.T) {
	for _, id := range []uint64{0, 1, 42, 255, 256, 65535, 65536, 1 << 24, 1 << 32, 1<<56 + 7, math.MaxUint64} {
		b := TokenID(id).Bytes()
		assert.LessOrEqual(t, len(b), 8)
		if len(b) > 0 {
			assert.NotZero(t, b[len(b)-1], "no trailing zero bytes for %d", id)
		}
		back, err := TokenIDFromBytes(b)
		require.NoError(t, err)
		assert.Equal(t, TokenID(id), back)
	}
}

func TestTokenIDZeroEncodesEmpty(t *testing.T) {
	assert.Empty(t, TokenID(0).Bytes())
}

func TestTokenIDFromBytesRejectsLong(t *testing.T) {
	_, err := TokenIDFromBytes(make([]byte, 9))
	var invalid *InvalidTokenIDError
	require.ErrorAs(t, err, &invalid)
}

func TestTokenIDParseFormatRoundTrip(t *testing.T) {
	for _, id := range []uint64{0, 7, 1000000, math.MaxUint64} {
		parsed, err := ParseTokenID(TokenID(id).String())
		require.NoError(t, err)
		assert.Equal(t, TokenID(id), parsed)
	}
}

func TestParseTokenIDRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "abc", "-1", "1.5", "18446744073709551616"} {
		_, err := ParseTokenID(s)
		var invalid *InvalidTokenIDError
		require.ErrorAs(t, err, &invalid, "input %q", s)
	}
}

func TestTokenIDJSONIsDecimalString(t *testing.T) {
	b, err := json.Marshal(TokenID(12345))
	require.NoError(t, err)
	assert.Equal(t, `"12345"`, string(b))

	var id TokenID
	require.NoError(t, json.Unmarshal([]byte(`"98765"`), &id))
	assert.Equal(t, TokenID(98765), id)

	require.Error(t, json.Unmarshal([]byte(`12345`), &id))
}
