package nft

import (
	"encoding/binary"
	"strconv"
)

// TokenID is a numeric token identifier. The external form is the decimal
// string, so identifiers survive string-biased wire encodings without
// precision loss. The storage form is the little-endian encoding with
// trailing zero bytes stripped, which keeps keys short for small ids.
type TokenID uint64

// ParseTokenID converts the external decimal string form.
func ParseTokenID(s string) (TokenID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &InvalidTokenIDError{Input: s}
	}
	return TokenID(v), nil
}

func (t TokenID) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// Bytes returns the storage encoding, at most 8 bytes with no trailing
// zeros. TokenID(0) encodes to the empty slice.
func (t TokenID) Bytes() []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(t))
	i := 8
	for i > 0 && buf[i-1] == 0 {
		i--
	}
	return buf[:i]
}

// TokenIDFromBytes decodes the storage encoding produced by Bytes.
func TokenIDFromBytes(b []byte) (TokenID, error) {
	if len(b) > 8 {
		return 0, &InvalidTokenIDError{Encoded: b}
	}
	var buf [8]byte
	copy(buf[:], b)
	return TokenID(binary.LittleEndian.Uint64(buf[:])), nil
}

func (t TokenID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *TokenID) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return &InvalidTokenIDError{Input: string(b)}
	}
	id, err := ParseTokenID(s)
	if err != nil {
		return err
	}
	*t = id
	return nil
}
