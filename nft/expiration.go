package nft

// BlockInfo is the read-only block context the host supplies to every call
// that evaluates expirations.
type BlockInfo struct {
	Height uint64 `json:"height"`
	Time   uint64 `json:"time,string"`
}

// Expiration bounds the lifetime of an approval or operator grant at a block
// height or a block timestamp in unix nanoseconds. The zero value never
// expires; height 0 and time 0 are not representable bounds.
type Expiration struct {
	Height uint64 `json:"at_height,omitempty"`
	Time   uint64 `json:"at_time,string,omitempty"`
}

func ExpiresNever() Expiration {
	return Expiration{}
}

func ExpiresAtHeight(h uint64) Expiration {
	return Expiration{Height: h}
}

func ExpiresAtTime(t uint64) Expiration {
	return Expiration{Time: t}
}

func (e Expiration) IsNever() bool {
	return e.Height == 0 && e.Time == 0
}

// IsExpired reports whether the bound has been reached at the given block.
func (e Expiration) IsExpired(block BlockInfo) bool {
	if e.Height > 0 && block.Height >= e.Height {
		return true
	}
	if e.Time > 0 && block.Time >= e.Time {
		return true
	}
	return false
}
