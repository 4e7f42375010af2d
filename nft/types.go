package nft

import (
	"github.com/google/uuid"
)

// Address is a canonicalized principal identifier. Values are only
// constructed through ValidateAddress, so equality comparison is exact.
type Address string

// ValidateAddress canonicalizes an externally supplied principal identifier.
// Principals are UUID strings, compared in their canonical lowercase form.
func ValidateAddress(s string) (Address, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", &InvalidAddressError{Input: s}
	}
	return Address(id.String()), nil
}

// Approval grants one spender transfer rights over one specific token. At
// most one approval per (token, spender) pair exists at any time.
type Approval struct {
	Spender Address    `json:"spender"`
	Expires Expiration `json:"expires"`
}

func (a Approval) IsExpired(block BlockInfo) bool {
	return a.Expires.IsExpired(block)
}

// TokenInfo is the primary record for a live token. Approvals are cleared on
// every transfer and cannot accumulate much.
type TokenInfo struct {
	Owner     Address    `json:"owner"`
	Approvals []Approval `json:"approvals"`
	TokenURI  string     `json:"token_uri,omitempty"`
	Extension Metadata   `json:"extension"`
}

// Metadata is the structured token payload. The registry only requires it to
// decode; no field is validated beyond that.
type Metadata struct {
	Image           string  `json:"image"`
	ImageData       string  `json:"image_data,omitempty"`
	ExternalURL     string  `json:"external_url,omitempty"`
	Description     string  `json:"description"`
	Name            string  `json:"name"`
	Attributes      []Trait `json:"attributes"`
	BackgroundColor string  `json:"background_color,omitempty"`
	AnimationURL    string  `json:"animation_url,omitempty"`
	YoutubeURL      string  `json:"youtube_url,omitempty"`
}

type Trait struct {
	DisplayType string `json:"display_type,omitempty"`
	TraitType   string `json:"trait_type"`
	Value       string `json:"value"`
}

// ContractInfo is the public name and symbol of the collection.
type ContractInfo struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
