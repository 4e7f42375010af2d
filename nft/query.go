package nft

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 30
)

type MinterResponse struct {
	Minter Address `json:"minter"`
}

type NumTokensResponse struct {
	Count uint64 `json:"count"`
}

type HighestTokenIDResponse struct {
	HighestTokenID *TokenID `json:"highest_token_id,omitempty"`
}

type NftInfoResponse struct {
	TokenURI  string   `json:"token_uri,omitempty"`
	Extension Metadata `json:"extension"`
}

type OwnerOfResponse struct {
	Owner     Address    `json:"owner"`
	Approvals []Approval `json:"approvals"`
}

type AllNftInfoResponse struct {
	Access OwnerOfResponse `json:"access"`
	Info   NftInfoResponse `json:"info"`
}

type TokensResponse struct {
	Tokens []TokenID `json:"tokens"`
}

type OperatorsResponse struct {
	Operators []Approval `json:"operators"`
}

func (c *Contract) ContractInfo() (*ContractInfo, error) {
	info, err := c.store.ReadContractInfo()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrNotInitialized
	}
	return info, nil
}

func (c *Contract) Minter() (*MinterResponse, error) {
	minter, err := c.store.ReadMinter()
	if err != nil {
		return nil, err
	}
	if minter == "" {
		return nil, ErrNotInitialized
	}
	return &MinterResponse{Minter: minter}, nil
}

func (c *Contract) NumTokens() (*NumTokensResponse, error) {
	count, err := c.store.CountTokens()
	if err != nil {
		return nil, err
	}
	return &NumTokensResponse{Count: count}, nil
}

// HighestTokenID returns the maximum id ever successfully minted, absent
// until the first mint and unaffected by burns.
func (c *Contract) HighestTokenID() (*HighestTokenIDResponse, error) {
	id, ok, err := c.store.HighestTokenID()
	if err != nil {
		return nil, err
	}
	if !ok {
		return &HighestTokenIDResponse{}, nil
	}
	return &HighestTokenIDResponse{HighestTokenID: &id}, nil
}

func (c *Contract) NftInfo(id TokenID) (*NftInfoResponse, error) {
	token, err := c.loadToken(id)
	if err != nil {
		return nil, err
	}
	return &NftInfoResponse{TokenURI: token.TokenURI, Extension: token.Extension}, nil
}

func (c *Contract) OwnerOf(id TokenID, block BlockInfo, includeExpired bool) (*OwnerOfResponse, error) {
	token, err := c.loadToken(id)
	if err != nil {
		return nil, err
	}
	return &OwnerOfResponse{
		Owner:     token.Owner,
		Approvals: liveApprovals(token, block, includeExpired),
	}, nil
}

func (c *Contract) AllNftInfo(id TokenID, block BlockInfo, includeExpired bool) (*AllNftInfoResponse, error) {
	token, err := c.loadToken(id)
	if err != nil {
		return nil, err
	}
	return &AllNftInfoResponse{
		Access: OwnerOfResponse{
			Owner:     token.Owner,
			Approvals: liveApprovals(token, block, includeExpired),
		},
		Info: NftInfoResponse{TokenURI: token.TokenURI, Extension: token.Extension},
	}, nil
}

// Tokens lists ids owned by owner, ascending in key order, strictly after
// the cursor, at most limit entries.
func (c *Contract) Tokens(owner Address, startAfter *TokenID, limit int) (*TokensResponse, error) {
	tokens, err := c.store.ListTokensByOwner(owner, startAfter, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return &TokensResponse{Tokens: tokens}, nil
}

// AllTokens lists every live id with the same pagination contract as Tokens.
func (c *Contract) AllTokens(startAfter *TokenID, limit int) (*TokensResponse, error) {
	tokens, err := c.store.ListAllTokens(startAfter, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return &TokensResponse{Tokens: tokens}, nil
}

// AllOperators lists granter's operator grants ascending by operator,
// filtered to live grants unless includeExpired is set.
func (c *Contract) AllOperators(granter Address, block BlockInfo, includeExpired bool, startAfter Address, limit int) (*OperatorsResponse, error) {
	grants, err := c.store.ListOperators(granter, startAfter, clampLimit(limit), includeExpired, block)
	if err != nil {
		return nil, err
	}
	return &OperatorsResponse{Operators: grants}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

func liveApprovals(token *TokenInfo, block BlockInfo, includeExpired bool) []Approval {
	approvals := make([]Approval, 0, len(token.Approvals))
	for _, apr := range token.Approvals {
		if includeExpired || !apr.IsExpired(block) {
			approvals = append(approvals, apr)
		}
	}
	return approvals
}
