package nft

// Contract is the mutation and query engine over a Store. One instance per
// deployment; all registry state lives in the store.
type Contract struct {
	store Store
}

func New(store Store) *Contract {
	return &Contract{store: store}
}

// Attribute is a structured side-effect descriptor attached to a Response.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ReceiveMsg notifies the target of a send about the token it received.
type ReceiveMsg struct {
	Sender  Address `json:"sender"`
	TokenID TokenID `json:"token_id"`
	Msg     []byte  `json:"msg,omitempty"`
}

// OutboundMessage addresses a ReceiveMsg to the target of a send. Delivery
// is the dispatch collaborator's concern, not the registry's.
type OutboundMessage struct {
	Target Address `json:"target"`
	ReceiveMsg
}

// Response carries the side-effect attributes of a successful mutation plus
// any outbound messages for the dispatch collaborator.
type Response struct {
	Attributes []Attribute       `json:"attributes"`
	Messages   []OutboundMessage `json:"messages,omitempty"`
}

type MintMsg struct {
	TokenID   TokenID  `json:"token_id"`
	Owner     Address  `json:"owner"`
	TokenURI  string   `json:"token_uri,omitempty"`
	Extension Metadata `json:"extension"`
}

// Mint creates a new token owned by msg.Owner. Only the configured minter
// may mint, a live id fails Claimed, a retired id fails RemintBurned.
func (c *Contract) Mint(caller Address, msg *MintMsg) (*Response, error) {
	minter, err := c.store.ReadMinter()
	if err != nil {
		return nil, err
	}
	if caller != minter {
		return nil, &UnauthorizedError{Actor: caller, Action: "mint", TokenID: msg.TokenID}
	}

	token := &TokenInfo{
		Owner:     msg.Owner,
		Approvals: []Approval{},
		TokenURI:  msg.TokenURI,
		Extension: msg.Extension,
	}
	err = c.store.CreateToken(msg.TokenID, token)
	if err != nil {
		return nil, err
	}

	return &Response{Attributes: []Attribute{
		{"action", "mint"},
		{"minter", string(caller)},
		{"token_id", msg.TokenID.String()},
	}}, nil
}

// TransferNFT moves ownership to recipient and clears all approvals.
func (c *Contract) TransferNFT(caller Address, block BlockInfo, recipient Address, id TokenID) (*Response, error) {
	_, err := c.transfer(caller, block, recipient, id)
	if err != nil {
		return nil, err
	}

	return &Response{Attributes: []Attribute{
		{"action", "transfer_nft"},
		{"sender", string(caller)},
		{"recipient", string(recipient)},
		{"token_id", id.String()},
	}}, nil
}

// SendNFT transfers the token to target and emits a receive notification
// addressed to it, carrying the opaque msg payload.
func (c *Contract) SendNFT(caller Address, block BlockInfo, target Address, id TokenID, msg []byte) (*Response, error) {
	_, err := c.transfer(caller, block, target, id)
	if err != nil {
		return nil, err
	}

	return &Response{
		Attributes: []Attribute{
			{"action", "send_nft"},
			{"sender", string(caller)},
			{"recipient", string(target)},
			{"token_id", id.String()},
		},
		Messages: []OutboundMessage{{
			Target:     target,
			ReceiveMsg: ReceiveMsg{Sender: caller, TokenID: id, Msg: msg},
		}},
	}, nil
}

// Approve grants spender transfer rights over the token until expires. The
// zero expiration never expires.
func (c *Contract) Approve(caller Address, block BlockInfo, spender Address, id TokenID, expires Expiration) (*Response, error) {
	_, err := c.updateApprovals(caller, block, spender, id, true, expires)
	if err != nil {
		return nil, err
	}

	return &Response{Attributes: []Attribute{
		{"action", "approve"},
		{"sender", string(caller)},
		{"spender", string(spender)},
		{"token_id", id.String()},
	}}, nil
}

// Revoke removes any approval held by spender on the token.
func (c *Contract) Revoke(caller Address, block BlockInfo, spender Address, id TokenID) (*Response, error) {
	_, err := c.updateApprovals(caller, block, spender, id, false, Expiration{})
	if err != nil {
		return nil, err
	}

	return &Response{Attributes: []Attribute{
		{"action", "revoke"},
		{"sender", string(caller)},
		{"spender", string(spender)},
		{"token_id", id.String()},
	}}, nil
}

// ApproveAll grants operator blanket transfer rights over all of the
// caller's tokens until expires. Re-granting overwrites.
func (c *Contract) ApproveAll(caller Address, block BlockInfo, operator Address, expires Expiration) (*Response, error) {
	if expires.IsExpired(block) {
		return nil, &ExpiredError{}
	}
	err := c.store.WriteOperator(caller, operator, expires)
	if err != nil {
		return nil, err
	}

	return &Response{Attributes: []Attribute{
		{"action", "approve_all"},
		{"sender", string(caller)},
		{"operator", string(operator)},
	}}, nil
}

// RevokeAll deletes the caller's grant for operator; absence is not an error.
func (c *Contract) RevokeAll(caller Address, operator Address) (*Response, error) {
	err := c.store.RemoveOperator(caller, operator)
	if err != nil {
		return nil, err
	}

	return &Response{Attributes: []Attribute{
		{"action", "revoke_all"},
		{"sender", string(caller)},
		{"operator", string(operator)},
	}}, nil
}

// Burn removes the token permanently and retires its id forever. The highest
// minted id is unaffected.
func (c *Contract) Burn(caller Address, block BlockInfo, id TokenID) (*Response, error) {
	token, err := c.loadToken(id)
	if err != nil {
		return nil, err
	}
	ok, err := c.canSend(caller, block, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UnauthorizedError{Actor: caller, Action: "burn", TokenID: id}
	}

	err = c.store.RemoveToken(id, token.Owner)
	if err != nil {
		return nil, err
	}

	return &Response{Attributes: []Attribute{
		{"action", "burn"},
		{"sender", string(caller)},
		{"token_id", id.String()},
	}}, nil
}

func (c *Contract) transfer(caller Address, block BlockInfo, recipient Address, id TokenID) (*TokenInfo, error) {
	token, err := c.loadToken(id)
	if err != nil {
		return nil, err
	}
	ok, err := c.canSend(caller, block, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UnauthorizedError{Actor: caller, Action: "transfer", TokenID: id}
	}

	prev := token.Owner
	token.Owner = recipient
	token.Approvals = []Approval{}
	err = c.store.UpdateToken(id, token, prev)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (c *Contract) updateApprovals(caller Address, block BlockInfo, spender Address, id TokenID, add bool, expires Expiration) (*TokenInfo, error) {
	token, err := c.loadToken(id)
	if err != nil {
		return nil, err
	}
	ok, err := c.canApprove(caller, block, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UnauthorizedError{Actor: caller, Action: "approve", TokenID: id}
	}

	// remove any approval for the same spender before adding
	approvals := make([]Approval, 0, len(token.Approvals))
	for _, apr := range token.Approvals {
		if apr.Spender != spender {
			approvals = append(approvals, apr)
		}
	}
	token.Approvals = approvals

	if add {
		if expires.IsExpired(block) {
			return nil, &ExpiredError{}
		}
		token.Approvals = append(token.Approvals, Approval{Spender: spender, Expires: expires})
	}

	err = c.store.UpdateToken(id, token, token.Owner)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (c *Contract) loadToken(id TokenID) (*TokenInfo, error) {
	token, err := c.store.ReadToken(id)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, &NoSuchTokenError{TokenID: id}
	}
	return token, nil
}
