package nft

// canApprove reports whether caller may grant or revoke approvals on the
// token: the owner always can, the holder of a live operator grant from the
// owner can, an approved spender cannot delegate further.
func (c *Contract) canApprove(caller Address, block BlockInfo, token *TokenInfo) (bool, error) {
	if caller == token.Owner {
		return true, nil
	}
	op, err := c.store.ReadOperator(token.Owner, caller)
	if err != nil {
		return false, err
	}
	return op != nil && !op.IsExpired(block), nil
}

// canSend reports whether caller may transfer or burn the token: the owner,
// any spender with a live per-token approval, or the holder of a live
// operator grant from the owner.
func (c *Contract) canSend(caller Address, block BlockInfo, token *TokenInfo) (bool, error) {
	if caller == token.Owner {
		return true, nil
	}
	for _, apr := range token.Approvals {
		if apr.Spender == caller && !apr.IsExpired(block) {
			return true, nil
		}
	}
	op, err := c.store.ReadOperator(token.Owner, caller)
	if err != nil {
		return false, err
	}
	return op != nil && !op.IsExpired(block), nil
}
