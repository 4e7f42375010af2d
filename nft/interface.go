package nft

// Store is the persistence contract for the registry. Every mutating call
// must apply all of its writes atomically; the host serializes invocations,
// so implementations need no further concurrency control. Point reads return
// a nil record for absent keys, never an error.
type Store interface {
	WriteContractInfo(info *ContractInfo) error
	ReadContractInfo() (*ContractInfo, error)
	WriteContractVersion(version string) error
	ReadContractVersion() (string, error)
	WriteMinter(minter Address) error
	ReadMinter() (Address, error)

	// CreateToken writes the token record, its owner index entry, the
	// incremented token count and the raised highest id in one step. A live
	// record or a burned id fails the whole step.
	CreateToken(id TokenID, token *TokenInfo) error
	ReadToken(id TokenID) (*TokenInfo, error)
	// UpdateToken rewrites the record and moves the owner index entry from
	// prevOwner when the owner changed.
	UpdateToken(id TokenID, token *TokenInfo, prevOwner Address) error
	// RemoveToken deletes the record and its index entry, retires the id in
	// the burned set and decrements the token count.
	RemoveToken(id TokenID, owner Address) error
	CountTokens() (uint64, error)
	HighestTokenID() (TokenID, bool, error)
	ListAllTokens(startAfter *TokenID, limit int) ([]TokenID, error)
	ListTokensByOwner(owner Address, startAfter *TokenID, limit int) ([]TokenID, error)

	WriteOperator(granter, operator Address, expires Expiration) error
	RemoveOperator(granter, operator Address) error
	ReadOperator(granter, operator Address) (*Expiration, error)
	ListOperators(granter Address, startAfter Address, limit int, includeExpired bool, block BlockInfo) ([]Approval, error)
}
