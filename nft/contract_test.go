package nft_test

import (
	"context"
	"testing"

	"github.com/dummyfinance/nftd/nft"
	"github.com/dummyfinance/nftd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	minter  = nft.Address("1f1e4b2d-0001-4000-8000-000000000001")
	alice   = nft.Address("1f1e4b2d-0002-4000-8000-000000000002")
	bob     = nft.Address("1f1e4b2d-0003-4000-8000-000000000003")
	carol   = nft.Address("1f1e4b2d-0004-4000-8000-000000000004")
	mallory = nft.Address("1f1e4b2d-0005-4000-8000-000000000005")
)

var block = nft.BlockInfo{Height: 100, Time: 1700000000000000000}

func testContract(t *testing.T) (*nft.Contract, *store.BadgerStore) {
	db, err := store.OpenBadger(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := nft.New(db)
	err = c.Instantiate(&nft.InstantiateMsg{Name: "Dummy NFTs", Symbol: "DUMMY", Minter: minter})
	require.NoError(t, err)
	return c, db
}

func mintToken(t *testing.T, c *nft.Contract, id nft.TokenID, owner nft.Address) {
	t.Helper()
	_, err := c.Mint(minter, &nft.MintMsg{
		TokenID:   id,
		Owner:     owner,
		TokenURI:  "ipfs://deadbeef/" + id.String(),
		Extension: nft.Metadata{Image: "ipfs://deadbeef", Description: "some desc", Name: "some name"},
	})
	require.NoError(t, err)
}

func TestMintAndQuery(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 7, alice)

	info, err := c.NftInfo(7)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://deadbeef/7", info.TokenURI)
	assert.Equal(t, "some name", info.Extension.Name)

	owner, err := c.OwnerOf(7, block, false)
	require.NoError(t, err)
	assert.Equal(t, alice, owner.Owner)
	assert.Empty(t, owner.Approvals)

	count, err := c.NumTokens()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count.Count)

	highest, err := c.HighestTokenID()
	require.NoError(t, err)
	require.NotNil(t, highest.HighestTokenID)
	assert.Equal(t, nft.TokenID(7), *highest.HighestTokenID)
}

func TestMintAttributes(t *testing.T) {
	c, _ := testContract(t)
	resp, err := c.Mint(minter, &nft.MintMsg{TokenID: 1, Owner: alice})
	require.NoError(t, err)
	assert.Equal(t, []nft.Attribute{
		{Key: "action", Value: "mint"},
		{Key: "minter", Value: string(minter)},
		{Key: "token_id", Value: "1"},
	}, resp.Attributes)
}

func TestMintRequiresMinter(t *testing.T) {
	c, _ := testContract(t)
	_, err := c.Mint(alice, &nft.MintMsg{TokenID: 1, Owner: alice})
	require.ErrorIs(t, err, nft.ErrUnauthorized)
}

func TestMintClaimedAndRemintBurned(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.Mint(minter, &nft.MintMsg{TokenID: 1, Owner: bob})
	var claimed *nft.ClaimedError
	require.ErrorAs(t, err, &claimed)
	assert.Equal(t, nft.TokenID(1), claimed.TokenID)

	_, err = c.Burn(alice, block, 1)
	require.NoError(t, err)

	_, err = c.Mint(minter, &nft.MintMsg{TokenID: 1, Owner: bob})
	var remint *nft.RemintBurnedError
	require.ErrorAs(t, err, &remint)
	assert.Equal(t, nft.TokenID(1), remint.TokenID)
}

func TestQueryUnknownToken(t *testing.T) {
	c, _ := testContract(t)
	_, err := c.NftInfo(99)
	var missing *nft.NoSuchTokenError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, nft.TokenID(99), missing.TokenID)
}

func TestTransferByOwner(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	resp, err := c.TransferNFT(alice, block, bob, 1)
	require.NoError(t, err)
	assert.Contains(t, resp.Attributes, nft.Attribute{Key: "action", Value: "transfer_nft"})

	owner, err := c.OwnerOf(1, block, true)
	require.NoError(t, err)
	assert.Equal(t, bob, owner.Owner)

	// the owner index follows the record
	tokens, err := c.Tokens(alice, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, tokens.Tokens)
	tokens, err = c.Tokens(bob, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []nft.TokenID{1}, tokens.Tokens)
}

func TestTransferUnauthorized(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.TransferNFT(mallory, block, mallory, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)

	owner, err := c.OwnerOf(1, block, true)
	require.NoError(t, err)
	assert.Equal(t, alice, owner.Owner, "failed transfer must not change state")
}

func TestTransferClearsApprovals(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.Approve(alice, block, bob, 1, nft.ExpiresNever())
	require.NoError(t, err)
	_, err = c.TransferNFT(alice, block, carol, 1)
	require.NoError(t, err)

	owner, err := c.OwnerOf(1, block, true)
	require.NoError(t, err)
	assert.Equal(t, carol, owner.Owner)
	assert.Empty(t, owner.Approvals)

	_, err = c.TransferNFT(bob, block, bob, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)
}

func TestApprovedSpenderCanSend(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	expires := nft.ExpiresAtHeight(block.Height + 10)
	_, err := c.Approve(alice, block, bob, 1, expires)
	require.NoError(t, err)

	owner, err := c.OwnerOf(1, block, false)
	require.NoError(t, err)
	assert.Equal(t, []nft.Approval{{Spender: bob, Expires: expires}}, owner.Approvals)

	_, err = c.TransferNFT(bob, block, bob, 1)
	require.NoError(t, err)
}

func TestApprovalExpiry(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.Approve(alice, block, bob, 1, nft.ExpiresAtHeight(block.Height+10))
	require.NoError(t, err)

	later := nft.BlockInfo{Height: block.Height + 10, Time: block.Time}
	_, err = c.TransferNFT(bob, later, bob, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)

	// expired approvals are hidden unless asked for
	owner, err := c.OwnerOf(1, later, false)
	require.NoError(t, err)
	assert.Empty(t, owner.Approvals)
	owner, err = c.OwnerOf(1, later, true)
	require.NoError(t, err)
	assert.Len(t, owner.Approvals, 1)
}

func TestApproveRejectsPastExpiration(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.Approve(alice, block, bob, 1, nft.ExpiresAtHeight(block.Height))
	var expired *nft.ExpiredError
	require.ErrorAs(t, err, &expired)
}

func TestApproveReplacesPriorApproval(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.Approve(alice, block, bob, 1, nft.ExpiresAtHeight(block.Height+5))
	require.NoError(t, err)
	_, err = c.Approve(alice, block, bob, 1, nft.ExpiresAtHeight(block.Height+20))
	require.NoError(t, err)

	owner, err := c.OwnerOf(1, block, true)
	require.NoError(t, err)
	assert.Equal(t, []nft.Approval{{Spender: bob, Expires: nft.ExpiresAtHeight(block.Height + 20)}}, owner.Approvals)
}

func TestRevokeApproval(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.Approve(alice, block, bob, 1, nft.ExpiresNever())
	require.NoError(t, err)
	_, err = c.Revoke(alice, block, bob, 1)
	require.NoError(t, err)

	_, err = c.TransferNFT(bob, block, bob, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)
}

func TestApprovedSpenderCannotApprove(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.Approve(alice, block, bob, 1, nft.ExpiresNever())
	require.NoError(t, err)

	_, err = c.Approve(bob, block, carol, 1, nft.ExpiresNever())
	require.ErrorIs(t, err, nft.ErrUnauthorized)
	_, err = c.Revoke(bob, block, bob, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)
}

func TestOperatorCanSendAndApprove(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)
	mintToken(t, c, 2, alice)

	expiry := block.Height + 10
	_, err := c.ApproveAll(alice, block, bob, nft.ExpiresAtHeight(expiry))
	require.NoError(t, err)

	// operator may approve on the owner's behalf
	_, err = c.Approve(bob, block, carol, 1, nft.ExpiresNever())
	require.NoError(t, err)

	// and transfer any of the granter's tokens
	_, err = c.TransferNFT(bob, block, carol, 2)
	require.NoError(t, err)

	// but the grant stops at its expiration height
	later := nft.BlockInfo{Height: expiry, Time: block.Time}
	_, err = c.TransferNFT(bob, later, bob, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)
	_, err = c.Approve(bob, later, mallory, 1, nft.ExpiresNever())
	require.ErrorIs(t, err, nft.ErrUnauthorized)
}

func TestOperatorGrantDoesNotCoverOtherOwners(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, carol)

	_, err := c.ApproveAll(alice, block, bob, nft.ExpiresNever())
	require.NoError(t, err)

	_, err = c.TransferNFT(bob, block, bob, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)
}

func TestApproveAllRejectsPastExpiration(t *testing.T) {
	c, _ := testContract(t)
	_, err := c.ApproveAll(alice, block, bob, nft.ExpiresAtTime(block.Time))
	var expired *nft.ExpiredError
	require.ErrorAs(t, err, &expired)
}

func TestRevokeAll(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.ApproveAll(alice, block, bob, nft.ExpiresNever())
	require.NoError(t, err)
	_, err = c.RevokeAll(alice, bob)
	require.NoError(t, err)

	_, err = c.TransferNFT(bob, block, bob, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)

	// revoking an absent grant is not an error
	_, err = c.RevokeAll(alice, bob)
	require.NoError(t, err)
}

func TestAllOperatorsListing(t *testing.T) {
	c, _ := testContract(t)

	_, err := c.ApproveAll(alice, block, bob, nft.ExpiresAtHeight(block.Height+1))
	require.NoError(t, err)
	_, err = c.ApproveAll(alice, block, carol, nft.ExpiresNever())
	require.NoError(t, err)

	ops, err := c.AllOperators(alice, block, false, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []nft.Approval{
		{Spender: bob, Expires: nft.ExpiresAtHeight(block.Height + 1)},
		{Spender: carol, Expires: nft.ExpiresNever()},
	}, ops.Operators)

	later := nft.BlockInfo{Height: block.Height + 1, Time: block.Time}
	ops, err = c.AllOperators(alice, later, false, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []nft.Approval{{Spender: carol, Expires: nft.ExpiresNever()}}, ops.Operators)

	ops, err = c.AllOperators(alice, later, true, "", 0)
	require.NoError(t, err)
	assert.Len(t, ops.Operators, 2)

	// exclusive cursor over operator identifiers
	ops, err = c.AllOperators(alice, block, false, bob, 0)
	require.NoError(t, err)
	assert.Equal(t, []nft.Approval{{Spender: carol, Expires: nft.ExpiresNever()}}, ops.Operators)
}

func TestBurnAuthorization(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)

	_, err := c.Burn(mallory, block, 1)
	require.ErrorIs(t, err, nft.ErrUnauthorized)

	_, err = c.Approve(alice, block, bob, 1, nft.ExpiresNever())
	require.NoError(t, err)
	_, err = c.Burn(bob, block, 1)
	require.NoError(t, err)

	_, err = c.NftInfo(1)
	var missing *nft.NoSuchTokenError
	require.ErrorAs(t, err, &missing)
}

func TestTokenCountTracksMintAndBurn(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)
	mintToken(t, c, 2, alice)
	mintToken(t, c, 3, bob)

	count, err := c.NumTokens()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count.Count)

	_, err = c.TransferNFT(alice, block, carol, 1)
	require.NoError(t, err)
	_, err = c.Approve(bob, block, carol, 3, nft.ExpiresNever())
	require.NoError(t, err)
	count, err = c.NumTokens()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count.Count, "transfer and approve leave the count alone")

	_, err = c.Burn(bob, block, 3)
	require.NoError(t, err)
	count, err = c.NumTokens()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count.Count)
}

func TestHighestTokenIDIgnoresOrderAndBurns(t *testing.T) {
	c, _ := testContract(t)

	highest, err := c.HighestTokenID()
	require.NoError(t, err)
	assert.Nil(t, highest.HighestTokenID, "absent before the first mint")

	mintToken(t, c, 1, alice)
	mintToken(t, c, 5, alice)
	mintToken(t, c, 4, alice)

	highest, err = c.HighestTokenID()
	require.NoError(t, err)
	require.NotNil(t, highest.HighestTokenID)
	assert.Equal(t, nft.TokenID(5), *highest.HighestTokenID)

	_, err = c.Burn(alice, block, 5)
	require.NoError(t, err)
	highest, err = c.HighestTokenID()
	require.NoError(t, err)
	require.NotNil(t, highest.HighestTokenID)
	assert.Equal(t, nft.TokenID(5), *highest.HighestTokenID, "burn does not lower the highest id")
}

func TestPagination(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 1, alice)
	mintToken(t, c, 2, bob)
	mintToken(t, c, 3, alice)

	page, err := c.AllTokens(nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []nft.TokenID{1, 2}, page.Tokens)

	cursor := nft.TokenID(2)
	page, err = c.AllTokens(&cursor, 0)
	require.NoError(t, err)
	assert.Equal(t, []nft.TokenID{3}, page.Tokens)

	page, err = c.Tokens(alice, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []nft.TokenID{1, 3}, page.Tokens)

	page, err = c.Tokens(alice, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []nft.TokenID{1}, page.Tokens)

	cursor = nft.TokenID(1)
	page, err = c.Tokens(alice, &cursor, 0)
	require.NoError(t, err)
	assert.Equal(t, []nft.TokenID{3}, page.Tokens)

	cursor = nft.TokenID(3)
	page, err = c.Tokens(alice, &cursor, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Tokens)
}

func TestPaginationIsDeterministic(t *testing.T) {
	c, _ := testContract(t)
	for id := nft.TokenID(1); id <= 12; id++ {
		mintToken(t, c, id, alice)
	}

	first, err := c.AllTokens(nil, 5)
	require.NoError(t, err)
	second, err := c.AllTokens(nil, 5)
	require.NoError(t, err)
	assert.Equal(t, first.Tokens, second.Tokens)
	assert.Len(t, first.Tokens, 5)

	// the default page size is 10
	page, err := c.AllTokens(nil, 0)
	require.NoError(t, err)
	assert.Len(t, page.Tokens, 10)
}

func TestSendNFTEmitsReceiveMsg(t *testing.T) {
	c, _ := testContract(t)
	mintToken(t, c, 9, alice)

	payload := []byte(`{"action":"stake"}`)
	resp, err := c.SendNFT(alice, block, carol, 9, payload)
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, carol, resp.Messages[0].Target)
	assert.Equal(t, alice, resp.Messages[0].Sender)
	assert.Equal(t, nft.TokenID(9), resp.Messages[0].TokenID)
	assert.Equal(t, payload, resp.Messages[0].Msg)

	owner, err := c.OwnerOf(9, block, true)
	require.NoError(t, err)
	assert.Equal(t, carol, owner.Owner)
}

func TestInstantiateAndContractInfo(t *testing.T) {
	c, _ := testContract(t)

	info, err := c.ContractInfo()
	require.NoError(t, err)
	assert.Equal(t, &nft.ContractInfo{Name: "Dummy NFTs", Symbol: "DUMMY"}, info)

	m, err := c.Minter()
	require.NoError(t, err)
	assert.Equal(t, minter, m.Minter)
}

func TestMigratePartialOverwrite(t *testing.T) {
	c, _ := testContract(t)

	err := c.Migrate(&nft.MigrateMsg{Symbol: "DMY", Minter: carol})
	require.NoError(t, err)

	info, err := c.ContractInfo()
	require.NoError(t, err)
	assert.Equal(t, "Dummy NFTs", info.Name)
	assert.Equal(t, "DMY", info.Symbol)

	m, err := c.Minter()
	require.NoError(t, err)
	assert.Equal(t, carol, m.Minter)

	// the old minter lost the mint right
	_, err = c.Mint(minter, &nft.MintMsg{TokenID: 1, Owner: alice})
	require.ErrorIs(t, err, nft.ErrUnauthorized)
	_, err = c.Mint(carol, &nft.MintMsg{TokenID: 1, Owner: alice})
	require.NoError(t, err)
}

func TestMigrateRejectsForeignVersionTag(t *testing.T) {
	c, db := testContract(t)

	err := db.WriteContractVersion("someone.else/tokens@2.0.0")
	require.NoError(t, err)

	err = c.Migrate(&nft.MigrateMsg{Name: "Other"})
	require.Error(t, err)
}
