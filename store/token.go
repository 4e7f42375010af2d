package store

import (
	"bytes"
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
	"github.com/dummyfinance/nftd/nft"
)

const (
	prefixTokenPayload = "NFT:TOKEN:PAYLOAD:"
	prefixTokenOwner   = "NFT:TOKEN:OWNER:"
	prefixTokenBurned  = "NFT:TOKEN:BURNED:"

	keyTokenCount     = "NFT:TOKEN:COUNT"
	keyHighestTokenID = "NFT:TOKEN:HIGHEST"
)

func (bs *BadgerStore) CreateToken(id nft.TokenID, token *nft.TokenInfo) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		burned, err := bs.isBurned(txn, id)
		if err != nil {
			return err
		}
		if burned {
			return &nft.RemintBurnedError{TokenID: id}
		}
		old, err := bs.readToken(txn, id)
		if err != nil {
			return err
		}
		if old != nil {
			return &nft.ClaimedError{TokenID: id}
		}

		err = txn.Set(tokenPayloadKey(id), MsgpackMarshalPanic(token))
		if err != nil {
			return err
		}
		err = txn.Set(tokenOwnerKey(token.Owner, id), []byte{1})
		if err != nil {
			return err
		}

		count, err := bs.readTokenCount(txn)
		if err != nil {
			return err
		}
		err = txn.Set([]byte(keyTokenCount), uint64ToBytes(count+1))
		if err != nil {
			return err
		}
		return bs.raiseHighestTokenID(txn, id)
	})
}

func (bs *BadgerStore) ReadToken(id nft.TokenID) (*nft.TokenInfo, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readToken(txn, id)
}

func (bs *BadgerStore) UpdateToken(id nft.TokenID, token *nft.TokenInfo, prevOwner nft.Address) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readToken(txn, id)
		if err != nil {
			return err
		}
		if old == nil {
			return &nft.NoSuchTokenError{TokenID: id}
		}

		if prevOwner != token.Owner {
			err = txn.Delete(tokenOwnerKey(prevOwner, id))
			if err != nil {
				return err
			}
			err = txn.Set(tokenOwnerKey(token.Owner, id), []byte{1})
			if err != nil {
				return err
			}
		}
		return txn.Set(tokenPayloadKey(id), MsgpackMarshalPanic(token))
	})
}

func (bs *BadgerStore) RemoveToken(id nft.TokenID, owner nft.Address) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readToken(txn, id)
		if err != nil {
			return err
		}
		if old == nil {
			return &nft.NoSuchTokenError{TokenID: id}
		}

		err = txn.Delete(tokenPayloadKey(id))
		if err != nil {
			return err
		}
		err = txn.Delete(tokenOwnerKey(owner, id))
		if err != nil {
			return err
		}
		err = txn.Set(tokenBurnedKey(id), []byte{1})
		if err != nil {
			return err
		}

		count, err := bs.readTokenCount(txn)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyTokenCount), uint64ToBytes(count-1))
	})
}

func (bs *BadgerStore) CountTokens() (uint64, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readTokenCount(txn)
}

func (bs *BadgerStore) HighestTokenID() (nft.TokenID, bool, error) {
	val, err := bs.ReadProperty([]byte(keyHighestTokenID))
	if err != nil || val == nil {
		return 0, false, err
	}
	return nft.TokenID(binary.BigEndian.Uint64(val)), true, nil
}

func (bs *BadgerStore) ListAllTokens(startAfter *nft.TokenID, limit int) ([]nft.TokenID, error) {
	return bs.listTokenKeys([]byte(prefixTokenPayload), startAfter, limit)
}

func (bs *BadgerStore) ListTokensByOwner(owner nft.Address, startAfter *nft.TokenID, limit int) ([]nft.TokenID, error) {
	prefix := []byte(prefixTokenOwner + string(owner) + ":")
	return bs.listTokenKeys(prefix, startAfter, limit)
}

func (bs *BadgerStore) listTokenKeys(prefix []byte, startAfter *nft.TokenID, limit int) ([]nft.TokenID, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := prefix
	var cursor []byte
	if startAfter != nil {
		cursor = append(append([]byte{}, prefix...), startAfter.Bytes()...)
		seek = cursor
	}

	tokens := make([]nft.TokenID, 0, limit)
	for it.Seek(seek); it.Valid(); it.Next() {
		key := it.Item().Key()
		if cursor != nil && bytes.Equal(key, cursor) {
			continue
		}
		id, err := nft.TokenIDFromBytes(key[len(prefix):])
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, id)
		if len(tokens) == limit {
			break
		}
	}
	return tokens, nil
}

func (bs *BadgerStore) readToken(txn *badger.Txn, id nft.TokenID) (*nft.TokenInfo, error) {
	item, err := txn.Get(tokenPayloadKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var token nft.TokenInfo
	err = MsgpackUnmarshal(val, &token)
	return &token, err
}

func (bs *BadgerStore) isBurned(txn *badger.Txn, id nft.TokenID) (bool, error) {
	_, err := txn.Get(tokenBurnedKey(id))
	if err == badger.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (bs *BadgerStore) readTokenCount(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(keyTokenCount))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(val), nil
}

func (bs *BadgerStore) raiseHighestTokenID(txn *badger.Txn, id nft.TokenID) error {
	item, err := txn.Get([]byte(keyHighestTokenID))
	if err == badger.ErrKeyNotFound {
		return txn.Set([]byte(keyHighestTokenID), uint64ToBytes(uint64(id)))
	} else if err != nil {
		return err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if binary.BigEndian.Uint64(val) >= uint64(id) {
		return nil
	}
	return txn.Set([]byte(keyHighestTokenID), uint64ToBytes(uint64(id)))
}

func tokenPayloadKey(id nft.TokenID) []byte {
	return append([]byte(prefixTokenPayload), id.Bytes()...)
}

func tokenOwnerKey(owner nft.Address, id nft.TokenID) []byte {
	key := append([]byte(prefixTokenOwner), owner...)
	key = append(key, ':')
	return append(key, id.Bytes()...)
}

func tokenBurnedKey(id nft.TokenID) []byte {
	return append([]byte(prefixTokenBurned), id.Bytes()...)
}
