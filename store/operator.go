package store

import (
	"bytes"

	"github.com/dgraph-io/badger/v4"
	"github.com/dummyfinance/nftd/nft"
)

const prefixOperatorPayload = "NFT:OPERATOR:PAYLOAD:"

func (bs *BadgerStore) WriteOperator(granter, operator nft.Address, expires nft.Expiration) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(operatorKey(granter, operator), MsgpackMarshalPanic(&expires))
	})
}

func (bs *BadgerStore) RemoveOperator(granter, operator nft.Address) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(operatorKey(granter, operator))
	})
}

func (bs *BadgerStore) ReadOperator(granter, operator nft.Address) (*nft.Expiration, error) {
	val, err := bs.ReadProperty(operatorKey(granter, operator))
	if err != nil || val == nil {
		return nil, err
	}
	var expires nft.Expiration
	err = MsgpackUnmarshal(val, &expires)
	return &expires, err
}

func (bs *BadgerStore) ListOperators(granter nft.Address, startAfter nft.Address, limit int, includeExpired bool, block nft.BlockInfo) ([]nft.Approval, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixOperatorPayload + string(granter) + ":")
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := opts.Prefix
	var cursor []byte
	if startAfter != "" {
		cursor = append(append([]byte{}, opts.Prefix...), startAfter...)
		seek = cursor
	}

	grants := make([]nft.Approval, 0, limit)
	for it.Seek(seek); it.Valid(); it.Next() {
		key := it.Item().Key()
		if cursor != nil && bytes.Equal(key, cursor) {
			continue
		}
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var expires nft.Expiration
		err = MsgpackUnmarshal(val, &expires)
		if err != nil {
			return nil, err
		}
		if !includeExpired && expires.IsExpired(block) {
			continue
		}
		grants = append(grants, nft.Approval{
			Spender: nft.Address(key[len(opts.Prefix):]),
			Expires: expires,
		})
		if len(grants) == limit {
			break
		}
	}
	return grants, nil
}

func operatorKey(granter, operator nft.Address) []byte {
	return []byte(prefixOperatorPayload + string(granter) + ":" + string(operator))
}
