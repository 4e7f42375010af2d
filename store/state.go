package store

import (
	"github.com/dummyfinance/nftd/nft"
)

const (
	keyContractInfo    = "NFT:STATE:INFO"
	keyContractVersion = "NFT:STATE:VERSION"
	keyMinter          = "NFT:STATE:MINTER"
)

func (bs *BadgerStore) WriteContractInfo(info *nft.ContractInfo) error {
	return bs.WriteProperty([]byte(keyContractInfo), MsgpackMarshalPanic(info))
}

func (bs *BadgerStore) ReadContractInfo() (*nft.ContractInfo, error) {
	val, err := bs.ReadProperty([]byte(keyContractInfo))
	if err != nil || val == nil {
		return nil, err
	}
	var info nft.ContractInfo
	err = MsgpackUnmarshal(val, &info)
	return &info, err
}

func (bs *BadgerStore) WriteContractVersion(version string) error {
	return bs.WriteProperty([]byte(keyContractVersion), []byte(version))
}

func (bs *BadgerStore) ReadContractVersion() (string, error) {
	val, err := bs.ReadProperty([]byte(keyContractVersion))
	return string(val), err
}

func (bs *BadgerStore) WriteMinter(minter nft.Address) error {
	return bs.WriteProperty([]byte(keyMinter), []byte(minter))
}

func (bs *BadgerStore) ReadMinter() (nft.Address, error) {
	val, err := bs.ReadProperty([]byte(keyMinter))
	return nft.Address(val), err
}
