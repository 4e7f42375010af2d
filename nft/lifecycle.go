package nft

import (
	"fmt"
	"strings"
)

const (
	ContractName    = "dummy.finance/nfts"
	ContractVersion = "1.0.0"
)

type InstantiateMsg struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Minter Address `json:"minter"`
}

type MigrateMsg struct {
	Name   string  `json:"name,omitempty"`
	Symbol string  `json:"symbol,omitempty"`
	Minter Address `json:"minter,omitempty"`
}

// Instantiate writes the initial contract metadata, minter and version tag.
// Counters start absent.
func (c *Contract) Instantiate(msg *InstantiateMsg) error {
	err := c.store.WriteContractVersion(ContractName + "@" + ContractVersion)
	if err != nil {
		return err
	}
	err = c.store.WriteContractInfo(&ContractInfo{Name: msg.Name, Symbol: msg.Symbol})
	if err != nil {
		return err
	}
	return c.store.WriteMinter(msg.Minter)
}

// Initialized reports whether Instantiate has run against the store.
func (c *Contract) Initialized() (bool, error) {
	version, err := c.store.ReadContractVersion()
	return version != "", err
}

// Migrate partially overwrites name, symbol and minter. It refuses to run
// over a store tagged with a different contract name; gating the caller is
// the shell's concern.
func (c *Contract) Migrate(msg *MigrateMsg) error {
	version, err := c.store.ReadContractVersion()
	if err != nil {
		return err
	}
	name, _, _ := strings.Cut(version, "@")
	if name != ContractName {
		return fmt.Errorf("can only upgrade from same contract type, got %q", version)
	}
	err = c.store.WriteContractVersion(ContractName + "@" + ContractVersion)
	if err != nil {
		return err
	}

	info, err := c.ContractInfo()
	if err != nil {
		return err
	}
	if msg.Name != "" {
		info.Name = msg.Name
	}
	if msg.Symbol != "" {
		info.Symbol = msg.Symbol
	}
	err = c.store.WriteContractInfo(info)
	if err != nil {
		return err
	}

	if msg.Minter != "" {
		return c.store.WriteMinter(msg.Minter)
	}
	return nil
}
