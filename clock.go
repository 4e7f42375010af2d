package main

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/dummyfinance/nftd/nft"
	"github.com/dummyfinance/nftd/store"
)

const (
	clockStoreNowKey     = "NFT:CLOCK:MONOTONIC"
	clockStoreGenesisKey = "NFT:CLOCK:GENESIS"
)

// Clock derives the block context from wall time. The latest observed time
// is persisted so a restart with a skewed system clock can never move block
// time backwards, and the height counts fixed intervals since the genesis
// instant recorded on first run.
type Clock struct {
	sync.Mutex
	store    *store.BadgerStore
	interval time.Duration
	genesis  time.Time
	now      time.Time
}

func NewClock(bs *store.BadgerStore, interval time.Duration) (*Clock, error) {
	if interval <= 0 {
		interval = time.Second
	}
	now := time.Now()
	val, err := bs.ReadProperty([]byte(clockStoreNowKey))
	if err != nil {
		return nil, err
	}
	if len(val) == 8 {
		if ts := time.Unix(0, int64(binary.BigEndian.Uint64(val))); ts.After(now) {
			now = ts
		}
	}

	genesis := now
	val, err = bs.ReadProperty([]byte(clockStoreGenesisKey))
	if err != nil {
		return nil, err
	}
	if len(val) == 8 {
		genesis = time.Unix(0, int64(binary.BigEndian.Uint64(val)))
	} else {
		buf := binary.BigEndian.AppendUint64(nil, uint64(genesis.UnixNano()))
		err = bs.WriteProperty([]byte(clockStoreGenesisKey), buf)
		if err != nil {
			return nil, err
		}
	}

	return &Clock{
		store:    bs,
		interval: interval,
		genesis:  genesis,
		now:      now,
	}, nil
}

func (c *Clock) Block() nft.BlockInfo {
	c.Lock()
	defer c.Unlock()

	if now := time.Now(); now.After(c.now) {
		c.now = now
		val := binary.BigEndian.AppendUint64(nil, uint64(now.UnixNano()))
		for {
			err := c.store.WriteProperty([]byte(clockStoreNowKey), val)
			if err == nil {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
	return nft.BlockInfo{
		Height: uint64(c.now.Sub(c.genesis) / c.interval),
		Time:   uint64(c.now.UnixNano()),
	}
}
