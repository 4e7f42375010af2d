package store

import (
	"encoding/binary"

	"github.com/vmihailenco/msgpack/v5"
)

func MsgpackMarshalPanic(val any) []byte {
	b, err := msgpack.Marshal(val)
	if err != nil {
		panic(err)
	}
	return b
}

func MsgpackUnmarshal(data []byte, val any) error {
	return msgpack.Unmarshal(data, val)
}

func uint64ToBytes(d uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, d)
	return buf
}
