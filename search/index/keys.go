package index

import "encoding/binary"

// Keys are big endian so that byte order matches numeric order in the KV store.

func Uint32Key(val uint32) []byte {
	return binary.BigEndian.AppendUint32(make([]byte, 0, 4), val)
}

func Uint64Key(val uint64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), val)
}
