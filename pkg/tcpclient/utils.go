package tcpclient

import (
	"encoding/binary"
)

func GetHeader(command byte) []byte {
	return []byte{command}
}

func Uint32ToBytes(a uint32) []byte {
	bs := make([]byte, 4)
	binary.BigEndian.PutUint32(bs, a)
	return bs
}
