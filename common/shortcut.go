package common

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	HASH_HEX_LEN = 64
)

func Encode(data interface{}) ([]byte, error) {
	buff := new(bytes.Buffer)
	encoder := json.NewEncoder(buff)
	err := encoder.Encode(data)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func Decode[T interface{}](bs []byte) (*T, error) {
	buff := new(bytes.Buffer)
	var data T
	buff.Write(bs)
	decoder := json.NewDecoder(buff)
	err := decoder.Decode(&data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func ToHex[T comparable](num T) ([]byte, error) {
	buff := new(bytes.Buffer)
	err := binary.Write(buff, binary.BigEndian, num)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func FromHex[T comparable](hex []byte) (T, error) {
	var num T
	err := binary.Read(bytes.NewBuffer(hex), binary.BigEndian, &num)
	return num, err
}

// HashHex digests the separator-free concatenation of parts with sha3-256
// and renders it as lowercase hex.
func HashHex(parts ...string) string {
	h := sha3.New256()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func HasLeadingZeros(hash string, n int) bool {
	if n <= 0 {
		return true
	}
	if n > len(hash) {
		return false
	}
	return strings.Count(hash[:n], "0") == n
}

func ExistFile(name string) bool {
	_, err := os.Stat(name)
	return !os.IsNotExist(err)
}
