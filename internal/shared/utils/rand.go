package utils

import (
	"crypto/rand"
	"math/big"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandSeq 生成长度 n 的随机串，ws 握手密钥用（AES-128 需要 16 位）。
func RandSeq(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(letters)))
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = letters[v.Int64()]
	}
	return string(b)
}
