package security

import "github.com/go-think/openssl"

// AesCBCEncrypt ws 帧加密，key 同时作为 iv（与客户端约定）。
func AesCBCEncrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCEncrypt(src, key, iv, padding)
}

func AesCBCDecrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCDecrypt(src, key, iv, padding)
}
