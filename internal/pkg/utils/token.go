package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	linkAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	linkLength   = 32
)

// GenerateShareLink 生成不可猜测的外部分享令牌
// 32 位字母数字, 约 190 bit 熵, 使用 crypto/rand
func GenerateShareLink() (string, error) {
	buf := make([]byte, linkLength)
	max := big.NewInt(int64(len(linkAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate share link: %w", err)
		}
		buf[i] = linkAlphabet[n.Int64()]
	}
	return string(buf), nil
}
