package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID 模型主键统一用 UUID 字符串
func NewID() string { return uuid.NewString() }

// NewSecret 返回 n 字节熵的十六进制串，会话 ID 用
func NewSecret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand 失败说明环境已不可用
		panic(err)
	}
	return hex.EncodeToString(b)
}
