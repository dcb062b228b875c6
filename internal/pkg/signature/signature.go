package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign 对序列化后的报文计算 HMAC-SHA256 签名，返回小写十六进制。
//
// 纯函数，相同输入恒定输出。报文新鲜度由报文内的时间戳字段保证，
// 签名本身不掺入时间或随机量。
func Sign(payload []byte, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify 重算签名并做恒定时间比较，供客户侧校验回调请求。
func Verify(payload []byte, sig string, secret []byte) bool {
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(sig))
}
