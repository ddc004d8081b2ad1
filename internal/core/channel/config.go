package channel

import "time"

// Config Channel 配置
type Config struct {
	// DialTimeout 出站连接超时
	DialTimeout time.Duration

	// ReadBufferSize 读缓冲大小
	ReadBufferSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		DialTimeout:    10 * time.Second,
		ReadBufferSize: 32 * 1024,
	}
}
