package resolver

import "errors"

var (
	// ErrUnsupportedAddr 解析器不支持的地址类型
	ErrUnsupportedAddr = errors.New("resolver: unsupported address type")

	// ErrNoRecords 解析成功但没有可用记录
	ErrNoRecords = errors.New("resolver: no address records")

	// ErrClosed 解析器已关闭
	ErrClosed = errors.New("resolver: closed")
)
