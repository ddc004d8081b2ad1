package correlation

import "errors"

// 预定义错误
var (
	// ErrTimeout 条目超时
	ErrTimeout = errors.New("correlation: request timed out")

	// ErrChannelClosed 承载条目的 Channel 已关闭
	ErrChannelClosed = errors.New("correlation: channel closed")

	// ErrTableFull id 空间内全部 id 均在用
	ErrTableFull = errors.New("correlation: no transaction id available")

	// ErrNilChannel 未提供承载 Channel
	ErrNilChannel = errors.New("correlation: nil channel")
)
