package eventloop

import "errors"

// 预定义错误
var (
	// ErrShutdown EventLoop 已关闭
	ErrShutdown = errors.New("eventloop: shut down")

	// ErrInvalidLoops 池成员数量非法
	ErrInvalidLoops = errors.New("eventloop: loops must be positive")
)
