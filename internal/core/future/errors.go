package future

import "errors"

// 预定义错误
var (
	// ErrCancelled Promise 被取消
	ErrCancelled = errors.New("future: cancelled")

	// ErrDeadlock 在所属 EventLoop 线程内阻塞等待
	ErrDeadlock = errors.New("future: await called from the owning event loop")
)
