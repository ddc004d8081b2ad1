package channel

import "errors"

// 预定义错误
var (
	// ErrNotRegistered Channel 尚未注册到 EventLoop
	ErrNotRegistered = errors.New("channel: not registered to an event loop")

	// ErrAlreadyRegistered Channel 已注册，绑定不可变更
	ErrAlreadyRegistered = errors.New("channel: already registered")

	// ErrClosed Channel 已关闭
	ErrClosed = errors.New("channel: closed")

	// ErrNotActive Channel 未激活
	ErrNotActive = errors.New("channel: not active")

	// ErrConnectPending 已有连接在途
	ErrConnectPending = errors.New("channel: connect already in progress")

	// ErrAlreadyConnected Channel 已建立连接
	ErrAlreadyConnected = errors.New("channel: already connected")

	// ErrUnsupportedMessage 不支持的出站消息类型
	ErrUnsupportedMessage = errors.New("channel: unsupported outbound message type")
)
