package bootstrap

import "errors"

var (
	// ErrNoGroup 未配置 EventLoopGroup
	ErrNoGroup = errors.New("bootstrap: event loop group not set")

	// ErrNoFactory 未配置 ChannelFactory
	ErrNoFactory = errors.New("bootstrap: channel factory not set")

	// ErrNilAddr 连接地址为空
	ErrNilAddr = errors.New("bootstrap: nil address")
)
