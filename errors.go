package reactor

import (
	"github.com/dep2p/go-reactor/internal/core/bootstrap"
	"github.com/dep2p/go-reactor/internal/core/channel"
	"github.com/dep2p/go-reactor/internal/core/eventloop"
	"github.com/dep2p/go-reactor/internal/core/future"
)

// ════════════════════════════════════════════════════════════════════════════
//                              错误重导出
// ════════════════════════════════════════════════════════════════════════════

// 调用方经 facade 可观测到的跨组件错误，从实现包重导出，
// 便于 errors.Is 判定而不必依赖 internal 路径。
var (
	// ErrCancelled Future 被取消
	ErrCancelled = future.ErrCancelled

	// ErrDeadlock 在所属 EventLoop 线程内调用了 Await
	ErrDeadlock = future.ErrDeadlock

	// ErrLoopShutdown EventLoop 已关闭
	ErrLoopShutdown = eventloop.ErrShutdown

	// ErrChannelClosed Channel 已关闭
	ErrChannelClosed = channel.ErrClosed

	// ErrChannelNotActive Channel 未激活
	ErrChannelNotActive = channel.ErrNotActive

	// ErrAlreadyConnected Channel 已建立连接
	ErrAlreadyConnected = channel.ErrAlreadyConnected

	// ErrNilAddr 未提供目标地址
	ErrNilAddr = bootstrap.ErrNilAddr
)
