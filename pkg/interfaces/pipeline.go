// Package interfaces 定义 Reactor 公共接口
//
// 本文件定义 Pipeline / Handler / HandlerContext 接口。
package interfaces

import "net"

// ============================================================================
//                              Handler 接口
// ============================================================================

// Handler Pipeline 中的事件处理单元
//
// 标记接口：实现 InboundHandler、OutboundHandler 之一或全部。
// 同一 handler 实例在一条 Pipeline 中至多出现一次，除非实现
// ShareableHandler 并返回 true。
type Handler interface{}

// InboundHandler 入站事件处理器
//
// 入站事件沿 Pipeline 从 head 向 tail 传播。handler 不调用对应的
// Fire 方法则传播在此终止。
type InboundHandler interface {
	// ChannelRegistered Channel 已注册到 EventLoop
	ChannelRegistered(ctx HandlerContext)

	// ChannelActive Channel 已激活
	ChannelActive(ctx HandlerContext)

	// ChannelRead 收到入站数据
	ChannelRead(ctx HandlerContext, msg any)

	// ChannelInactive Channel 已断开
	ChannelInactive(ctx HandlerContext)

	// UserEventTriggered 用户自定义事件
	UserEventTriggered(ctx HandlerContext, ev any)

	// ExceptionCaught 入站异常事件
	//
	// 从出错 handler 的位置（而非 head）开始传播。
	ExceptionCaught(ctx HandlerContext, err error)
}

// OutboundHandler 出站事件处理器
//
// 出站事件沿 Pipeline 从 tail 向 head 传播。
type OutboundHandler interface {
	// Connect 连接请求
	Connect(ctx HandlerContext, addr net.Addr, p Promise)

	// Bind 绑定请求
	Bind(ctx HandlerContext, addr net.Addr, p Promise)

	// Write 写出请求
	Write(ctx HandlerContext, msg any, p Promise)

	// Close 关闭请求
	Close(ctx HandlerContext, p Promise)
}

// ShareableHandler 可共享 handler
//
// 返回 true 的 handler 实例可在同一条或多条 Pipeline 中重复安装。
type ShareableHandler interface {
	Shareable() bool
}

// ============================================================================
//                              HandlerContext 接口
// ============================================================================

// HandlerContext handler 在 Pipeline 中的上下文节点
//
// 持有前后邻居指针；Fire 系列方法把入站事件交给下一个入站 handler，
// Connect/Write/Close 把出站事件交给上一个出站 handler。
type HandlerContext interface {
	// Name 节点名
	Name() string

	// Channel 所属 Channel
	Channel() Channel

	// EventLoop 所属 EventLoop
	EventLoop() EventLoop

	// Handler 被包装的 handler
	Handler() Handler

	// FireChannelRegistered 向后传播注册事件
	FireChannelRegistered() HandlerContext

	// FireChannelActive 向后传播激活事件
	FireChannelActive() HandlerContext

	// FireChannelRead 向后传播读事件
	FireChannelRead(msg any) HandlerContext

	// FireChannelInactive 向后传播断开事件
	FireChannelInactive() HandlerContext

	// FireUserEvent 向后传播用户事件
	FireUserEvent(ev any) HandlerContext

	// FireExceptionCaught 向后传播异常事件
	FireExceptionCaught(err error) HandlerContext

	// Connect 向前传播连接请求
	Connect(addr net.Addr, p Promise)

	// Bind 向前传播绑定请求
	Bind(addr net.Addr, p Promise)

	// Write 向前传播写请求
	Write(msg any, p Promise)

	// Close 向前传播关闭请求
	Close(p Promise)

	// NewPromise 创建绑定到所属 EventLoop 的 Promise
	NewPromise() Promise
}

// ============================================================================
//                              Pipeline 接口
// ============================================================================

// Pipeline 一条 Channel 的有序可变 handler 链
//
// 链序完全由插入操作决定。变更只在所属 EventLoop 线程执行；
// 其他线程的变更请求经 EventLoop 任务队列转移。
type Pipeline interface {
	// Channel 返回所属 Channel
	Channel() Channel

	// AddFirst 在链头插入
	AddFirst(name string, h Handler) error

	// AddLast 在链尾插入
	AddLast(name string, h Handler) error

	// AddBefore 在指定节点之前插入
	AddBefore(base, name string, h Handler) error

	// AddAfter 在指定节点之后插入
	AddAfter(base, name string, h Handler) error

	// Remove 按名移除
	Remove(name string) error

	// Get 按名取 handler，不存在返回 nil
	Get(name string) Handler

	// Names 按链序返回全部节点名
	Names() []string

	// FireChannelRegistered 从 head 触发注册事件
	FireChannelRegistered()

	// FireChannelActive 从 head 触发激活事件
	FireChannelActive()

	// FireChannelRead 从 head 触发读事件
	FireChannelRead(msg any)

	// FireChannelInactive 从 head 触发断开事件
	FireChannelInactive()

	// FireUserEvent 从 head 触发用户事件
	FireUserEvent(ev any)

	// FireExceptionCaught 从 head 触发异常事件
	FireExceptionCaught(err error)

	// Connect 从 tail 发起连接
	Connect(addr net.Addr, p Promise)

	// Bind 从 tail 发起绑定
	Bind(addr net.Addr, p Promise)

	// Write 从 tail 发起写
	Write(msg any, p Promise)

	// Close 从 tail 发起关闭
	Close(p Promise)
}
