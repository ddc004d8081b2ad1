// Package interfaces 定义 Reactor 公共接口
//
// 本文件定义 Channel 接口与地址类型。
package interfaces

import (
	"fmt"
	"net"
)

// ============================================================================
//                              Channel 状态
// ============================================================================

// ChannelState Channel 生命周期状态
//
// 状态单向推进：UNREGISTERED → REGISTERED → ACTIVE → INACTIVE → CLOSED。
// CLOSED 为终态，不再发生任何迁移。
type ChannelState int32

const (
	// ChannelUnregistered 已创建，尚未绑定 EventLoop
	ChannelUnregistered ChannelState = iota

	// ChannelRegistered 已绑定 EventLoop
	ChannelRegistered

	// ChannelActive 可读写
	ChannelActive

	// ChannelInactive 连接已断开
	ChannelInactive

	// ChannelClosed 已关闭（终态）
	ChannelClosed
)

// String 返回状态的字符串表示
func (s ChannelState) String() string {
	switch s {
	case ChannelUnregistered:
		return "unregistered"
	case ChannelRegistered:
		return "registered"
	case ChannelActive:
		return "active"
	case ChannelInactive:
		return "inactive"
	case ChannelClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Channel 接口
// ============================================================================

// Channel 连接抽象
//
// 拥有一条 Pipeline，注册后绑定到恰好一个 EventLoop 且终生不变。
// 全部操作异步返回 Future；实际传输动作只在所属 EventLoop 线程执行，
// 其他线程的调用会通过 EventLoop 的 Execute 契约转移。
type Channel interface {
	// ID 返回 Channel 唯一标识
	ID() string

	// EventLoop 返回所属 EventLoop
	// 注册前返回 nil。
	EventLoop() EventLoop

	// Pipeline 返回处理链
	Pipeline() Pipeline

	// State 返回当前生命周期状态
	State() ChannelState

	// IsActive 是否处于可读写状态
	IsActive() bool

	// LocalAddr 本端地址（未建立时为 nil）
	LocalAddr() net.Addr

	// RemoteAddr 对端地址（未建立时为 nil）
	RemoteAddr() net.Addr

	// Register 注册到 EventLoop
	//
	// 绑定一次性完成，之后不可变。注册本身是异步的，完成通过
	// 返回的 Future 通知。
	Register(loop EventLoop) Future

	// Connect 连接远端地址
	Connect(addr net.Addr) Future

	// ConnectWithPromise 使用调用方提供的 Promise 连接远端地址
	//
	// 连接结果（成功或失败）桥接到 p 上。用于一次异步步骤把
	// 结果交还给外层调用者的场景。
	ConnectWithPromise(addr net.Addr, p Promise)

	// Bind 绑定本地地址并开始接受入站连接
	// 接受的连接以入站消息形式送入 Pipeline。
	Bind(addr net.Addr) Future

	// Write 写出消息
	Write(msg any) Future

	// Close 关闭 Channel
	// 幂等；重复调用返回同一个 CloseFuture。
	Close() Future

	// CloseFuture 返回关闭完成通知
	CloseFuture() Future

	// NewPromise 创建绑定到本 Channel EventLoop 的 Promise
	NewPromise() Promise
}

// ChannelFactory Channel 工厂
//
// Bootstrap 通过工厂创建新 Channel。
type ChannelFactory func() Channel

// Initializer 连接期 Pipeline 初始化钩子
//
// 每个 Channel 恰好调用一次：创建之后、激活之前，用于安装协议 handler。
type Initializer func(ch Channel) error

// ============================================================================
//                              地址类型
// ============================================================================

// SocketAddr 可能未解析的端点地址
//
// Host 非空且 IP 为空时表示尚未解析，需经 Resolver 解析后才能连接。
type SocketAddr struct {
	// Net 网络类型，空值视为 "tcp"
	Net string

	// Host 主机名（未解析时使用）
	Host string

	// IP 已解析的 IP 地址
	IP net.IP

	// Port 端口
	Port int
}

var _ net.Addr = (*SocketAddr)(nil)

// NewSocketAddr 创建未解析地址
func NewSocketAddr(host string, port int) *SocketAddr {
	return &SocketAddr{Host: host, Port: port}
}

// NewResolvedSocketAddr 创建已解析地址
func NewResolvedSocketAddr(ip net.IP, port int) *SocketAddr {
	return &SocketAddr{IP: ip, Port: port}
}

// Resolved 地址是否已解析
func (a *SocketAddr) Resolved() bool {
	return a.IP != nil
}

// Network 返回网络类型
func (a *SocketAddr) Network() string {
	if a.Net == "" {
		return "tcp"
	}
	return a.Net
}

// String 返回 host:port 形式
func (a *SocketAddr) String() string {
	if a.Resolved() {
		return net.JoinHostPort(a.IP.String(), fmt.Sprintf("%d", a.Port))
	}
	return net.JoinHostPort(a.Host, fmt.Sprintf("%d", a.Port))
}
