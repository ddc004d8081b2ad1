// Package interfaces 定义 Reactor 公共接口
//
// 本文件定义底层传输的窄接口。传输层的 socket 系统调用不在
// 运行时范围内，Channel 只通过这里的契约消费传输能力。
package interfaces

import (
	"context"
	"io"
	"net"
)

// TransportConn 一条已建立的传输连接
type TransportConn interface {
	io.ReadWriteCloser

	// LocalAddr 本端地址
	LocalAddr() net.Addr

	// RemoteAddr 对端地址
	RemoteAddr() net.Addr
}

// TransportListener 入站连接监听器
type TransportListener interface {
	// Accept 接受连接，阻塞直到有新连接到达
	Accept() (TransportConn, error)

	// Addr 监听地址
	Addr() net.Addr

	// Close 停止监听
	Close() error
}

// Transport 传输层窄接口
//
// Channel 的连接/监听动作全部委托给 Transport；实现只需处理
// 已解析地址。
type Transport interface {
	// Dial 建立出站连接
	Dial(ctx context.Context, addr net.Addr) (TransportConn, error)

	// Listen 监听入站连接
	Listen(addr net.Addr) (TransportListener, error)

	// Close 关闭传输层
	Close() error
}
