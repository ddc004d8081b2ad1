// Package interfaces 定义 Reactor 公共接口
//
// 本文件定义地址解析协作方接口。
package interfaces

import "net"

// Resolver 地址解析器
//
// 把命名地址（如主机名）解析为可连接地址。解析是异步的，
// 结果经 Future 交付，成功值为已解析的 net.Addr。
type Resolver interface {
	// IsSupported 是否支持该地址类型
	IsSupported(addr net.Addr) bool

	// IsResolved 该地址是否已解析
	IsResolved(addr net.Addr) bool

	// Resolve 异步解析地址
	// 成功值为已解析的 net.Addr。
	Resolve(addr net.Addr) Future

	// Close 释放解析器资源
	Close() error
}

// ResolverGroup 按 EventLoop 提供解析器
//
// 解析必须发生在 Channel 注册之后，这样解析器可以使用正确的
// EventLoop 亲和缓存。未配置时必须存在一个与 no-op 兼容的默认实现。
type ResolverGroup interface {
	// Resolver 返回绑定到指定 EventLoop 的解析器
	Resolver(loop EventLoop) (Resolver, error)

	// Close 释放全部解析器
	Close() error
}
