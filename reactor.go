package reactor

import (
	"context"
	"fmt"
	"net"

	"github.com/dep2p/go-reactor/internal/core/bootstrap"
	"github.com/dep2p/go-reactor/internal/core/channel"
	"github.com/dep2p/go-reactor/internal/core/eventloop"
	"github.com/dep2p/go-reactor/internal/core/pipeline"
	"github.com/dep2p/go-reactor/internal/core/transport/mem"
	"github.com/dep2p/go-reactor/internal/core/transport/tcp"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// 公共接口别名，调用方不必直接依赖 pkg/interfaces
type (
	Future         = pkgif.Future
	Promise        = pkgif.Promise
	EventLoop      = pkgif.EventLoop
	EventLoopGroup = pkgif.EventLoopGroup
	Channel        = pkgif.Channel
	Pipeline       = pkgif.Pipeline
	HandlerContext = pkgif.HandlerContext
	InboundHandler = pkgif.InboundHandler
	SocketAddr     = pkgif.SocketAddr
	Transport      = pkgif.Transport
)

// 可嵌入的 handler 适配器，全部事件默认向后/向前转发
type (
	InboundAdapter  = pipeline.InboundAdapter
	OutboundAdapter = pipeline.OutboundAdapter
)

// TCPConfig TCP 传输配置别名
type TCPConfig = tcp.Config

// NewTCPTransport 创建 TCP 传输
func NewTCPTransport(cfg TCPConfig) Transport {
	return tcp.New(cfg)
}

// DefaultTCPConfig 返回 TCP 传输默认配置
func DefaultTCPConfig() TCPConfig {
	return tcp.DefaultConfig()
}

// NewMemTransport 创建进程内环回传输（共享包级注册表）
//
// 主要用于测试与示例。
func NewMemTransport() Transport {
	return mem.New()
}

// NewSocketAddr 创建未解析地址
func NewSocketAddr(host string, port int) *SocketAddr {
	return pkgif.NewSocketAddr(host, port)
}

// NewResolvedSocketAddr 创建已解析地址
func NewResolvedSocketAddr(ip net.IP, port int) *SocketAddr {
	return pkgif.NewResolvedSocketAddr(ip, port)
}

// ════════════════════════════════════════════════════════════════════════════
//                              System 门面
// ════════════════════════════════════════════════════════════════════════════

// System 运行时门面
//
// 持有 EventLoop 池与解析器组，经 Fx 组装并管理生命周期。
// 一个进程通常只需要一个 System。
type System struct {
	cfg *systemConfig

	group         *eventloop.Group
	resolverGroup pkgif.ResolverGroup

	app    appRunner
	closed bool
}

// New 创建并启动 System
func New(opts ...Option) (*System, error) {
	cfg := newSystemConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("reactor: apply option: %w", err)
		}
	}

	sys := &System{cfg: cfg}
	app, err := buildFxApp(cfg, sys)
	if err != nil {
		return nil, err
	}
	sys.app = app

	startCtx, cancel := context.WithTimeout(context.Background(), cfg.startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return nil, fmt.Errorf("reactor: start: %w", err)
	}
	return sys, nil
}

// Group 返回 EventLoop 池
func (s *System) Group() pkgif.EventLoopGroup {
	return s.group
}

// Next 返回池中下一个 EventLoop
func (s *System) Next() pkgif.EventLoop {
	return s.group.Next()
}

// ResolverGroup 返回地址解析器组
func (s *System) ResolverGroup() pkgif.ResolverGroup {
	return s.resolverGroup
}

// Bootstrap 创建绑定到本 System 的出站连接编排器
//
// 默认使用 System 的 EventLoop 池与解析器组，可被选项覆盖。
func (s *System) Bootstrap(opts ...BootstrapOption) *bootstrap.Bootstrap {
	bc := &bootstrapConfig{}
	for _, opt := range opts {
		opt(bc)
	}

	var bopts []bootstrap.Option
	bopts = append(bopts, bootstrap.WithGroup(s.group))
	if bc.resolverGroup != nil {
		bopts = append(bopts, bootstrap.WithResolverGroup(bc.resolverGroup))
	} else {
		bopts = append(bopts, bootstrap.WithResolverGroup(s.resolverGroup))
	}
	if bc.factory != nil {
		bopts = append(bopts, bootstrap.WithFactory(bc.factory))
	} else if bc.transport != nil {
		tr := bc.transport
		chOpts := bc.channelOpts
		bopts = append(bopts, bootstrap.WithFactory(func() pkgif.Channel {
			return channel.New(tr, chOpts...)
		}))
	}
	if bc.initializer != nil {
		bopts = append(bopts, bootstrap.WithInitializer(bc.initializer))
	}
	if bc.skipResolve {
		bopts = append(bopts, bootstrap.WithResolveDisabled())
	}
	return bootstrap.New(bopts...)
}

// Close 关闭 System，等待全部 EventLoop 排空
func (s *System) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.app.Stop(ctx); err != nil {
		return fmt.Errorf("reactor: stop: %w", err)
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              Bootstrap 选项
// ════════════════════════════════════════════════════════════════════════════

// BootstrapOption Bootstrap 创建选项
type BootstrapOption func(*bootstrapConfig)

type bootstrapConfig struct {
	transport     pkgif.Transport
	channelOpts   []channel.Option
	factory       pkgif.ChannelFactory
	resolverGroup pkgif.ResolverGroup
	initializer   pkgif.Initializer
	skipResolve   bool
}

// WithTransport 指定底层传输，Channel 由默认工厂创建
func WithTransport(tr pkgif.Transport) BootstrapOption {
	return func(c *bootstrapConfig) { c.transport = tr }
}

// WithChannelConfig 指定默认工厂创建 Channel 时的配置
func WithChannelConfig(cfg channel.Config) BootstrapOption {
	return func(c *bootstrapConfig) {
		c.channelOpts = append(c.channelOpts, channel.WithConfig(cfg))
	}
}

// WithChannelFactory 完全自定义 Channel 工厂（覆盖 WithTransport）
func WithChannelFactory(f pkgif.ChannelFactory) BootstrapOption {
	return func(c *bootstrapConfig) { c.factory = f }
}

// WithBootstrapResolver 覆盖 System 默认解析器组
func WithBootstrapResolver(g pkgif.ResolverGroup) BootstrapOption {
	return func(c *bootstrapConfig) { c.resolverGroup = g }
}

// WithChannelInitializer 指定 Pipeline 初始化钩子
func WithChannelInitializer(init pkgif.Initializer) BootstrapOption {
	return func(c *bootstrapConfig) { c.initializer = init }
}

// WithConnectResolveDisabled 跳过连接前的地址解析
func WithConnectResolveDisabled() BootstrapOption {
	return func(c *bootstrapConfig) { c.skipResolve = true }
}
