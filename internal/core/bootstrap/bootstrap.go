package bootstrap

import (
	"fmt"
	"net"

	"github.com/dep2p/go-reactor/internal/core/future"
	"github.com/dep2p/go-reactor/internal/core/resolver"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

var logger = log.Logger("core/bootstrap")

// Bootstrap 出站连接编排器
//
// 配置后可并发复用：每次 Connect 创建独立 Channel，编排器自身
// 不持有连接状态。
type Bootstrap struct {
	group         pkgif.EventLoopGroup
	factory       pkgif.ChannelFactory
	resolverGroup pkgif.ResolverGroup
	initializer   pkgif.Initializer
	skipResolve   bool
}

// Option Bootstrap 配置选项函数
type Option func(*Bootstrap)

// WithGroup 指定 EventLoopGroup（必填）
func WithGroup(g pkgif.EventLoopGroup) Option {
	return func(b *Bootstrap) { b.group = g }
}

// WithFactory 指定 Channel 工厂（必填）
func WithFactory(f pkgif.ChannelFactory) Option {
	return func(b *Bootstrap) { b.factory = f }
}

// WithResolverGroup 指定地址解析器组
func WithResolverGroup(g pkgif.ResolverGroup) Option {
	return func(b *Bootstrap) { b.resolverGroup = g }
}

// WithInitializer 指定 Pipeline 初始化钩子
//
// 每个新 Channel 在注册前恰好调用一次，用于安装协议 handler。
func WithInitializer(init pkgif.Initializer) Option {
	return func(b *Bootstrap) { b.initializer = init }
}

// WithResolveDisabled 跳过地址解析步骤
func WithResolveDisabled() Option {
	return func(b *Bootstrap) { b.skipResolve = true }
}

// New 创建 Bootstrap
func New(opts ...Option) *Bootstrap {
	b := &Bootstrap{}
	for _, opt := range opts {
		opt(b)
	}
	if b.resolverGroup == nil {
		b.resolverGroup = resolver.NewNoopGroup()
	}
	return b
}

// validate 检查必填配置
func (b *Bootstrap) validate() error {
	if b.group == nil {
		return ErrNoGroup
	}
	if b.factory == nil {
		return ErrNoFactory
	}
	return nil
}

// Connect 发起出站连接
//
// 返回的 error 只报告配置缺失这类同步前置错误；注册、解析与连接
// 过程中的一切失败都经返回的 Future 交付。
func (b *Bootstrap) Connect(addr net.Addr) (pkgif.Future, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, ErrNilAddr
	}

	ch := b.factory()
	if b.initializer != nil {
		if err := b.initializer(ch); err != nil {
			ch.Close()
			return future.Failed(nil, fmt.Errorf("bootstrap: initializer: %w", err)), nil
		}
	}

	// 注册完成前先以 nil 执行器创建，注册成功后绑定到所属 loop
	p := future.New(nil)
	regF := ch.Register(b.group.Next())

	if regF.Done() {
		b.afterRegister(regF, ch, addr, p)
		return p, nil
	}
	regF.AddListener(func(f pkgif.Future) {
		b.afterRegister(f, ch, addr, p)
	})
	return p, nil
}

// afterRegister 注册结果分叉
//
// 注册失败直接让连接 Promise 失败，此时 Channel 从未获得 loop，
// 后续步骤一概不发生。
func (b *Bootstrap) afterRegister(regF pkgif.Future, ch pkgif.Channel, addr net.Addr, p pkgif.Promise) {
	if !regF.Success() {
		p.TryFailure(fmt.Errorf("bootstrap: register: %w", regF.Cause()))
		return
	}
	p.BindExecutor(ch.EventLoop())
	b.resolveAndConnect(ch, addr, p)
}

// resolveAndConnect 解析步骤（注册成功后，loop 线程）
func (b *Bootstrap) resolveAndConnect(ch pkgif.Channel, addr net.Addr, p pkgif.Promise) {
	res, err := b.resolverGroup.Resolver(ch.EventLoop())
	if err != nil {
		ch.Close()
		p.TryFailure(fmt.Errorf("bootstrap: resolver: %w", err))
		return
	}

	if b.skipResolve || !res.IsSupported(addr) || res.IsResolved(addr) {
		b.doConnect(ch, addr, p)
		return
	}

	resolveF := res.Resolve(addr)
	if resolveF.Done() {
		b.afterResolve(resolveF, ch, p)
		return
	}
	resolveF.AddListener(func(f pkgif.Future) {
		b.afterResolve(f, ch, p)
	})
}

// afterResolve 解析结果分叉
//
// 解析失败时 Channel 已经注册，必须关闭以释放 loop 侧资源。
func (b *Bootstrap) afterResolve(resolveF pkgif.Future, ch pkgif.Channel, p pkgif.Promise) {
	if !resolveF.Success() {
		// 原因原样透传，不额外包装
		ch.Close()
		p.TryFailure(resolveF.Cause())
		return
	}
	resolved, ok := resolveF.Now().(net.Addr)
	if !ok {
		ch.Close()
		p.TryFailure(fmt.Errorf("bootstrap: resolve: unexpected result %T", resolveF.Now()))
		return
	}
	b.doConnect(ch, resolved, p)
}

// doConnect 连接步骤
//
// 始终经 loop.Execute 转移，即使当前已在 loop 线程，保证外层
// 监听器先于连接动作注册完毕。连接失败自动关闭 Channel。
func (b *Bootstrap) doConnect(ch pkgif.Channel, addr net.Addr, p pkgif.Promise) {
	p.AddListener(func(f pkgif.Future) {
		if !f.Success() {
			logger.Debug("connect failed, closing channel",
				"channel", ch.ID(), "addr", addr.String(), "err", f.Cause())
			ch.Close()
		}
	})
	if err := ch.EventLoop().Execute(func() {
		ch.ConnectWithPromise(addr, p)
	}); err != nil {
		p.TryFailure(fmt.Errorf("bootstrap: connect: %w", err))
	}
}
