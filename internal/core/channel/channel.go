package channel

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dep2p/go-reactor/internal/core/future"
	"github.com/dep2p/go-reactor/internal/core/pipeline"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

var logger = log.Logger("core/channel")

// Channel 传输端点实现
type Channel struct {
	id        string
	config    Config
	transport pkgif.Transport
	pl        *pipeline.Pipeline

	// 注册时赋值一次，此后只读；跨线程读取走 atomic.Value
	loop atomic.Value // pkgif.EventLoop

	state atomic.Int32 // pkgif.ChannelState

	// 以下字段只在 loop 线程读写
	conn       pkgif.TransportConn
	lis        pkgif.TransportListener
	connecting bool

	// 写在 loop 线程，读在任意线程
	localAddr  atomic.Value // net.Addr
	remoteAddr atomic.Value // net.Addr

	closeP pkgif.Promise
}

var _ pkgif.Channel = (*Channel)(nil)

// Option Channel 配置选项函数
type Option func(*Channel)

// WithConfig 指定配置
func WithConfig(cfg Config) Option {
	return func(c *Channel) { c.config = cfg }
}

// New 创建 Channel
//
// transport 提供底层收发能力；创建后处于 UNREGISTERED 状态，
// 注册到 EventLoop 后方可发起操作。
func New(transport pkgif.Transport, opts ...Option) *Channel {
	c := &Channel{
		id:        uuid.NewString(),
		config:    DefaultConfig(),
		transport: transport,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pl = pipeline.New(c, c)
	// 注册前创建：分发执行器在注册成功后绑定
	c.closeP = future.New(nil)
	return c
}

// ============================================================================
//                              只读访问
// ============================================================================

// ID 返回 Channel 唯一标识
func (c *Channel) ID() string {
	return c.id
}

// EventLoop 返回所属 EventLoop（注册前为 nil）
func (c *Channel) EventLoop() pkgif.EventLoop {
	if v := c.loop.Load(); v != nil {
		return v.(pkgif.EventLoop)
	}
	return nil
}

// Pipeline 返回处理链
func (c *Channel) Pipeline() pkgif.Pipeline {
	return c.pl
}

// State 返回当前生命周期状态
func (c *Channel) State() pkgif.ChannelState {
	return pkgif.ChannelState(c.state.Load())
}

// IsActive 是否可读写
func (c *Channel) IsActive() bool {
	return c.State() == pkgif.ChannelActive
}

// LocalAddr 本端地址
func (c *Channel) LocalAddr() net.Addr {
	if v := c.localAddr.Load(); v != nil {
		return v.(net.Addr)
	}
	return nil
}

// RemoteAddr 对端地址
func (c *Channel) RemoteAddr() net.Addr {
	if v := c.remoteAddr.Load(); v != nil {
		return v.(net.Addr)
	}
	return nil
}

// NewPromise 创建绑定到本 Channel EventLoop 的 Promise
func (c *Channel) NewPromise() pkgif.Promise {
	return future.New(c.EventLoop())
}

// CloseFuture 返回关闭完成通知
func (c *Channel) CloseFuture() pkgif.Future {
	return c.closeP
}

// ============================================================================
//                              注册
// ============================================================================

// Register 注册到 EventLoop
//
// 绑定一次性完成。注册动作在目标 loop 线程执行，完成经返回的
// Future 通知（成功值为 Channel 本身）。
func (c *Channel) Register(loop pkgif.EventLoop) pkgif.Future {
	p := future.New(loop)
	if err := loop.Execute(func() { c.register0(loop, p) }); err != nil {
		p.TryFailure(err)
	}
	return p
}

func (c *Channel) register0(loop pkgif.EventLoop, p pkgif.Promise) {
	if !c.state.CompareAndSwap(
		int32(pkgif.ChannelUnregistered), int32(pkgif.ChannelRegistered)) {
		if c.State() == pkgif.ChannelClosed {
			p.TryFailure(ErrClosed)
		} else {
			p.TryFailure(ErrAlreadyRegistered)
		}
		return
	}
	c.loop.Store(loop)
	c.closeP.BindExecutor(loop)
	if reg, ok := loop.(pkgif.ChannelRegistry); ok {
		reg.AttachChannel(c)
	}
	p.TrySuccess(c)
	c.pl.FireChannelRegistered()
}

// ============================================================================
//                              出站操作
// ============================================================================

// Connect 连接远端地址
func (c *Channel) Connect(addr net.Addr) pkgif.Future {
	p := c.NewPromise()
	c.ConnectWithPromise(addr, p)
	return p
}

// ConnectWithPromise 使用调用方提供的 Promise 连接远端地址
func (c *Channel) ConnectWithPromise(addr net.Addr, p pkgif.Promise) {
	loop := c.EventLoop()
	if loop == nil {
		p.TryFailure(ErrNotRegistered)
		return
	}
	if loop.InLoop() {
		c.pl.Connect(addr, p)
		return
	}
	if err := loop.Execute(func() { c.pl.Connect(addr, p) }); err != nil {
		p.TryFailure(err)
	}
}

// Bind 绑定本地地址并开始接受入站连接
func (c *Channel) Bind(addr net.Addr) pkgif.Future {
	p := c.NewPromise()
	loop := c.EventLoop()
	if loop == nil {
		p.TryFailure(ErrNotRegistered)
		return p
	}
	if loop.InLoop() {
		c.pl.Bind(addr, p)
		return p
	}
	if err := loop.Execute(func() { c.pl.Bind(addr, p) }); err != nil {
		p.TryFailure(err)
	}
	return p
}

// Write 写出消息
//
// 支持 []byte 与 string 两类出站消息。
func (c *Channel) Write(msg any) pkgif.Future {
	p := c.NewPromise()
	loop := c.EventLoop()
	if loop == nil {
		p.TryFailure(ErrNotRegistered)
		return p
	}
	if loop.InLoop() {
		c.pl.Write(msg, p)
		return p
	}
	if err := loop.Execute(func() { c.pl.Write(msg, p) }); err != nil {
		p.TryFailure(err)
	}
	return p
}

// Close 关闭 Channel（幂等）
func (c *Channel) Close() pkgif.Future {
	loop := c.EventLoop()
	if loop == nil {
		// 注册前关闭：直接进入终态
		c.state.Store(int32(pkgif.ChannelClosed))
		c.closeP.TrySuccess(c)
		return c.closeP
	}
	if loop.InLoop() {
		c.pl.Close(c.closeP)
		return c.closeP
	}
	if loop.Execute(func() { c.pl.Close(c.closeP) }) != nil {
		// loop 已关闭，直接进入终态
		c.state.Store(int32(pkgif.ChannelClosed))
		c.closeP.TrySuccess(c)
	}
	return c.closeP
}

// ============================================================================
//                              链头传输动作（loop 线程）
// ============================================================================

var _ pipeline.HeadOps = (*Channel)(nil)

// HeadConnect 执行实际连接
//
// 拨号阻塞在独立 goroutine 中进行，结果回到 loop 线程完成。
func (c *Channel) HeadConnect(addr net.Addr, p pkgif.Promise) {
	switch {
	case c.State() == pkgif.ChannelClosed:
		p.TryFailure(ErrClosed)
		return
	case c.State() == pkgif.ChannelActive:
		p.TryFailure(ErrAlreadyConnected)
		return
	case c.connecting:
		p.TryFailure(ErrConnectPending)
		return
	}
	c.connecting = true

	loop := c.EventLoop()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.config.DialTimeout)
		defer cancel()
		conn, err := c.transport.Dial(ctx, addr)
		if execErr := loop.Execute(func() { c.finishConnect(conn, err, p) }); execErr != nil {
			if conn != nil {
				conn.Close()
			}
			p.TryFailure(execErr)
		}
	}()
}

// finishConnect 连接结果回到 loop 线程
func (c *Channel) finishConnect(conn pkgif.TransportConn, err error, p pkgif.Promise) {
	c.connecting = false
	if err != nil {
		p.TryFailure(fmt.Errorf("channel: connect failed: %w", err))
		return
	}
	if c.State() == pkgif.ChannelClosed {
		// 连接期间被关闭
		conn.Close()
		p.TryFailure(ErrClosed)
		return
	}
	c.conn = conn
	c.localAddr.Store(conn.LocalAddr())
	c.remoteAddr.Store(conn.RemoteAddr())
	c.state.Store(int32(pkgif.ChannelActive))
	p.TrySuccess(c)
	c.pl.FireChannelActive()
	go c.readLoop(conn)
}

// HeadBind 执行实际绑定
func (c *Channel) HeadBind(addr net.Addr, p pkgif.Promise) {
	if c.State() == pkgif.ChannelClosed {
		p.TryFailure(ErrClosed)
		return
	}
	lis, err := c.transport.Listen(addr)
	if err != nil {
		p.TryFailure(fmt.Errorf("channel: bind failed: %w", err))
		return
	}
	c.lis = lis
	c.localAddr.Store(lis.Addr())
	c.state.Store(int32(pkgif.ChannelActive))
	p.TrySuccess(c)
	c.pl.FireChannelActive()
	go c.acceptLoop(lis)
}

// HeadWrite 执行实际写出
func (c *Channel) HeadWrite(msg any, p pkgif.Promise) {
	if !c.IsActive() || c.conn == nil {
		p.TryFailure(ErrNotActive)
		return
	}
	var data []byte
	switch m := msg.(type) {
	case []byte:
		data = m
	case string:
		data = []byte(m)
	default:
		p.TryFailure(fmt.Errorf("%w: %T", ErrUnsupportedMessage, msg))
		return
	}
	if _, err := c.conn.Write(data); err != nil {
		p.TryFailure(fmt.Errorf("channel: write failed: %w", err))
		// 写失败视为连接不可用
		c.close0()
		return
	}
	p.TrySuccess(len(data))
}

// HeadClose 执行实际关闭
func (c *Channel) HeadClose(p pkgif.Promise) {
	c.close0()
	p.TrySuccess(c)
}

// close0 关闭资源并推进到终态（loop 线程）
func (c *Channel) close0() {
	st := c.State()
	if st == pkgif.ChannelClosed {
		return
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	if c.lis != nil {
		c.lis.Close()
		c.lis = nil
	}
	if st == pkgif.ChannelActive {
		c.state.Store(int32(pkgif.ChannelInactive))
		c.pl.FireChannelInactive()
	}
	c.state.Store(int32(pkgif.ChannelClosed))
	if loop := c.EventLoop(); loop != nil {
		if reg, ok := loop.(pkgif.ChannelRegistry); ok {
			reg.DetachChannel(c)
		}
	}
	c.closeP.TrySuccess(c)
}

// ============================================================================
//                              读 / 接受循环
// ============================================================================

// readLoop 独立 goroutine 读取入站字节并转移进 loop
func (c *Channel) readLoop(conn pkgif.TransportConn) {
	loop := c.EventLoop()
	buf := make([]byte, c.config.ReadBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			msg := make([]byte, n)
			copy(msg, buf[:n])
			if loop.Execute(func() { c.pl.FireChannelRead(msg) }) != nil {
				conn.Close()
				return
			}
		}
		if err != nil {
			if loop.Execute(func() { c.handleReadError(err) }) != nil {
				conn.Close()
			}
			return
		}
	}
}

// handleReadError 读错误回到 loop 线程处理
//
// I/O 错误只关闭本 Channel，经 CloseFuture 暴露，绝不终止 loop。
func (c *Channel) handleReadError(err error) {
	if c.State() != pkgif.ChannelActive {
		return
	}
	if err == io.EOF {
		logger.Debug("peer closed connection", "channel", c.id)
	} else {
		logger.Warn("read error, closing channel", "channel", c.id, "err", err)
		c.pl.FireExceptionCaught(err)
		if c.State() != pkgif.ChannelActive {
			// 异常事件处理中已关闭
			return
		}
	}
	c.close0()
}

// acceptLoop 独立 goroutine 接受入站连接并以消息形式送入 Pipeline
func (c *Channel) acceptLoop(lis pkgif.TransportListener) {
	loop := c.EventLoop()
	for {
		conn, err := lis.Accept()
		if err != nil {
			_ = loop.Execute(func() {
				if c.State() == pkgif.ChannelActive {
					logger.Warn("accept error, closing channel", "channel", c.id, "err", err)
					c.close0()
				}
			})
			return
		}
		if loop.Execute(func() { c.pl.FireChannelRead(conn) }) != nil {
			conn.Close()
			return
		}
	}
}
