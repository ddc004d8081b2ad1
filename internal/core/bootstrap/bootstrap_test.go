package bootstrap

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-reactor/internal/core/channel"
	"github.com/dep2p/go-reactor/internal/core/eventloop"
	"github.com/dep2p/go-reactor/internal/core/future"
	"github.com/dep2p/go-reactor/internal/core/pipeline"
	"github.com/dep2p/go-reactor/internal/core/transport/mem"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// ============================================================================
//                              测试基建
// ============================================================================

type memAddr string

func (a memAddr) Network() string { return "mem" }
func (a memAddr) String() string  { return string(a) }

func newTestGroup(t *testing.T) *eventloop.Group {
	t.Helper()
	g, err := eventloop.NewGroup(eventloop.Config{Loops: 2})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		g.Shutdown(ctx)
	})
	return g
}

// startServer 起一个只接受连接的监听器
func startServer(t *testing.T, reg *mem.Registry, name string) net.Addr {
	t.Helper()
	tr := mem.New(mem.WithRegistry(reg))
	lis, err := tr.Listen(memAddr(name))
	require.NoError(t, err)
	t.Cleanup(func() { lis.Close() })
	go func() {
		for {
			if _, err := lis.Accept(); err != nil {
				return
			}
		}
	}()
	return memAddr(name)
}

func memFactory(reg *mem.Registry) pkgif.ChannelFactory {
	return func() pkgif.Channel {
		return channel.New(mem.New(mem.WithRegistry(reg)))
	}
}

func awaitF(t *testing.T, f pkgif.Future) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return f.Await(ctx)
}

// fakeResolverGroup 可编程解析器组
type fakeResolverGroup struct {
	resolve func(addr net.Addr, loop pkgif.EventLoop) pkgif.Future
	calls   atomic.Int32
}

func (g *fakeResolverGroup) Resolver(loop pkgif.EventLoop) (pkgif.Resolver, error) {
	return &fakeResolver{group: g, loop: loop}, nil
}

func (g *fakeResolverGroup) Close() error { return nil }

type fakeResolver struct {
	group *fakeResolverGroup
	loop  pkgif.EventLoop
}

func (r *fakeResolver) IsSupported(addr net.Addr) bool {
	_, ok := addr.(*pkgif.SocketAddr)
	return ok
}

func (r *fakeResolver) IsResolved(addr net.Addr) bool {
	sa, ok := addr.(*pkgif.SocketAddr)
	return !ok || sa.Resolved()
}

func (r *fakeResolver) Resolve(addr net.Addr) pkgif.Future {
	r.group.calls.Add(1)
	return r.group.resolve(addr, r.loop)
}

func (r *fakeResolver) Close() error { return nil }

// ============================================================================
//                              同步前置校验
// ============================================================================

func TestConnectWithoutGroup(t *testing.T) {
	b := New(WithFactory(memFactory(mem.NewRegistry())))
	_, err := b.Connect(memAddr("srv"))
	assert.ErrorIs(t, err, ErrNoGroup)
}

func TestConnectWithoutFactory(t *testing.T) {
	b := New(WithGroup(newTestGroup(t)))
	_, err := b.Connect(memAddr("srv"))
	assert.ErrorIs(t, err, ErrNoFactory)
}

func TestConnectNilAddr(t *testing.T) {
	b := New(WithGroup(newTestGroup(t)), WithFactory(memFactory(mem.NewRegistry())))
	_, err := b.Connect(nil)
	assert.ErrorIs(t, err, ErrNilAddr)
}

// ============================================================================
//                              连接编排
// ============================================================================

func TestConnect(t *testing.T) {
	reg := mem.NewRegistry()
	addr := startServer(t, reg, "srv")

	b := New(
		WithGroup(newTestGroup(t)),
		WithFactory(memFactory(reg)),
	)
	f, err := b.Connect(addr)
	require.NoError(t, err)
	require.NoError(t, awaitF(t, f))

	ch, ok := f.Now().(pkgif.Channel)
	require.True(t, ok)
	assert.True(t, ch.IsActive())
	ch.Close()
}

// TestConnectFailureClosesChannel 连接失败后 Channel 被自动关闭
func TestConnectFailureClosesChannel(t *testing.T) {
	reg := mem.NewRegistry()

	var created pkgif.Channel
	factory := func() pkgif.Channel {
		created = channel.New(mem.New(mem.WithRegistry(reg)))
		return created
	}

	b := New(WithGroup(newTestGroup(t)), WithFactory(factory))
	f, err := b.Connect(memAddr("nobody"))
	require.NoError(t, err)
	assert.Error(t, awaitF(t, f))

	require.NoError(t, awaitF(t, created.CloseFuture()))
	assert.Equal(t, pkgif.ChannelClosed, created.State())
}

// TestInitializerRunsBeforeRegistered 初始化钩子先于注册事件执行
func TestInitializerRunsBeforeRegistered(t *testing.T) {
	reg := mem.NewRegistry()
	addr := startServer(t, reg, "srv")

	var initCalls atomic.Int32
	events := make(chan string, 8)

	b := New(
		WithGroup(newTestGroup(t)),
		WithFactory(memFactory(reg)),
		WithInitializer(func(ch pkgif.Channel) error {
			initCalls.Add(1)
			events <- "init"
			return ch.Pipeline().AddLast("probe", &eventProbe{events: events})
		}),
	)
	f, err := b.Connect(addr)
	require.NoError(t, err)
	require.NoError(t, awaitF(t, f))

	assert.EqualValues(t, 1, initCalls.Load())
	assert.Equal(t, "init", <-events)
	assert.Equal(t, "registered", <-events)
	assert.Equal(t, "active", <-events)

	f.Now().(pkgif.Channel).Close()
}

type eventProbe struct {
	pipeline.InboundAdapter
	events chan string
}

func (p *eventProbe) ChannelRegistered(ctx pkgif.HandlerContext) {
	p.events <- "registered"
	ctx.FireChannelRegistered()
}

func (p *eventProbe) ChannelActive(ctx pkgif.HandlerContext) {
	p.events <- "active"
	ctx.FireChannelActive()
}

// TestInitializerError 初始化失败经 Future 交付，不产生同步 error
func TestInitializerError(t *testing.T) {
	cause := errors.New("bad handler")
	b := New(
		WithGroup(newTestGroup(t)),
		WithFactory(memFactory(mem.NewRegistry())),
		WithInitializer(func(pkgif.Channel) error { return cause }),
	)
	f, err := b.Connect(memAddr("srv"))
	require.NoError(t, err)
	require.True(t, f.Done())
	assert.ErrorIs(t, f.Cause(), cause)
}

// ============================================================================
//                              解析步骤
// ============================================================================

// TestResolveThenConnect 未解析地址先经解析器换成可连接地址
func TestResolveThenConnect(t *testing.T) {
	reg := mem.NewRegistry()
	startServer(t, reg, "10.0.0.1:80")

	fake := &fakeResolverGroup{}
	fake.resolve = func(addr net.Addr, loop pkgif.EventLoop) pkgif.Future {
		// 异步延迟交付，模拟真实解析
		p := future.New(loop)
		go func() {
			time.Sleep(20 * time.Millisecond)
			p.TrySuccess(memAddr("10.0.0.1:80"))
		}()
		return p
	}

	b := New(
		WithGroup(newTestGroup(t)),
		WithFactory(memFactory(reg)),
		WithResolverGroup(fake),
	)
	f, err := b.Connect(pkgif.NewSocketAddr("server.internal", 80))
	require.NoError(t, err)
	require.NoError(t, awaitF(t, f))

	assert.EqualValues(t, 1, fake.calls.Load())
	f.Now().(pkgif.Channel).Close()
}

// TestResolveSkippedWhenResolved 已解析地址跳过解析器
func TestResolveSkippedWhenResolved(t *testing.T) {
	reg := mem.NewRegistry()
	addr := startServer(t, reg, "srv")

	fake := &fakeResolverGroup{}
	fake.resolve = func(net.Addr, pkgif.EventLoop) pkgif.Future {
		t.Error("resolver must not be called")
		return future.Failed(nil, errors.New("unexpected"))
	}

	b := New(
		WithGroup(newTestGroup(t)),
		WithFactory(memFactory(reg)),
		WithResolverGroup(fake),
	)
	// memAddr 不是 SocketAddr，IsSupported 为假 → 跳过
	f, err := b.Connect(addr)
	require.NoError(t, err)
	require.NoError(t, awaitF(t, f))
	assert.Zero(t, fake.calls.Load())
	f.Now().(pkgif.Channel).Close()
}

// TestResolveSkippedWhenDisabled 显式关闭解析后解析器不被调用
func TestResolveSkippedWhenDisabled(t *testing.T) {
	reg := mem.NewRegistry()
	startServer(t, reg, "server.internal:80")

	fake := &fakeResolverGroup{}
	fake.resolve = func(net.Addr, pkgif.EventLoop) pkgif.Future {
		t.Error("resolver must not be called")
		return future.Failed(nil, errors.New("unexpected"))
	}

	b := New(
		WithGroup(newTestGroup(t)),
		WithFactory(memFactory(reg)),
		WithResolverGroup(fake),
		WithResolveDisabled(),
	)
	f, err := b.Connect(pkgif.NewSocketAddr("server.internal", 80))
	require.NoError(t, err)
	require.NoError(t, awaitF(t, f))
	assert.Zero(t, fake.calls.Load())
	f.Now().(pkgif.Channel).Close()
}

// TestResolveFailureClosesChannel 解析失败关闭 Channel 并以解析错误失败
func TestResolveFailureClosesChannel(t *testing.T) {
	reg := mem.NewRegistry()
	cause := errors.New("nxdomain")

	var created pkgif.Channel
	factory := func() pkgif.Channel {
		created = channel.New(mem.New(mem.WithRegistry(reg)))
		return created
	}

	fake := &fakeResolverGroup{}
	fake.resolve = func(_ net.Addr, loop pkgif.EventLoop) pkgif.Future {
		return future.Failed(loop, cause)
	}

	b := New(
		WithGroup(newTestGroup(t)),
		WithFactory(factory),
		WithResolverGroup(fake),
	)
	f, err := b.Connect(pkgif.NewSocketAddr("missing.internal", 80))
	require.NoError(t, err)

	// 解析失败原因原样透传
	assert.Same(t, cause, awaitF(t, f))
	require.NoError(t, awaitF(t, created.CloseFuture()))
	assert.Equal(t, pkgif.ChannelClosed, created.State())
}
