package resolver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-reactor/internal/core/eventloop"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

func newTestLoop(t *testing.T) *eventloop.EventLoop {
	t.Helper()
	l := eventloop.New("resolver-test", nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		l.Shutdown(ctx)
	})
	return l
}

// ============================================================================
//                              NoopGroup
// ============================================================================

func TestNoopGroup(t *testing.T) {
	g := NewNoopGroup()
	var _ pkgif.ResolverGroup = g

	r, err := g.Resolver(newTestLoop(t))
	require.NoError(t, err)

	addr := pkgif.NewSocketAddr("example.com", 80)
	assert.True(t, r.IsSupported(addr))
	// no-op 解析器把所有地址视为已解析，解析步骤被跳过
	assert.True(t, r.IsResolved(addr))

	f := r.Resolve(addr)
	require.True(t, f.Success())
	assert.Equal(t, addr, f.Now())

	assert.NoError(t, r.Close())
	assert.NoError(t, g.Close())
}

// ============================================================================
//                              DNSGroup
// ============================================================================

func TestDNSGroupPerLoopResolver(t *testing.T) {
	g := NewDNSGroup(Config{
		Servers:      []string{"127.0.0.1:1"},
		QueryTimeout: time.Second,
		CacheSize:    8,
		CacheTTL:     time.Minute,
	})
	defer g.Close()

	loopA := newTestLoop(t)
	loopB := newTestLoop(t)

	ra1, err := g.Resolver(loopA)
	require.NoError(t, err)
	ra2, err := g.Resolver(loopA)
	require.NoError(t, err)
	rb, err := g.Resolver(loopB)
	require.NoError(t, err)

	// 同一 loop 复用同一解析器，不同 loop 各自独立
	assert.Same(t, ra1, ra2)
	assert.NotSame(t, ra1, rb)
}

func TestDNSGroupClosed(t *testing.T) {
	g := NewDNSGroup(Config{Servers: []string{"127.0.0.1:1"}, QueryTimeout: time.Second, CacheSize: 8, CacheTTL: time.Minute})
	require.NoError(t, g.Close())

	_, err := g.Resolver(newTestLoop(t))
	assert.ErrorIs(t, err, ErrClosed)
	// 重复关闭无害
	assert.NoError(t, g.Close())
}

func TestDNSResolverIsSupported(t *testing.T) {
	g := NewDNSGroup(Config{Servers: []string{"127.0.0.1:1"}, QueryTimeout: time.Second, CacheSize: 8, CacheTTL: time.Minute})
	defer g.Close()
	r, err := g.Resolver(newTestLoop(t))
	require.NoError(t, err)

	assert.True(t, r.IsSupported(pkgif.NewSocketAddr("example.com", 80)))
	assert.False(t, r.IsSupported(&net.TCPAddr{IP: net.IPv4(1, 2, 3, 4), Port: 80}))
}

func TestDNSResolverIsResolved(t *testing.T) {
	g := NewDNSGroup(Config{Servers: []string{"127.0.0.1:1"}, QueryTimeout: time.Second, CacheSize: 8, CacheTTL: time.Minute})
	defer g.Close()
	r, err := g.Resolver(newTestLoop(t))
	require.NoError(t, err)

	assert.False(t, r.IsResolved(pkgif.NewSocketAddr("example.com", 80)))
	assert.True(t, r.IsResolved(pkgif.NewResolvedSocketAddr(net.IPv4(1, 2, 3, 4), 80)))
	// 非 SocketAddr 视为已解析，解析步骤被跳过
	assert.True(t, r.IsResolved(&net.TCPAddr{IP: net.IPv4(1, 2, 3, 4), Port: 80}))
}

// TestResolveAlreadyResolved 已解析地址直接原样返回
func TestResolveAlreadyResolved(t *testing.T) {
	g := NewDNSGroup(Config{Servers: []string{"127.0.0.1:1"}, QueryTimeout: time.Second, CacheSize: 8, CacheTTL: time.Minute})
	defer g.Close()
	r, err := g.Resolver(newTestLoop(t))
	require.NoError(t, err)

	addr := pkgif.NewResolvedSocketAddr(net.IPv4(9, 9, 9, 9), 443)
	f := r.Resolve(addr)
	require.True(t, f.Success())
	assert.Equal(t, addr, f.Now())
}

// TestResolveUnsupportedAddr 不支持的地址类型立即失败
func TestResolveUnsupportedAddr(t *testing.T) {
	g := NewDNSGroup(Config{Servers: []string{"127.0.0.1:1"}, QueryTimeout: time.Second, CacheSize: 8, CacheTTL: time.Minute})
	defer g.Close()
	r, err := g.Resolver(newTestLoop(t))
	require.NoError(t, err)

	f := r.Resolve(&net.TCPAddr{IP: net.IPv4(1, 2, 3, 4), Port: 80})
	require.True(t, f.Done())
	assert.ErrorIs(t, f.Cause(), ErrUnsupportedAddr)
}

// TestResolveFailure 无可达服务器时异步失败
func TestResolveFailure(t *testing.T) {
	g := NewDNSGroup(Config{
		Servers:      []string{"127.0.0.1:1"}, // 无人监听
		QueryTimeout: 500 * time.Millisecond,
		CacheSize:    8,
		CacheTTL:     time.Minute,
	})
	defer g.Close()
	r, err := g.Resolver(newTestLoop(t))
	require.NoError(t, err)

	f := r.Resolve(pkgif.NewSocketAddr("unreachable.invalid", 80))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, f.Await(ctx))
	assert.False(t, f.Success())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.Servers)
	assert.Positive(t, cfg.QueryTimeout)
	assert.Positive(t, cfg.CacheSize)
	assert.Positive(t, cfg.CacheTTL)
}
