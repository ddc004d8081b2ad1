// Package mem 提供进程内环回传输
//
// 基于 net.Pipe 的全双工连接，经共享注册表把拨号方与监听方配对。
// 不触碰网络栈，主要用于测试与示例。
package mem

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// ============================================================================
//                              注册表
// ============================================================================

// Registry 监听地址到监听器的映射
//
// 同一 Registry 内的传输互相可达；零值不可用，经 NewRegistry 创建。
type Registry struct {
	mu        sync.Mutex
	listeners map[string]*listener
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{listeners: make(map[string]*listener)}
}

func (r *Registry) bind(key string, l *listener) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listeners[key]; ok {
		return fmt.Errorf("%w: %s", ErrAddrInUse, key)
	}
	r.listeners[key] = l
	return nil
}

func (r *Registry) unbind(key string) {
	r.mu.Lock()
	delete(r.listeners, key)
	r.mu.Unlock()
}

func (r *Registry) find(key string) (*listener, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listeners[key]
	return l, ok
}

// defaultRegistry 包级共享注册表
var defaultRegistry = NewRegistry()

// ============================================================================
//                              Transport 实现
// ============================================================================

// Transport 进程内环回传输
type Transport struct {
	registry *Registry
	closed   atomic.Bool
}

var _ pkgif.Transport = (*Transport)(nil)

// Option Transport 配置选项函数
type Option func(*Transport)

// WithRegistry 使用独立注册表（默认共享包级注册表）
func WithRegistry(r *Registry) Option {
	return func(t *Transport) { t.registry = r }
}

// New 创建环回传输
func New(opts ...Option) *Transport {
	t := &Transport{registry: defaultRegistry}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dial 连接到注册表内的监听地址
func (t *Transport) Dial(ctx context.Context, addr net.Addr) (pkgif.TransportConn, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if addr == nil {
		return nil, ErrNilAddr
	}
	l, ok := t.registry.find(addr.String())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConnRefused, addr)
	}

	local, remote := net.Pipe()
	dialConn := &conn{Conn: local, local: pipeAddr("mem-dial"), remote: l.addr}
	acceptConn := &conn{Conn: remote, local: l.addr, remote: dialConn.local}

	select {
	case l.pending <- acceptConn:
		return dialConn, nil
	case <-l.done:
		local.Close()
		remote.Close()
		return nil, fmt.Errorf("%w: %s", ErrConnRefused, addr)
	case <-ctx.Done():
		local.Close()
		remote.Close()
		return nil, ctx.Err()
	}
}

// Listen 在注册表内登记监听地址
func (t *Transport) Listen(addr net.Addr) (pkgif.TransportListener, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if addr == nil {
		return nil, ErrNilAddr
	}
	l := &listener{
		registry: t.registry,
		addr:     pipeAddr(addr.String()),
		pending:  make(chan *conn, 16),
		done:     make(chan struct{}),
	}
	if err := t.registry.bind(addr.String(), l); err != nil {
		return nil, err
	}
	return l, nil
}

// Close 关闭传输
func (t *Transport) Close() error {
	t.closed.Store(true)
	return nil
}

// ============================================================================
//                              Listener 与连接
// ============================================================================

type listener struct {
	registry  *Registry
	addr      pipeAddr
	pending   chan *conn
	done      chan struct{}
	closeOnce sync.Once
}

var _ pkgif.TransportListener = (*listener)(nil)

func (l *listener) Accept() (pkgif.TransportConn, error) {
	select {
	case c := <-l.pending:
		return c, nil
	case <-l.done:
		return nil, ErrListenerClosed
	}
}

func (l *listener) Addr() net.Addr {
	return l.addr
}

func (l *listener) Close() error {
	l.closeOnce.Do(func() {
		l.registry.unbind(string(l.addr))
		close(l.done)
	})
	return nil
}

// conn net.Pipe 包装，补充地址信息
type conn struct {
	net.Conn
	local  pipeAddr
	remote pipeAddr
}

func (c *conn) LocalAddr() net.Addr  { return c.local }
func (c *conn) RemoteAddr() net.Addr { return c.remote }

// pipeAddr 环回地址
type pipeAddr string

func (a pipeAddr) Network() string { return "mem" }
func (a pipeAddr) String() string  { return string(a) }
