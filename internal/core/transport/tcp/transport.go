// Package tcp 提供基于 TCP 的传输实现
//
// 直连传输，无多路复用；帧边界等高层语义由 Pipeline handler 负责。
package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// ============================================================================
//                              Transport 实现
// ============================================================================

// Config TCP 传输配置
type Config struct {
	// DialTimeout 默认拨号超时（ctx 无截止时间时生效）
	DialTimeout time.Duration

	// KeepAlive TCP keep-alive 间隔，0 使用系统默认
	KeepAlive time.Duration

	// NoDelay 禁用 Nagle 算法
	NoDelay bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		DialTimeout: 10 * time.Second,
		KeepAlive:   30 * time.Second,
		NoDelay:     true,
	}
}

// Transport TCP 传输实现
type Transport struct {
	config Config

	listeners   map[string]*listener
	listenersMu sync.Mutex

	closed atomic.Bool
}

var _ pkgif.Transport = (*Transport)(nil)

// New 创建 TCP 传输
func New(config Config) *Transport {
	return &Transport{
		config:    config,
		listeners: make(map[string]*listener),
	}
}

// Dial 建立出站连接
func (t *Transport) Dial(ctx context.Context, addr net.Addr) (pkgif.TransportConn, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	target, err := dialString(addr)
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		Timeout:   t.config.DialTimeout,
		KeepAlive: t.config.KeepAlive,
	}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, fmt.Errorf("tcp: dial %s: %w", target, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok && t.config.NoDelay {
		tc.SetNoDelay(true)
	}
	return conn, nil
}

// Listen 监听入站连接
func (t *Transport) Listen(addr net.Addr) (pkgif.TransportListener, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	target, err := dialString(addr)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", target)
	if err != nil {
		return nil, fmt.Errorf("tcp: listen %s: %w", target, err)
	}
	l := &listener{Listener: ln, transport: t}
	t.listenersMu.Lock()
	t.listeners[ln.Addr().String()] = l
	t.listenersMu.Unlock()
	return l, nil
}

// Close 关闭传输及全部监听器
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	var lastErr error
	t.listenersMu.Lock()
	for _, l := range t.listeners {
		if err := l.Listener.Close(); err != nil {
			lastErr = err
		}
	}
	t.listeners = make(map[string]*listener)
	t.listenersMu.Unlock()
	return lastErr
}

// dialString 把 net.Addr 转为 host:port 形式
//
// SocketAddr 必须已解析，其他地址类型使用其字符串表示。
func dialString(addr net.Addr) (string, error) {
	if sa, ok := addr.(*pkgif.SocketAddr); ok {
		if !sa.Resolved() && sa.Host == "" {
			return "", fmt.Errorf("%w: %s", ErrUnresolvedAddr, sa)
		}
		return sa.String(), nil
	}
	if addr == nil {
		return "", ErrNilAddr
	}
	return addr.String(), nil
}

// ============================================================================
//                              Listener
// ============================================================================

// listener 带注销回调的监听器包装
type listener struct {
	net.Listener
	transport *Transport
	closed    atomic.Bool
}

var _ pkgif.TransportListener = (*listener)(nil)

// Accept 接受入站连接
func (l *listener) Accept() (pkgif.TransportConn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok && l.transport.config.NoDelay {
		tc.SetNoDelay(true)
	}
	return conn, nil
}

// Close 关闭监听器并从传输注销
func (l *listener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	addr := l.Listener.Addr().String()
	l.transport.listenersMu.Lock()
	delete(l.transport.listeners, addr)
	l.transport.listenersMu.Unlock()
	return l.Listener.Close()
}
