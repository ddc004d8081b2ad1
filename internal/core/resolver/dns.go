package resolver

import (
	"fmt"
	"net"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-reactor/internal/core/future"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

var logger = log.Logger("core/resolver")

// DNSGroup 基于 DNS 协议的 ResolverGroup
//
// 每个 EventLoop 持有独立解析器与缓存，缓存访问只在对应 loop
// 线程发生，不需要跨 loop 加锁。
type DNSGroup struct {
	cfg Config

	mu        sync.Mutex
	resolvers map[pkgif.EventLoop]*dnsResolver
	closed    bool
}

var _ pkgif.ResolverGroup = (*DNSGroup)(nil)

// NewDNSGroup 创建 DNSGroup
func NewDNSGroup(cfg Config) *DNSGroup {
	if len(cfg.Servers) == 0 {
		cfg = DefaultConfig()
	}
	return &DNSGroup{
		cfg:       cfg,
		resolvers: make(map[pkgif.EventLoop]*dnsResolver),
	}
}

// Resolver 返回绑定到指定 EventLoop 的解析器（按需创建）
func (g *DNSGroup) Resolver(loop pkgif.EventLoop) (pkgif.Resolver, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, ErrClosed
	}
	if r, ok := g.resolvers[loop]; ok {
		return r, nil
	}
	r := newDNSResolver(loop, g.cfg)
	g.resolvers[loop] = r
	return r, nil
}

// Close 释放全部解析器
func (g *DNSGroup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	for _, r := range g.resolvers {
		r.Close()
	}
	g.resolvers = nil
	return nil
}

// ============================================================================
//                              单 loop 解析器
// ============================================================================

type dnsResolver struct {
	loop   pkgif.EventLoop
	cfg    Config
	client *dns.Client
	cache  *expirable.LRU[string, []net.IP]
}

var _ pkgif.Resolver = (*dnsResolver)(nil)

func newDNSResolver(loop pkgif.EventLoop, cfg Config) *dnsResolver {
	return &dnsResolver{
		loop:   loop,
		cfg:    cfg,
		client: &dns.Client{Timeout: cfg.QueryTimeout},
		cache:  expirable.NewLRU[string, []net.IP](cfg.CacheSize, nil, cfg.CacheTTL),
	}
}

// IsSupported 只处理 SocketAddr
func (r *dnsResolver) IsSupported(addr net.Addr) bool {
	_, ok := addr.(*pkgif.SocketAddr)
	return ok
}

// IsResolved 已带 IP 的地址不再解析
func (r *dnsResolver) IsResolved(addr net.Addr) bool {
	sa, ok := addr.(*pkgif.SocketAddr)
	if !ok {
		return true
	}
	return sa.Resolved()
}

// Resolve 异步解析主机名
//
// 查询在独立 goroutine 中进行，A 与 AAAA 并行发出，结果经
// Future 交付（成功值为已解析的 *SocketAddr）。
func (r *dnsResolver) Resolve(addr net.Addr) pkgif.Future {
	sa, ok := addr.(*pkgif.SocketAddr)
	if !ok {
		return future.Failed(r.loop, fmt.Errorf("%w: %T", ErrUnsupportedAddr, addr))
	}
	if sa.Resolved() {
		return future.Succeeded(r.loop, sa)
	}
	if ips, ok := r.cache.Get(sa.Host); ok && len(ips) > 0 {
		resolved := &pkgif.SocketAddr{Net: sa.Net, Host: sa.Host, IP: ips[0], Port: sa.Port}
		return future.Succeeded(r.loop, resolved)
	}

	p := future.New(r.loop)
	go func() {
		ips, err := r.lookup(sa.Host)
		if err != nil {
			p.TryFailure(fmt.Errorf("resolver: lookup %s: %w", sa.Host, err))
			return
		}
		// loop 已关闭时跳过缓存写入，结果仍经 Promise 交付
		_ = r.loop.Execute(func() {
			r.cache.Add(sa.Host, ips)
		})
		resolved := &pkgif.SocketAddr{Net: sa.Net, Host: sa.Host, IP: ips[0], Port: sa.Port}
		p.TrySuccess(resolved)
	}()
	return p
}

// lookup 并行发出 A 与 AAAA 查询，IPv4 优先排序
func (r *dnsResolver) lookup(host string) ([]net.IP, error) {
	fqdn := dns.Fqdn(host)
	var (
		mu sync.Mutex
		v4 []net.IP
		v6 []net.IP
		g  errgroup.Group
	)
	g.Go(func() error {
		ips, err := r.query(fqdn, dns.TypeA)
		mu.Lock()
		v4 = ips
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		ips, err := r.query(fqdn, dns.TypeAAAA)
		mu.Lock()
		v6 = ips
		mu.Unlock()
		return err
	})
	err := g.Wait()
	ips := append(v4, v6...)
	if len(ips) == 0 {
		if err != nil {
			return nil, err
		}
		return nil, ErrNoRecords
	}
	return ips, nil
}

// query 轮询配置的服务器直到得到应答
func (r *dnsResolver) query(fqdn string, qtype uint16) ([]net.IP, error) {
	m := new(dns.Msg)
	m.SetQuestion(fqdn, qtype)
	m.RecursionDesired = true

	var lastErr error
	for _, server := range r.cfg.Servers {
		resp, _, err := r.client.Exchange(m, server)
		if err != nil {
			lastErr = err
			logger.Debug("dns exchange failed", "server", server, "err", err)
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("resolver: rcode %s", dns.RcodeToString[resp.Rcode])
			continue
		}
		var ips []net.IP
		for _, rr := range resp.Answer {
			switch a := rr.(type) {
			case *dns.A:
				ips = append(ips, a.A)
			case *dns.AAAA:
				ips = append(ips, a.AAAA)
			}
		}
		return ips, nil
	}
	return nil, lastErr
}

func (r *dnsResolver) Close() error {
	r.cache.Purge()
	return nil
}
