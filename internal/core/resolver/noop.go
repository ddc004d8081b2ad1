package resolver

import (
	"net"

	"github.com/dep2p/go-reactor/internal/core/future"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// NoopGroup 把所有地址视为已解析的默认 ResolverGroup
//
// 未配置解析器时 Bootstrap 使用该实现，解析步骤被整体跳过。
type NoopGroup struct{}

var _ pkgif.ResolverGroup = (*NoopGroup)(nil)

// NewNoopGroup 创建 NoopGroup
func NewNoopGroup() *NoopGroup {
	return &NoopGroup{}
}

// Resolver 返回 no-op 解析器
func (g *NoopGroup) Resolver(loop pkgif.EventLoop) (pkgif.Resolver, error) {
	return &noopResolver{loop: loop}, nil
}

// Close 无资源可释放
func (g *NoopGroup) Close() error {
	return nil
}

type noopResolver struct {
	loop pkgif.EventLoop
}

var _ pkgif.Resolver = (*noopResolver)(nil)

func (r *noopResolver) IsSupported(addr net.Addr) bool {
	return true
}

// IsResolved 恒真：所有地址原样可用
func (r *noopResolver) IsResolved(addr net.Addr) bool {
	return true
}

func (r *noopResolver) Resolve(addr net.Addr) pkgif.Future {
	return future.Succeeded(r.loop, addr)
}

func (r *noopResolver) Close() error {
	return nil
}
