package reactor

import (
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-reactor/internal/core/resolver"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

// Option 用户配置选项函数
type Option func(*systemConfig) error

// systemConfig 内部配置结构
type systemConfig struct {
	// EventLoop 池大小，0 表示 NumCPU
	loops int

	// 解析器配置
	dns struct {
		servers  []string
		cacheTTL time.Duration
		disabled bool
	}

	// 日志级别
	logLevel *log.Level

	// 启动超时
	startTimeout time.Duration

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newSystemConfig 创建默认配置
func newSystemConfig() *systemConfig {
	return &systemConfig{
		startTimeout: 15 * time.Second,
	}
}

// WithLoops 指定 EventLoop 池大小
func WithLoops(n int) Option {
	return func(c *systemConfig) error {
		if n <= 0 {
			return fmt.Errorf("loops must be positive, got %d", n)
		}
		c.loops = n
		return nil
	}
}

// WithDNSServers 指定 DNS 服务器（host:port）
func WithDNSServers(servers ...string) Option {
	return func(c *systemConfig) error {
		if len(servers) == 0 {
			return fmt.Errorf("at least one dns server required")
		}
		c.dns.servers = servers
		return nil
	}
}

// WithDNSCacheTTL 指定 DNS 缓存存活时间
func WithDNSCacheTTL(ttl time.Duration) Option {
	return func(c *systemConfig) error {
		if ttl <= 0 {
			return fmt.Errorf("cache ttl must be positive, got %v", ttl)
		}
		c.dns.cacheTTL = ttl
		return nil
	}
}

// WithDNSDisabled 不启用 DNS 解析，全部地址视为已解析
func WithDNSDisabled() Option {
	return func(c *systemConfig) error {
		c.dns.disabled = true
		return nil
	}
}

// WithLogLevel 指定全局日志级别
func WithLogLevel(level log.Level) Option {
	return func(c *systemConfig) error {
		c.logLevel = &level
		return nil
	}
}

// WithStartTimeout 指定启动超时
func WithStartTimeout(d time.Duration) Option {
	return func(c *systemConfig) error {
		if d <= 0 {
			return fmt.Errorf("start timeout must be positive, got %v", d)
		}
		c.startTimeout = d
		return nil
	}
}

// WithFxOptions 追加用户自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(c *systemConfig) error {
		c.userFxOptions = append(c.userFxOptions, opts...)
		return nil
	}
}

// resolverConfig 转换为解析器配置
func (c *systemConfig) resolverConfig() resolver.Config {
	cfg := resolver.DefaultConfig()
	if len(c.dns.servers) > 0 {
		cfg.Servers = c.dns.servers
	}
	if c.dns.cacheTTL > 0 {
		cfg.CacheTTL = c.dns.cacheTTL
	}
	return cfg
}
