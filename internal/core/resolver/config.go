package resolver

import (
	"net"
	"time"

	"github.com/miekg/dns"
)

// Config DNS 解析器配置
type Config struct {
	// Servers DNS 服务器地址（host:port），空时读取系统配置
	Servers []string

	// QueryTimeout 单次查询超时
	QueryTimeout time.Duration

	// CacheSize 每个 loop 的缓存条目上限
	CacheSize int

	// CacheTTL 缓存条目存活时间
	CacheTTL time.Duration
}

// DefaultConfig 返回默认配置
//
// 优先读取 /etc/resolv.conf，失败时回退到公共 DNS。
func DefaultConfig() Config {
	cfg := Config{
		QueryTimeout: 5 * time.Second,
		CacheSize:    1024,
		CacheTTL:     60 * time.Second,
	}
	if cc, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(cc.Servers) > 0 {
		for _, s := range cc.Servers {
			cfg.Servers = append(cfg.Servers, net.JoinHostPort(s, cc.Port))
		}
	} else {
		cfg.Servers = []string{"8.8.8.8:53"}
	}
	return cfg
}
