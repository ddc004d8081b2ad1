// Package resolver 提供地址解析实现
//
// ResolverGroup 按 EventLoop 分配解析器，保证解析发生在 Channel
// 注册之后、连接之前，缓存具备 loop 亲和性。提供两个实现：
//
//   - NoopGroup：把所有地址视为已解析，解析步骤被跳过
//   - DNSGroup：基于 DNS 协议解析主机名，带 TTL 缓存
package resolver
