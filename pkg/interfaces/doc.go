// Package interfaces 定义 Reactor 公共接口
//
// 本包汇聚运行时各组件的公共契约：
//   - EventLoop / EventLoopGroup: 线程绑定的任务执行与定时器
//   - Future / Promise: 异步结果的只读侧与可写侧
//   - Channel / Pipeline / Handler: 连接抽象与有序处理链
//   - Resolver / ResolverGroup: 地址解析协作方
//   - Transport: 底层传输的窄接口
//
// 实现位于 internal/core/ 下的各组件包。
package interfaces
