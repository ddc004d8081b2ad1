// Package correlation 实现异步请求与响应的配对登记表
//
// 以有界无符号整型事务 id 为键登记在途请求。id 分配使用回绕
// 计数器并跳过在用 id，保证在途条目之间 id 唯一。
//
// 响应到达时按 id 取出条目并完成其 Promise，但仅当响应携带的
// 请求键与条目登记的键一致——防御 id 复用后迟到或重复的响应；
// 键不符或条目缺失均为 no-op。
//
// 每个条目在登记时经所属 EventLoop 的定时器安排超时，先完成则
// 取消超时。承载条目的 Channel 关闭时，其全部在途条目立即以
// 关闭原因失败，不必等到各自超时。
//
// 登记表可以在一条物理连接上多路复用的多个逻辑通道间共享，
// 因此分配/完成/超时全程持锁。
package correlation
