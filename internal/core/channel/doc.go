// Package channel 实现传输端点抽象 Channel
//
// 生命周期单向推进：
//
//	UNREGISTERED → REGISTERED → ACTIVE → INACTIVE → CLOSED
//
// CLOSED 为终态。注册时绑定到恰好一个 EventLoop，此后不变；
// Channel 拥有一条 Pipeline，全部操作（Connect / Bind / Write /
// Close）异步返回 Future，实际传输动作只在所属 EventLoop 线程
// 执行，其他线程的调用经 EventLoop 的 Execute 契约转移。
//
// 底层收发委托给窄接口 Transport：出站连接由独立 goroutine 拨号、
// 结果回到 loop；连接建立后由读 goroutine 把入站字节切片转移进
// loop 并沿 Pipeline 传播。监听模式下接受的连接以入站消息形式
// 送入 Pipeline，由上层决定如何包装。
package channel
