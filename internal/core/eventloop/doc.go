// Package eventloop 实现线程绑定的任务执行器与定时器
//
// 每个 EventLoop 独占一条执行 goroutine，串行驱动注册到它的全部
// Channel 的 I/O 回调与任务。跨线程交互只通过 Execute / Schedule
// 进入，同一外部线程先后提交的任务保持 FIFO 次序，并与已入队的
// I/O 回调正确交错。
//
// Group 是进程级共享的 EventLoop 池：构造时确定成员数量，按轮询
// 策略指派给注册的 Channel，恰好关闭一次，关闭时先排空在途任务。
//
// 任务或回调中的 panic 会被捕获并记录，不会终止 loop；Channel 上
// 的 I/O 错误只关闭该 Channel 并经其 CloseFuture 暴露。
package eventloop
