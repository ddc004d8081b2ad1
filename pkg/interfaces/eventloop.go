// Package interfaces 定义 Reactor 公共接口
//
// 本文件定义 EventLoop / EventLoopGroup 接口。
package interfaces

import (
	"context"
	"time"
)

// Task 提交给 EventLoop 的任务
type Task func()

// Timeout 可取消的定时任务句柄
type Timeout interface {
	// Cancel 取消定时任务
	// 返回是否成功取消；任务已执行或已取消时返回 false。
	Cancel() bool
}

// Executor 任务执行器
//
// EventLoop 的最小执行契约，Promise 的监听器分发依赖它。
type Executor interface {
	// Execute 提交任务
	//
	// 在 loop 线程内调用时内联执行；否则入队并唤醒 loop。
	// 同一外部线程先后提交的任务按提交顺序执行。
	// 执行器已关闭时拒绝任务并返回错误，任务不会执行。
	Execute(task Task) error

	// InLoop 当前调用是否发生在 loop 线程内
	InLoop() bool
}

// EventLoop 线程绑定的执行器与定时器
//
// 每个 EventLoop 独占一条执行 goroutine，驱动注册到它的全部 Channel
// 的 I/O 与任务执行。Channel 注册后与 EventLoop 的绑定终生不变，
// 因此 Pipeline 中的 handler 永远不会与自身并发执行。
type EventLoop interface {
	Executor

	// Schedule 延迟执行任务
	//
	// 到期后在 loop 线程执行，与其他已调度任务按提交顺序交错。
	// 返回的 Timeout 可在任务执行前取消。
	Schedule(task Task, delay time.Duration) Timeout

	// NewPromise 创建绑定到本 loop 的 Promise
	NewPromise() Promise

	// NewSucceededFuture 创建已成功完成的 Future
	NewSucceededFuture(v any) Future

	// NewFailedFuture 创建已失败完成的 Future
	NewFailedFuture(err error) Future

	// Shutdown 关闭 loop
	//
	// 先排空已入队任务，再释放资源。幂等；ctx 取消时提前返回。
	Shutdown(ctx context.Context) error
}

// EventLoopGroup EventLoop 池
//
// 进程级共享资源：构造时确定成员数量，按策略（默认轮询）将
// EventLoop 指派给注册的 Channel，恰好关闭一次。
type EventLoopGroup interface {
	// Next 返回下一个 EventLoop
	Next() EventLoop

	// Shutdown 关闭池内全部 EventLoop
	// 排空在途任务后释放资源；幂等。
	Shutdown(ctx context.Context) error
}

// ChannelRegistry EventLoop 的 Channel 登记表
//
// EventLoop 的可选扩展接口：维护注册到该 loop 的 Channel 集合。
// Channel 在注册/关闭时调用。
type ChannelRegistry interface {
	// AttachChannel 登记 Channel
	AttachChannel(ch Channel)

	// DetachChannel 注销 Channel
	DetachChannel(ch Channel)
}
