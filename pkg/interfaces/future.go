// Package interfaces 定义 Reactor 公共接口
//
// 本文件定义 Future / Promise 接口，表示一次异步操作的最终结果。
package interfaces

import "context"

// FutureListener 完成监听器
//
// Future 完成（成功、失败或取消）后回调，参数为该 Future 本身。
type FutureListener func(f Future)

// Future 异步结果的只读侧
//
// 完成前注册的监听器在 Future 所属的 EventLoop 上按注册顺序回调；
// 完成后注册的监听器立即以最终结果回调。
type Future interface {
	// Done 是否已完成（成功、失败或取消）
	Done() bool

	// Success 是否成功完成
	Success() bool

	// Cancelled 是否被取消
	Cancelled() bool

	// Cause 返回失败原因
	// 未完成或成功完成时返回 nil。
	Cause() error

	// Now 立即返回结果值
	// 未完成或失败时返回 nil，不阻塞。
	Now() any

	// AddListener 注册完成监听器
	// 返回 Future 本身，便于链式调用。
	AddListener(ln FutureListener) Future

	// Await 阻塞等待完成
	//
	// 禁止在 Future 所属的 EventLoop 线程内调用（会饿死该 loop 上的
	// 全部 Channel），此时立即返回 ErrDeadlock。等待期间 ctx 取消则
	// 返回 ctx.Err()。完成后返回失败原因（成功为 nil）。
	Await(ctx context.Context) error
}

// Promise 异步结果的可写侧
//
// 至多被设置一次，离开 PENDING 后状态不可变。
type Promise interface {
	Future

	// TrySuccess 尝试以成功完成
	// 返回是否赢得完成竞争；已完成时为 no-op 并返回 false。
	TrySuccess(v any) bool

	// SetSuccess 以成功完成
	// 已完成时 panic。
	SetSuccess(v any)

	// TryFailure 尝试以失败完成
	// 返回是否赢得完成竞争；已完成时为 no-op 并返回 false。
	TryFailure(err error) bool

	// SetFailure 以失败完成
	// 已完成时 panic。
	SetFailure(err error)

	// Cancel 取消
	// 返回是否由本次调用完成取消；已完成时返回 false。
	Cancel() bool

	// BindExecutor 绑定监听器分发执行器
	//
	// 仅在未完成且尚未绑定执行器时生效。用于 Channel 注册完成前
	// 创建的 Promise：注册成功后绑定到 Channel 的 EventLoop。
	BindExecutor(ex Executor)
}
