// Package future 实现可组合的异步结果 Promise / Future
//
// Promise 是可写侧，Future 是只读侧。状态机：
//
//	PENDING → SUCCESS | FAILURE | CANCELLED
//
// 离开 PENDING 后状态不可变，结果值与失败原因互斥。
//
// 监听器语义：
//   - 完成前注册的监听器按注册顺序（FIFO）在 Promise 绑定的
//     Executor（通常为所属 EventLoop）上回调
//   - 完成后注册的监听器立即以最终结果回调一次
//   - 监听器 panic 会被记录，不影响后续监听器执行
//
// Cascade 可把一个 Future 的最终结果桥接到另一个 Promise 上，
// 用于一次异步步骤把结果交还给调用方提供的 Promise。
package future
