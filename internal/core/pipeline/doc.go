// Package pipeline 实现 Channel 的有序可变 handler 链
//
// 链是双向链表：每个 HandlerContext 节点包装一个 handler 并持有
// 前后邻居指针，两端是 head / tail 哨兵。链序完全由插入操作决定。
//
// 事件传播：
//   - 入站事件（注册、激活、读、用户事件）从 head 向 tail 传播
//   - 出站事件（连接、绑定、写、关闭）从 tail 向 head 传播，
//     到达 head 后由 Channel 执行实际传输动作
//   - handler 不显式转发则传播在该节点终止
//
// handler 处理事件时的 panic 转换为入站异常事件，从出错节点的
// 位置（而非 head）开始传播；无人消费时记录日志并关闭 Channel。
// 出站事件处理中的 panic 则使对应的 Promise 失败。
//
// 链的变更只在所属 EventLoop 线程执行，loop 内变更无需加锁；
// 其他线程的变更请求经 EventLoop 任务队列转移并等待完成。
package pipeline
