// Package bootstrap 实现出站连接编排
//
// 把一次 Connect 调用串成 注册 → 解析 → 连接 三个异步步骤，
// 全程不阻塞调用方，最终结果经单个 Future 交付：
//
//   - 注册失败：直接在调用方路径失败，不触碰 EventLoop
//   - 解析失败：关闭 Channel 并以解析错误失败
//   - 连接失败：失败后自动关闭 Channel
//
// 配置缺失（无 EventLoopGroup 或无 ChannelFactory）属于同步错误，
// 在任何异步步骤开始前由 Connect 的 error 返回值报告。
package bootstrap
