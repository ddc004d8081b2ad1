// Package reactor 提供事件驱动的异步网络 I/O 运行时
//
// 核心抽象：
//
//   - EventLoop：单 goroutine 任务执行器，Channel 的全部 I/O 事件
//     在其所属 loop 线程串行处理
//   - Future/Promise：异步操作的只读结果视图与可写完成端
//   - Channel：连接抽象，持有一条 Pipeline
//   - Pipeline：双向 handler 链，入站事件从头到尾、出站操作从尾到头
//   - Bootstrap：注册 → 解析 → 连接 的出站编排器
//
// 典型用法：
//
//	sys, err := reactor.New(reactor.WithLoops(4))
//	if err != nil { ... }
//	defer sys.Close(context.Background())
//
//	b := sys.Bootstrap(
//		reactor.WithTransport(reactor.NewTCPTransport(reactor.DefaultTCPConfig())),
//		reactor.WithChannelInitializer(func(ch reactor.Channel) error {
//			return ch.Pipeline().AddLast("echo", &echoHandler{})
//		}),
//	)
//	f, err := b.Connect(reactor.NewSocketAddr("example.com", 7))
package reactor
