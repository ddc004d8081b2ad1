package eventloop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// Group EventLoop 池
//
// 进程级共享资源：构造时确定成员数量并全部启动，Next 按轮询
// 指派成员，Shutdown 恰好关闭一次。
type Group struct {
	loops []*EventLoop
	next  atomic.Uint64

	shutdownOnce sync.Once
	shutdownErr  error
}

var _ pkgif.EventLoopGroup = (*Group)(nil)

// NewGroup 创建 EventLoop 池
func NewGroup(cfg Config) (*Group, error) {
	if cfg.Loops <= 0 {
		return nil, ErrInvalidLoops
	}
	g := &Group{loops: make([]*EventLoop, cfg.Loops)}
	for i := range g.loops {
		g.loops[i] = New(fmt.Sprintf("loop-%d", i), cfg.Clock)
	}
	return g, nil
}

// Next 按轮询返回下一个 EventLoop
func (g *Group) Next() pkgif.EventLoop {
	n := g.next.Add(1)
	return g.loops[(n-1)%uint64(len(g.loops))]
}

// Size 返回池内 EventLoop 数量
func (g *Group) Size() int {
	return len(g.loops)
}

// Shutdown 关闭池内全部 EventLoop
//
// 每个成员先排空在途任务再退出。只执行一次，重复调用返回
// 首次的聚合结果。
func (g *Group) Shutdown(ctx context.Context) error {
	g.shutdownOnce.Do(func() {
		var wg sync.WaitGroup
		errs := make([]error, len(g.loops))
		for i, l := range g.loops {
			wg.Add(1)
			go func(i int, l *EventLoop) {
				defer wg.Done()
				errs[i] = l.Shutdown(ctx)
			}(i, l)
		}
		wg.Wait()
		g.shutdownErr = multierr.Combine(errs...)
	})
	return g.shutdownErr
}
