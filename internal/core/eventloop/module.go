// Package eventloop 实现线程绑定的任务执行器与定时器
package eventloop

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Group      *Group
	GroupIface pkgif.EventLoopGroup
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventloop",
		fx.Provide(ProvideGroup),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideGroup 提供 EventLoop 池实例
func ProvideGroup(cfg Config) (Result, error) {
	g, err := NewGroup(cfg)
	if err != nil {
		return Result{}, err
	}
	return Result{Group: g, GroupIface: g}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC    fx.Lifecycle
	Group *Group
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return input.Group.Shutdown(ctx)
		},
	})
}
