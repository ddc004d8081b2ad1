package resolver

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

	Group pkgif.ResolverGroup
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("resolver",
		fx.Provide(ProvideGroup),
		fx.Invoke(registerLifecycle),
	)
}

// params 构造输入参数
type params struct {
	fx.In

	Config Config `optional:"true"`
}

// ProvideGroup 提供 DNS 解析器组实例
func ProvideGroup(p params) Result {
	return Result{Group: NewDNSGroup(p.Config)}
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC    fx.Lifecycle
	Group pkgif.ResolverGroup
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return input.Group.Close()
		},
	})
}
