package reactor

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-reactor/internal/core/eventloop"
	"github.com/dep2p/go-reactor/internal/core/resolver"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

// appRunner Fx 应用生命周期子集，便于测试替换
type appRunner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// buildFxApp 构建 Fx 应用
//
// 组装顺序（按依赖）：EventLoop 池 → 解析器组 → System 注入。
// 关闭时逆序执行：先关解析器，再等全部 loop 排空。
func buildFxApp(cfg *systemConfig, sys *System) (*fx.App, error) {
	if cfg.logLevel != nil {
		log.SetLevel(*cfg.logLevel)
	}

	loopCfg := eventloop.DefaultConfig()
	if cfg.loops > 0 {
		loopCfg.Loops = cfg.loops
	}

	modules := []fx.Option{
		fx.Supply(loopCfg),
		eventloop.Module(),
	}

	if cfg.dns.disabled {
		modules = append(modules, fx.Provide(func() pkgif.ResolverGroup {
			return resolver.NewNoopGroup()
		}))
	} else {
		modules = append(modules,
			fx.Supply(cfg.resolverConfig()),
			resolver.Module(),
		)
	}

	// 用户扩展
	if len(cfg.userFxOptions) > 0 {
		modules = append(modules, cfg.userFxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectSystemComponents(sys)),
		// 禁用 Fx 自身日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...), nil
}

// systemInjectParams System 组件注入参数
type systemInjectParams struct {
	fx.In

	Group         *eventloop.Group
	ResolverGroup pkgif.ResolverGroup
}

// injectSystemComponents 创建 System 组件注入函数
func injectSystemComponents(sys *System) interface{} {
	return func(params systemInjectParams) {
		sys.group = params.Group
		sys.resolverGroup = params.ResolverGroup
	}
}
