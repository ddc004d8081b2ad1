package eventloop

import (
	"runtime"

	"github.com/benbjohnson/clock"
)

// Config EventLoop 池配置
type Config struct {
	// Loops 池内 EventLoop 数量
	Loops int

	// Clock 时钟源
	// 测试中可注入 clock.Mock 以控制定时器推进。
	Clock clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Loops: runtime.NumCPU(),
		Clock: clock.New(),
	}
}
