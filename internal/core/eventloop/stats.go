package eventloop

import "sync/atomic"

// Stats loop 运行计数器
//
// 使用原子操作实现并发安全的计数器。
type Stats struct {
	tasksExecuted atomic.Int64
	timersFired   atomic.Int64
	taskPanics    atomic.Int64
}

// Snapshot 计数器快照
type Snapshot struct {
	// TasksExecuted 已执行任务总数
	TasksExecuted int64

	// TimersFired 已触发定时任务总数
	TimersFired int64

	// TaskPanics 任务 panic 总数
	TaskPanics int64
}

// Stats 返回当前计数器快照
func (l *EventLoop) Stats() Snapshot {
	return Snapshot{
		TasksExecuted: l.stats.tasksExecuted.Load(),
		TimersFired:   l.stats.timersFired.Load(),
		TaskPanics:    l.stats.taskPanics.Load(),
	}
}
