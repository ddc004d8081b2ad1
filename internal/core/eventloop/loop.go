package eventloop

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/eapache/queue"

	"github.com/dep2p/go-reactor/internal/core/future"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

var logger = log.Logger("core/eventloop")

// EventLoop 线程绑定的执行器与定时器
//
// 拥有一个任务队列、一个定时器堆和恰好一条执行 goroutine，
// 以及注册到它的 Channel 集合。
type EventLoop struct {
	name string
	clk  clock.Clock

	mu       sync.Mutex
	tasks    *queue.Queue // 外部提交任务 FIFO
	timers   timerHeap
	timerSeq uint64

	// 注册到本 loop 的 Channel（按 ID）
	channels map[string]pkgif.Channel

	// shuttingDown 置位后不再接受新任务，排空已入队任务后退出
	shuttingDown bool

	wakeCh chan struct{}
	doneCh chan struct{}

	// loop goroutine 的 id，run 启动时记录一次
	loopGoID atomic.Int64

	stats Stats
}

var (
	_ pkgif.EventLoop       = (*EventLoop)(nil)
	_ pkgif.ChannelRegistry = (*EventLoop)(nil)
)

// New 创建并启动一个 EventLoop
func New(name string, clk clock.Clock) *EventLoop {
	if clk == nil {
		clk = clock.New()
	}
	l := &EventLoop{
		name:     name,
		clk:      clk,
		tasks:    queue.New(),
		channels: make(map[string]pkgif.Channel),
		wakeCh:   make(chan struct{}, 1),
		doneCh:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Name 返回 loop 名称
func (l *EventLoop) Name() string {
	return l.name
}

// ============================================================================
//                              Executor 契约
// ============================================================================

// InLoop 当前调用是否发生在 loop 线程内
func (l *EventLoop) InLoop() bool {
	return l.loopGoID.Load() == goid()
}

// Execute 提交任务
//
// 在 loop 线程内调用时内联执行；否则入队并唤醒 loop。
// 同一外部线程先后提交的任务按提交顺序执行。
// loop 已关闭时拒绝任务并返回 ErrShutdown。
func (l *EventLoop) Execute(task pkgif.Task) error {
	if task == nil {
		return nil
	}
	if l.InLoop() {
		l.safeRun(task)
		return nil
	}

	l.mu.Lock()
	if l.terminated() {
		l.mu.Unlock()
		return ErrShutdown
	}
	l.tasks.Add(task)
	l.mu.Unlock()
	l.wake()
	return nil
}

// Schedule 延迟执行任务
//
// 到期后在 loop 线程执行；返回的句柄可在执行前取消。
func (l *EventLoop) Schedule(task pkgif.Task, delay time.Duration) pkgif.Timeout {
	if delay < 0 {
		delay = 0
	}
	t := &timerTask{task: task}

	l.mu.Lock()
	if l.terminated() {
		l.mu.Unlock()
		logger.Warn("timer rejected, loop terminated", "loop", l.name)
		t.state.Store(timerCancelled)
		return t
	}
	t.deadline = l.clk.Now().Add(delay)
	t.seq = l.timerSeq
	l.timerSeq++
	heap.Push(&l.timers, t)
	l.mu.Unlock()

	l.wake()
	return t
}

// ============================================================================
//                              Promise 工厂
// ============================================================================

// NewPromise 创建绑定到本 loop 的 Promise
func (l *EventLoop) NewPromise() pkgif.Promise {
	return future.New(l)
}

// NewSucceededFuture 创建已成功完成的 Future
func (l *EventLoop) NewSucceededFuture(v any) pkgif.Future {
	return future.Succeeded(l, v)
}

// NewFailedFuture 创建已失败完成的 Future
func (l *EventLoop) NewFailedFuture(err error) pkgif.Future {
	return future.Failed(l, err)
}

// ============================================================================
//                              Channel 登记
// ============================================================================

// AttachChannel 登记注册到本 loop 的 Channel
func (l *EventLoop) AttachChannel(ch pkgif.Channel) {
	l.mu.Lock()
	l.channels[ch.ID()] = ch
	l.mu.Unlock()
}

// DetachChannel 注销 Channel
func (l *EventLoop) DetachChannel(ch pkgif.Channel) {
	l.mu.Lock()
	delete(l.channels, ch.ID())
	l.mu.Unlock()
}

// ChannelCount 返回当前登记的 Channel 数量
func (l *EventLoop) ChannelCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.channels)
}

// ============================================================================
//                              关闭
// ============================================================================

// Shutdown 关闭 loop
//
// 先排空已入队任务再退出；未到期的定时任务被放弃。幂等。
func (l *EventLoop) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	if !l.shuttingDown {
		l.shuttingDown = true
		if n := l.timers.Len(); n > 0 {
			logger.Debug("abandoning pending timers", "loop", l.name, "count", n)
		}
	}
	l.mu.Unlock()
	l.wake()

	select {
	case <-l.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// terminated loop goroutine 是否已退出（调用方持有 l.mu）
func (l *EventLoop) terminated() bool {
	select {
	case <-l.doneCh:
		return true
	default:
		return false
	}
}

// ============================================================================
//                              主循环
// ============================================================================

// wake 唤醒 loop（非阻塞，合并重复唤醒）
func (l *EventLoop) wake() {
	select {
	case l.wakeCh <- struct{}{}:
	default:
	}
}

func (l *EventLoop) run() {
	l.loopGoID.Store(goid())
	defer close(l.doneCh)

	timer := l.clk.Timer(time.Hour)
	defer timer.Stop()
	drainTimer(timer)

	for {
		l.runTasks()
		l.runDueTimers()

		l.mu.Lock()
		if l.shuttingDown && l.tasks.Length() == 0 {
			l.mu.Unlock()
			logger.Debug("loop terminated", "loop", l.name)
			return
		}
		next, hasNext := l.nextDeadline()
		l.mu.Unlock()

		if hasNext {
			timer.Reset(next.Sub(l.clk.Now()))
			select {
			case <-l.wakeCh:
				if !timer.Stop() {
					drainTimer(timer)
				}
			case <-timer.C:
			}
			continue
		}
		<-l.wakeCh
	}
}

// runTasks 按 FIFO 次序排空任务队列
func (l *EventLoop) runTasks() {
	for {
		l.mu.Lock()
		if l.tasks.Length() == 0 {
			l.mu.Unlock()
			return
		}
		task := l.tasks.Remove().(pkgif.Task)
		l.mu.Unlock()
		l.safeRun(task)
	}
}

// runDueTimers 执行全部已到期定时任务
func (l *EventLoop) runDueTimers() {
	for {
		l.mu.Lock()
		if l.timers.Len() == 0 || l.timers[0].deadline.After(l.clk.Now()) {
			l.mu.Unlock()
			return
		}
		t := heap.Pop(&l.timers).(*timerTask)
		l.mu.Unlock()

		if !t.state.CompareAndSwap(timerPending, timerFired) {
			// 已取消，惰性丢弃
			continue
		}
		l.stats.timersFired.Add(1)
		l.safeRun(t.task)
	}
}

// nextDeadline 返回最近一个未取消定时任务的截止时间（调用方持有 l.mu）
func (l *EventLoop) nextDeadline() (time.Time, bool) {
	for l.timers.Len() > 0 {
		if l.timers[0].cancelled() {
			heap.Pop(&l.timers)
			continue
		}
		return l.timers[0].deadline, true
	}
	return time.Time{}, false
}

// safeRun 执行任务，panic 只记录不扩散
//
// 任务中的未捕获 panic 不会终止 loop。
func (l *EventLoop) safeRun(task pkgif.Task) {
	defer func() {
		if r := recover(); r != nil {
			l.stats.taskPanics.Add(1)
			logger.Error("task panicked", "loop", l.name, "panic", r)
		}
	}()
	l.stats.tasksExecuted.Add(1)
	task()
}

// drainTimer 清空可能已触发的定时器通道
func drainTimer(t *clock.Timer) {
	select {
	case <-t.C:
	default:
	}
}
