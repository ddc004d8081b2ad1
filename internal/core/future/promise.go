package future

import (
	"context"
	"fmt"
	"sync"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

var logger = log.Logger("core/future")

// ============================================================================
//                              状态定义
// ============================================================================

type state int32

const (
	statePending state = iota
	stateSuccess
	stateFailure
	stateCancelled
)

// ============================================================================
//                              Promise 实现
// ============================================================================

// promise Promise/Future 的唯一实现
type promise struct {
	mu sync.Mutex

	state state
	value any
	err   error

	// 注册顺序即回调顺序
	listeners []pkgif.FutureListener

	// notifying 为 true 时已有 goroutine 持有分发权，
	// 期间追加的监听器由持有者接力分发
	notifying bool

	// 监听器分发执行器；nil 时在完成方线程内联分发
	ex pkgif.Executor

	// 完成后关闭，供 Await 使用
	done chan struct{}
}

var (
	_ pkgif.Future  = (*promise)(nil)
	_ pkgif.Promise = (*promise)(nil)
)

// New 创建绑定到指定执行器的 Promise
//
// ex 为 nil 时监听器在完成方线程内联回调。Channel 注册完成前创建的
// Promise 先以 nil 构造，注册成功后经 BindExecutor 绑定到 EventLoop。
func New(ex pkgif.Executor) pkgif.Promise {
	return &promise{ex: ex, done: make(chan struct{})}
}

// Succeeded 创建已成功完成的 Future
func Succeeded(ex pkgif.Executor, v any) pkgif.Future {
	p := New(ex)
	p.SetSuccess(v)
	return p
}

// Failed 创建已失败完成的 Future
func Failed(ex pkgif.Executor, err error) pkgif.Future {
	p := New(ex)
	p.SetFailure(err)
	return p
}

// ============================================================================
//                              Future 只读侧
// ============================================================================

// Done 是否已完成
func (p *promise) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state != statePending
}

// Success 是否成功完成
func (p *promise) Success() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateSuccess
}

// Cancelled 是否被取消
func (p *promise) Cancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateCancelled
}

// Cause 返回失败原因
func (p *promise) Cause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Now 立即返回结果值，不阻塞
func (p *promise) Now() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != stateSuccess {
		return nil
	}
	return p.value
}

// AddListener 注册完成监听器
func (p *promise) AddListener(ln pkgif.FutureListener) pkgif.Future {
	if ln == nil {
		return p
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, ln)
	pending := p.state == statePending
	p.mu.Unlock()

	if !pending {
		p.notify()
	}
	return p
}

// Await 阻塞等待完成
func (p *promise) Await(ctx context.Context) error {
	p.mu.Lock()
	ex := p.ex
	pending := p.state == statePending
	p.mu.Unlock()

	// 在所属 loop 线程内阻塞会饿死该 loop 上的全部 Channel
	if pending && ex != nil && ex.InLoop() {
		return ErrDeadlock
	}

	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return p.Cause()
}

// ============================================================================
//                              Promise 可写侧
// ============================================================================

// TrySuccess 尝试以成功完成
func (p *promise) TrySuccess(v any) bool {
	return p.complete(stateSuccess, v, nil)
}

// SetSuccess 以成功完成，已完成时 panic
func (p *promise) SetSuccess(v any) {
	if !p.complete(stateSuccess, v, nil) {
		panic(fmt.Sprintf("future: promise already completed: %v", p.stateName()))
	}
}

// TryFailure 尝试以失败完成
func (p *promise) TryFailure(err error) bool {
	return p.complete(stateFailure, nil, err)
}

// SetFailure 以失败完成，已完成时 panic
func (p *promise) SetFailure(err error) {
	if !p.complete(stateFailure, nil, err) {
		panic(fmt.Sprintf("future: promise already completed: %v", p.stateName()))
	}
}

// Cancel 取消
func (p *promise) Cancel() bool {
	return p.complete(stateCancelled, nil, ErrCancelled)
}

// BindExecutor 绑定监听器分发执行器
//
// 仅在未完成且尚未绑定时生效。
func (p *promise) BindExecutor(ex pkgif.Executor) {
	p.mu.Lock()
	if p.state == statePending && p.ex == nil {
		p.ex = ex
	}
	p.mu.Unlock()
}

// ============================================================================
//                              内部实现
// ============================================================================

// complete 完成状态迁移
//
// 返回是否由本次调用赢得完成竞争。
func (p *promise) complete(s state, v any, err error) bool {
	p.mu.Lock()
	if p.state != statePending {
		p.mu.Unlock()
		return false
	}
	p.state = s
	p.value = v
	p.err = err
	p.mu.Unlock()

	close(p.done)
	p.notify()
	return true
}

// notify 把监听器分发转移到绑定的执行器
//
// 执行器已关闭时在当前 goroutine 内联分发，监听器不会丢失。
func (p *promise) notify() {
	p.mu.Lock()
	ex := p.ex
	p.mu.Unlock()

	if ex != nil && !ex.InLoop() {
		if err := ex.Execute(p.drain); err == nil {
			return
		}
		logger.Warn("executor rejected listener dispatch, running inline")
	}
	p.drain()
}

// drain 按注册顺序分发全部待通知监听器
//
// 同一时刻只有一个 goroutine 持有分发权；分发期间追加的监听器
// 由持有者继续分发，保证 FIFO 且恰好一次。
func (p *promise) drain() {
	p.mu.Lock()
	if p.notifying {
		p.mu.Unlock()
		return
	}
	p.notifying = true
	for len(p.listeners) > 0 {
		lns := p.listeners
		p.listeners = nil
		p.mu.Unlock()
		for _, ln := range lns {
			p.invoke(ln)
		}
		p.mu.Lock()
	}
	p.notifying = false
	p.mu.Unlock()
}

// invoke 调用单个监听器，panic 只记录不扩散
func (p *promise) invoke(ln pkgif.FutureListener) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("listener panicked", "panic", r)
		}
	}()
	ln(p)
}

func (p *promise) stateName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case stateSuccess:
		return "success"
	case stateFailure:
		return "failure"
	case stateCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// ============================================================================
//                              桥接
// ============================================================================

// Cascade 把 src 的最终结果桥接到 dst
//
// src 成功则 dst 以同一结果值成功，失败则以同一原因失败。
// dst 已被其他途径完成时为 no-op。
func Cascade(src pkgif.Future, dst pkgif.Promise) {
	src.AddListener(func(f pkgif.Future) {
		if f.Success() {
			dst.TrySuccess(f.Now())
			return
		}
		dst.TryFailure(f.Cause())
	})
}
