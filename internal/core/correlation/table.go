package correlation

import (
	"fmt"
	"sync"
	"time"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

var logger = log.Logger("core/correlation")

// idSpace 事务 id 空间大小（16 位无符号）
const idSpace = 1 << 16

// Entry 一条在途请求
type Entry struct {
	// ID 事务 id
	ID uint16

	// Key 发起请求的键，响应必须携带一致的键才能完成条目
	Key string

	// Promise 请求结果
	Promise pkgif.Promise

	// Issued 登记时间
	Issued time.Time

	// Retries 重试计数
	Retries int

	// 承载请求的 Channel
	ch pkgif.Channel

	// 超时句柄，完成时取消
	timeout pkgif.Timeout
}

// Table 事务登记表
//
// 作用域为一个逻辑传输；在多路复用传输的多个逻辑通道间共享时
// 由内部互斥锁保证分配/完成/超时的原子性。不同协议族不应复用
// 同一张表（id 唯一性只在单表内保证）。
type Table struct {
	mu sync.Mutex

	entries map[uint16]*Entry

	// 回绕计数器，分配时跳过在用 id
	next uint16

	// 已挂了 close 监听的 Channel（按 ID）
	watched map[string]struct{}
}

// NewTable 创建登记表
func NewTable() *Table {
	return &Table{
		entries: make(map[uint16]*Entry),
		watched: make(map[string]struct{}),
	}
}

// ============================================================================
//                              登记
// ============================================================================

// Register 分配 id 并登记一条在途请求
//
// 在 ch 所属 EventLoop 上创建 Promise，并经该 loop 的定时器安排
// 超时（timeout <= 0 表示不超时）。返回分配的 id 与 Promise。
func (t *Table) Register(key string, ch pkgif.Channel, timeout time.Duration) (uint16, pkgif.Promise, error) {
	if ch == nil {
		return 0, nil, ErrNilChannel
	}
	loop := ch.EventLoop()

	t.mu.Lock()
	id, ok := t.allocate()
	if !ok {
		t.mu.Unlock()
		return 0, nil, ErrTableFull
	}
	e := &Entry{
		ID:      id,
		Key:     key,
		Promise: ch.NewPromise(),
		Issued:  time.Now(),
		ch:      ch,
	}
	t.entries[id] = e
	watch := false
	if _, ok := t.watched[ch.ID()]; !ok {
		t.watched[ch.ID()] = struct{}{}
		watch = true
	}
	t.mu.Unlock()

	if timeout > 0 && loop != nil {
		h := loop.Schedule(func() { t.expire(id) }, timeout)
		// 持锁写入句柄；条目在此窗口内已被移除（响应先到或
		// Channel 已关闭）时立即取消，避免定时器泄漏
		t.mu.Lock()
		if t.entries[id] == e {
			e.timeout = h
			t.mu.Unlock()
		} else {
			t.mu.Unlock()
			h.Cancel()
		}
	}
	if watch {
		// Channel 关闭时立即让其全部在途条目失败
		ch.CloseFuture().AddListener(func(pkgif.Future) {
			t.FailAllFor(ch)
		})
	}
	return id, e.Promise, nil
}

// allocate 取一个未在用的 id（调用方持有 t.mu）
func (t *Table) allocate() (uint16, bool) {
	if len(t.entries) >= idSpace {
		return 0, false
	}
	for {
		id := t.next
		t.next++
		if _, inUse := t.entries[id]; !inUse {
			return id, true
		}
	}
}

// ============================================================================
//                              完成 / 超时 / 失败
// ============================================================================

// Complete 以响应完成条目
//
// 仅当条目存在且 key 与登记键一致时移除并成功完成其 Promise，
// 返回 true；否则（迟到、重复或 id 已复用的响应）为 no-op。
func (t *Table) Complete(id uint16, key string, response any) bool {
	t.mu.Lock()
	e, ok := t.entries[id]
	if !ok || e.Key != key {
		t.mu.Unlock()
		if ok {
			logger.Debug("response key mismatch, ignoring",
				"id", id, "want", e.Key, "got", key)
		}
		return false
	}
	delete(t.entries, id)
	t.mu.Unlock()

	if e.timeout != nil {
		e.timeout.Cancel()
	}
	e.Promise.TrySuccess(response)
	return true
}

// expire 以超时失败条目
func (t *Table) expire(id uint16) {
	t.mu.Lock()
	e, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	t.mu.Unlock()
	if !ok {
		return
	}
	e.Promise.TryFailure(fmt.Errorf("%w: id %d after %s", ErrTimeout, id, time.Since(e.Issued)))
}

// FailAllFor 让指定 Channel 的全部在途条目以关闭原因失败
//
// 在该 Channel 关闭时调用，条目不必等到各自超时。
func (t *Table) FailAllFor(ch pkgif.Channel) {
	t.mu.Lock()
	var failed []*Entry
	for id, e := range t.entries {
		if e.ch == ch {
			delete(t.entries, id)
			failed = append(failed, e)
		}
	}
	delete(t.watched, ch.ID())
	t.mu.Unlock()

	for _, e := range failed {
		if e.timeout != nil {
			e.timeout.Cancel()
		}
		e.Promise.TryFailure(ErrChannelClosed)
	}
}

// Pending 返回在途条目数
func (t *Table) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
