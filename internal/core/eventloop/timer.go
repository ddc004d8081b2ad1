package eventloop

import (
	"container/heap"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// timerTask 定时任务
//
// 同一截止时间的任务按 seq（提交顺序）排序，保证与其他已调度
// 任务按 FIFO 次序交错。
type timerTask struct {
	deadline time.Time
	seq      uint64
	task     pkgif.Task

	// 0 待执行 / 1 已取消 / 2 已执行
	state atomic.Int32

	// 在堆中的下标，出堆后为 -1
	index int
}

const (
	timerPending int32 = iota
	timerCancelled
	timerFired
)

var _ pkgif.Timeout = (*timerTask)(nil)

// Cancel 取消定时任务
//
// 已取消的任务留在堆中，出堆时丢弃（惰性删除）。
func (t *timerTask) Cancel() bool {
	return t.state.CompareAndSwap(timerPending, timerCancelled)
}

// cancelled 是否已取消
func (t *timerTask) cancelled() bool {
	return t.state.Load() == timerCancelled
}

// ============================================================================
//                              定时器堆
// ============================================================================

// timerHeap 按 (deadline, seq) 排序的最小堆
type timerHeap []*timerTask

var _ heap.Interface = (*timerHeap)(nil)

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timerTask)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
