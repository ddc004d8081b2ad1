package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// TestPromiseInterfaces 验证接口实现
func TestPromiseInterfaces(t *testing.T) {
	var _ pkgif.Promise = New(nil)
	var _ pkgif.Future = Succeeded(nil, 1)
}

func TestPromiseSuccess(t *testing.T) {
	p := New(nil)
	require.False(t, p.Done())

	require.True(t, p.TrySuccess("hello"))
	assert.True(t, p.Done())
	assert.True(t, p.Success())
	assert.False(t, p.Cancelled())
	assert.Equal(t, "hello", p.Now())
	assert.NoError(t, p.Cause())
}

func TestPromiseFailure(t *testing.T) {
	cause := errors.New("boom")
	p := New(nil)

	require.True(t, p.TryFailure(cause))
	assert.True(t, p.Done())
	assert.False(t, p.Success())
	assert.Nil(t, p.Now())
	assert.ErrorIs(t, p.Cause(), cause)
}

// TestPromiseImmutable 完成后结果不可变
func TestPromiseImmutable(t *testing.T) {
	p := New(nil)
	require.True(t, p.TrySuccess(1))

	assert.False(t, p.TrySuccess(2))
	assert.False(t, p.TryFailure(errors.New("late")))
	assert.False(t, p.Cancel())
	assert.Equal(t, 1, p.Now())
}

// TestPromiseSetPanics Set 系列在已完成时 panic
func TestPromiseSetPanics(t *testing.T) {
	p := New(nil)
	p.SetSuccess(1)

	assert.Panics(t, func() { p.SetSuccess(2) })
	assert.Panics(t, func() { p.SetFailure(errors.New("x")) })
}

func TestPromiseCancel(t *testing.T) {
	p := New(nil)
	require.True(t, p.Cancel())

	assert.True(t, p.Done())
	assert.True(t, p.Cancelled())
	assert.False(t, p.Success())
	assert.ErrorIs(t, p.Cause(), ErrCancelled)
}

// TestListenerOrder 监听器按注册顺序回调，恰好一次
func TestListenerOrder(t *testing.T) {
	p := New(nil)

	var mu sync.Mutex
	var order []int
	for i := 0; i < 8; i++ {
		i := i
		p.AddListener(func(pkgif.Future) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	p.SetSuccess(nil)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 8)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

// TestLateListener 完成后注册的监听器仍被回调
func TestLateListener(t *testing.T) {
	p := New(nil)
	p.SetSuccess("v")

	called := make(chan any, 1)
	p.AddListener(func(f pkgif.Future) {
		called <- f.Now()
	})

	select {
	case v := <-called:
		assert.Equal(t, "v", v)
	case <-time.After(time.Second):
		t.Fatal("listener not invoked")
	}
}

// TestListenerAddedDuringDispatch 分发期间追加的监听器由持有者接力分发
func TestListenerAddedDuringDispatch(t *testing.T) {
	p := New(nil)
	inner := make(chan struct{})

	p.AddListener(func(f pkgif.Future) {
		f.AddListener(func(pkgif.Future) {
			close(inner)
		})
	})
	p.SetSuccess(nil)

	select {
	case <-inner:
	case <-time.After(time.Second):
		t.Fatal("nested listener not invoked")
	}
}

// TestListenerPanicIsolated 监听器 panic 不影响后续监听器
func TestListenerPanicIsolated(t *testing.T) {
	p := New(nil)
	done := make(chan struct{})

	p.AddListener(func(pkgif.Future) { panic("listener boom") })
	p.AddListener(func(pkgif.Future) { close(done) })
	p.SetSuccess(nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second listener not invoked")
	}
}

func TestAwait(t *testing.T) {
	p := New(nil)
	go func() {
		time.Sleep(20 * time.Millisecond)
		p.SetSuccess(42)
	}()

	require.NoError(t, p.Await(context.Background()))
	assert.Equal(t, 42, p.Now())
}

func TestAwaitContextCancelled(t *testing.T) {
	p := New(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// inLoopExecutor 恒在 loop 内的执行器，模拟 loop 线程自等待
type inLoopExecutor struct{}

func (inLoopExecutor) Execute(task pkgif.Task) error { task(); return nil }
func (inLoopExecutor) InLoop() bool                  { return true }

// TestAwaitDeadlockDetection 在所属执行器线程内等待未完成 Promise 报死锁
func TestAwaitDeadlockDetection(t *testing.T) {
	p := New(inLoopExecutor{})
	err := p.Await(context.Background())
	assert.ErrorIs(t, err, ErrDeadlock)
}

// TestAwaitDoneInLoop 已完成的 Promise 在 loop 线程内等待直接返回
func TestAwaitDoneInLoop(t *testing.T) {
	p := New(inLoopExecutor{})
	p.SetSuccess(nil)
	assert.NoError(t, p.Await(context.Background()))
}

func TestCascade(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		src := New(nil)
		dst := New(nil)
		Cascade(src, dst)

		src.SetSuccess("v")
		require.True(t, dst.Done())
		assert.Equal(t, "v", dst.Now())
	})

	t.Run("failure", func(t *testing.T) {
		cause := errors.New("boom")
		src := New(nil)
		dst := New(nil)
		Cascade(src, dst)

		src.SetFailure(cause)
		require.True(t, dst.Done())
		assert.ErrorIs(t, dst.Cause(), cause)
	})

	t.Run("dst already completed", func(t *testing.T) {
		src := New(nil)
		dst := New(nil)
		dst.SetSuccess("first")
		Cascade(src, dst)

		src.SetSuccess("second")
		assert.Equal(t, "first", dst.Now())
	})
}

func TestBindExecutor(t *testing.T) {
	p := New(nil)
	p.BindExecutor(inLoopExecutor{})

	// 绑定后的死锁检测生效
	err := p.Await(context.Background())
	assert.ErrorIs(t, err, ErrDeadlock)
}

// TestConcurrentComplete 并发完成只有一方获胜
func TestConcurrentComplete(t *testing.T) {
	p := New(nil)

	var wins int32
	var wg sync.WaitGroup
	results := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- p.TrySuccess(i)
		}(i)
	}
	wg.Wait()
	close(results)

	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.EqualValues(t, 1, wins)
	assert.True(t, p.Done())
}
