package pipeline

import (
	"fmt"
	"net"
	"reflect"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
	"github.com/dep2p/go-reactor/pkg/lib/log"
)

var logger = log.Logger("core/pipeline")

// HeadOps 链头的实际传输动作
//
// 出站事件传播到 head 后由 Channel 执行；Pipeline 只负责传播。
type HeadOps interface {
	// HeadConnect 执行实际连接
	HeadConnect(addr net.Addr, p pkgif.Promise)

	// HeadBind 执行实际绑定
	HeadBind(addr net.Addr, p pkgif.Promise)

	// HeadWrite 执行实际写出
	HeadWrite(msg any, p pkgif.Promise)

	// HeadClose 执行实际关闭
	HeadClose(p pkgif.Promise)
}

// ============================================================================
//                              哨兵 handler
// ============================================================================

// headHandler 链头哨兵
//
// 出站终点：把出站事件交给 Channel 的实际传输动作。
// 入站起点：全部向后转发。
type headHandler struct {
	InboundAdapter
	ops HeadOps
}

func (h *headHandler) Connect(_ pkgif.HandlerContext, addr net.Addr, p pkgif.Promise) {
	h.ops.HeadConnect(addr, p)
}

func (h *headHandler) Bind(_ pkgif.HandlerContext, addr net.Addr, p pkgif.Promise) {
	h.ops.HeadBind(addr, p)
}

func (h *headHandler) Write(_ pkgif.HandlerContext, msg any, p pkgif.Promise) {
	h.ops.HeadWrite(msg, p)
}

func (h *headHandler) Close(_ pkgif.HandlerContext, p pkgif.Promise) {
	h.ops.HeadClose(p)
}

// tailHandler 链尾哨兵
//
// 入站终点。到达这里的读事件被丢弃；到达这里的异常事件说明
// 没有任何 handler 消费它：记录日志并关闭 Channel。
type tailHandler struct{}

var _ pkgif.InboundHandler = (*tailHandler)(nil)

func (*tailHandler) ChannelRegistered(pkgif.HandlerContext) {}

func (*tailHandler) ChannelActive(pkgif.HandlerContext) {}

func (*tailHandler) ChannelRead(ctx pkgif.HandlerContext, msg any) {
	logger.Debug("discarded inbound message reached tail",
		"channel", ctx.Channel().ID(), "type", fmt.Sprintf("%T", msg))
}

func (*tailHandler) ChannelInactive(pkgif.HandlerContext) {}

func (*tailHandler) UserEventTriggered(pkgif.HandlerContext, any) {}

func (*tailHandler) ExceptionCaught(ctx pkgif.HandlerContext, err error) {
	logger.Error("unhandled exception reached tail, closing channel",
		"channel", ctx.Channel().ID(), "err", err)
	ctx.Channel().Close()
}

// ============================================================================
//                              Pipeline 实现
// ============================================================================

// Pipeline 一条 Channel 的 handler 链
type Pipeline struct {
	ch pkgif.Channel

	head *handlerContext
	tail *handlerContext

	// 名称索引
	named map[string]*handlerContext

	// 匿名 handler 的自动命名计数
	anon int
}

var _ pkgif.Pipeline = (*Pipeline)(nil)

// New 创建绑定到 ch 的 Pipeline
//
// ops 提供链头的实际传输动作，由 Channel 实现。
func New(ch pkgif.Channel, ops HeadOps) *Pipeline {
	p := &Pipeline{
		ch:    ch,
		named: make(map[string]*handlerContext),
	}
	p.head = &handlerContext{name: "head", handler: &headHandler{ops: ops}, p: p}
	p.tail = &handlerContext{name: "tail", handler: &tailHandler{}, p: p}
	p.head.next = p.tail
	p.tail.prev = p.head
	return p
}

// Channel 返回所属 Channel
func (p *Pipeline) Channel() pkgif.Channel {
	return p.ch
}

// ============================================================================
//                              链变更
// ============================================================================

// runOnLoop 把链变更转移到所属 EventLoop 线程
//
// 未注册或已在 loop 内时直接执行；否则经任务队列转移并等待完成。
// loop 已关闭时返回其拒绝错误，不会无限等待。
func (p *Pipeline) runOnLoop(fn func() error) error {
	loop := p.ch.EventLoop()
	if loop == nil || loop.InLoop() {
		return fn()
	}
	done := make(chan error, 1)
	if err := loop.Execute(func() { done <- fn() }); err != nil {
		return err
	}
	return <-done
}

// AddFirst 在链头插入
func (p *Pipeline) AddFirst(name string, h pkgif.Handler) error {
	return p.runOnLoop(func() error {
		ctx, err := p.newContext(name, h)
		if err != nil {
			return err
		}
		p.link(p.head, ctx)
		return nil
	})
}

// AddLast 在链尾插入
func (p *Pipeline) AddLast(name string, h pkgif.Handler) error {
	return p.runOnLoop(func() error {
		ctx, err := p.newContext(name, h)
		if err != nil {
			return err
		}
		p.link(p.tail.prev, ctx)
		return nil
	})
}

// AddBefore 在指定节点之前插入
func (p *Pipeline) AddBefore(base, name string, h pkgif.Handler) error {
	return p.runOnLoop(func() error {
		at, ok := p.named[base]
		if !ok {
			return fmt.Errorf("%w: %q", ErrHandlerNotFound, base)
		}
		ctx, err := p.newContext(name, h)
		if err != nil {
			return err
		}
		p.link(at.prev, ctx)
		return nil
	})
}

// AddAfter 在指定节点之后插入
func (p *Pipeline) AddAfter(base, name string, h pkgif.Handler) error {
	return p.runOnLoop(func() error {
		at, ok := p.named[base]
		if !ok {
			return fmt.Errorf("%w: %q", ErrHandlerNotFound, base)
		}
		ctx, err := p.newContext(name, h)
		if err != nil {
			return err
		}
		p.link(at, ctx)
		return nil
	})
}

// Remove 按名移除
func (p *Pipeline) Remove(name string) error {
	return p.runOnLoop(func() error {
		ctx, ok := p.named[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrHandlerNotFound, name)
		}
		ctx.prev.next = ctx.next
		ctx.next.prev = ctx.prev
		ctx.prev = nil
		ctx.next = nil
		delete(p.named, name)
		return nil
	})
}

// Get 按名取 handler
func (p *Pipeline) Get(name string) pkgif.Handler {
	var h pkgif.Handler
	_ = p.runOnLoop(func() error {
		if ctx, ok := p.named[name]; ok {
			h = ctx.handler
		}
		return nil
	})
	return h
}

// Names 按链序返回全部节点名
func (p *Pipeline) Names() []string {
	var names []string
	_ = p.runOnLoop(func() error {
		for ctx := p.head.next; ctx != p.tail; ctx = ctx.next {
			names = append(names, ctx.name)
		}
		return nil
	})
	return names
}

// newContext 校验并创建节点（loop 内调用）
func (p *Pipeline) newContext(name string, h pkgif.Handler) (*handlerContext, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if name == "" {
		p.anon++
		name = fmt.Sprintf("%T#%d", h, p.anon)
	}
	if _, ok := p.named[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if err := p.checkDuplicate(h); err != nil {
		return nil, err
	}
	ctx := &handlerContext{name: name, handler: h, p: p}
	p.named[name] = ctx
	return ctx, nil
}

// checkDuplicate 同一实例至多安装一次，除非声明可共享
func (p *Pipeline) checkDuplicate(h pkgif.Handler) error {
	if s, ok := h.(pkgif.ShareableHandler); ok && s.Shareable() {
		return nil
	}
	if !reflect.TypeOf(h).Comparable() {
		return nil
	}
	for ctx := p.head.next; ctx != p.tail; ctx = ctx.next {
		if reflect.TypeOf(ctx.handler).Comparable() && ctx.handler == h {
			return fmt.Errorf("%w: %T", ErrDuplicateHandler, h)
		}
	}
	return nil
}

// link 把 ctx 插到 at 之后
func (p *Pipeline) link(at, ctx *handlerContext) {
	ctx.prev = at
	ctx.next = at.next
	at.next.prev = ctx
	at.next = ctx
}

// ============================================================================
//                              入站入口
// ============================================================================

// FireChannelRegistered 从 head 触发注册事件
func (p *Pipeline) FireChannelRegistered() {
	p.head.FireChannelRegistered()
}

// FireChannelActive 从 head 触发激活事件
func (p *Pipeline) FireChannelActive() {
	p.head.FireChannelActive()
}

// FireChannelRead 从 head 触发读事件
func (p *Pipeline) FireChannelRead(msg any) {
	p.head.FireChannelRead(msg)
}

// FireChannelInactive 从 head 触发断开事件
func (p *Pipeline) FireChannelInactive() {
	p.head.FireChannelInactive()
}

// FireUserEvent 从 head 触发用户事件
func (p *Pipeline) FireUserEvent(ev any) {
	p.head.FireUserEvent(ev)
}

// FireExceptionCaught 从 head 触发异常事件
func (p *Pipeline) FireExceptionCaught(err error) {
	p.head.FireExceptionCaught(err)
}

// ============================================================================
//                              出站入口
// ============================================================================

// Connect 从 tail 发起连接
func (p *Pipeline) Connect(addr net.Addr, promise pkgif.Promise) {
	p.tail.Connect(addr, promise)
}

// Bind 从 tail 发起绑定
func (p *Pipeline) Bind(addr net.Addr, promise pkgif.Promise) {
	p.tail.Bind(addr, promise)
}

// Write 从 tail 发起写
func (p *Pipeline) Write(msg any, promise pkgif.Promise) {
	p.tail.Write(msg, promise)
}

// Close 从 tail 发起关闭
func (p *Pipeline) Close(promise pkgif.Promise) {
	p.tail.Close(promise)
}
