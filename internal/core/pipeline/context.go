package pipeline

import (
	"fmt"
	"net"

	"github.com/dep2p/go-reactor/internal/core/future"
	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// handlerContext 链中的一个节点
//
// 包装一个 handler 并持有前后邻居指针。
type handlerContext struct {
	name    string
	handler pkgif.Handler
	p       *Pipeline

	prev *handlerContext
	next *handlerContext
}

var _ pkgif.HandlerContext = (*handlerContext)(nil)

// Name 节点名
func (c *handlerContext) Name() string {
	return c.name
}

// Channel 所属 Channel
func (c *handlerContext) Channel() pkgif.Channel {
	return c.p.ch
}

// EventLoop 所属 EventLoop
func (c *handlerContext) EventLoop() pkgif.EventLoop {
	return c.p.ch.EventLoop()
}

// Handler 被包装的 handler
func (c *handlerContext) Handler() pkgif.Handler {
	return c.handler
}

// NewPromise 创建绑定到所属 EventLoop 的 Promise
func (c *handlerContext) NewPromise() pkgif.Promise {
	if loop := c.EventLoop(); loop != nil {
		return loop.NewPromise()
	}
	return future.New(nil)
}

// ============================================================================
//                              入站传播
// ============================================================================

// findNextInbound 返回后方最近的入站节点
func (c *handlerContext) findNextInbound() *handlerContext {
	for n := c.next; n != nil; n = n.next {
		if _, ok := n.handler.(pkgif.InboundHandler); ok {
			return n
		}
	}
	return nil
}

// FireChannelRegistered 向后传播注册事件
func (c *handlerContext) FireChannelRegistered() pkgif.HandlerContext {
	if n := c.findNextInbound(); n != nil {
		n.invokeChannelRegistered()
	}
	return c
}

// FireChannelActive 向后传播激活事件
func (c *handlerContext) FireChannelActive() pkgif.HandlerContext {
	if n := c.findNextInbound(); n != nil {
		n.invokeChannelActive()
	}
	return c
}

// FireChannelRead 向后传播读事件
func (c *handlerContext) FireChannelRead(msg any) pkgif.HandlerContext {
	if n := c.findNextInbound(); n != nil {
		n.invokeChannelRead(msg)
	}
	return c
}

// FireChannelInactive 向后传播断开事件
func (c *handlerContext) FireChannelInactive() pkgif.HandlerContext {
	if n := c.findNextInbound(); n != nil {
		n.invokeChannelInactive()
	}
	return c
}

// FireUserEvent 向后传播用户事件
func (c *handlerContext) FireUserEvent(ev any) pkgif.HandlerContext {
	if n := c.findNextInbound(); n != nil {
		n.invokeUserEvent(ev)
	}
	return c
}

// FireExceptionCaught 向后传播异常事件
func (c *handlerContext) FireExceptionCaught(err error) pkgif.HandlerContext {
	if n := c.findNextInbound(); n != nil {
		n.invokeExceptionCaught(err)
	}
	return c
}

// ============================================================================
//                              入站调用
// ============================================================================

// rescue 把 handler 的 panic 转换为从本节点开始的入站异常事件
func (c *handlerContext) rescue() {
	if r := recover(); r != nil {
		c.invokeExceptionCaught(toError(r))
	}
}

func (c *handlerContext) invokeChannelRegistered() {
	h, ok := c.handler.(pkgif.InboundHandler)
	if !ok {
		c.FireChannelRegistered()
		return
	}
	defer c.rescue()
	h.ChannelRegistered(c)
}

func (c *handlerContext) invokeChannelActive() {
	h, ok := c.handler.(pkgif.InboundHandler)
	if !ok {
		c.FireChannelActive()
		return
	}
	defer c.rescue()
	h.ChannelActive(c)
}

func (c *handlerContext) invokeChannelRead(msg any) {
	h, ok := c.handler.(pkgif.InboundHandler)
	if !ok {
		c.FireChannelRead(msg)
		return
	}
	defer c.rescue()
	h.ChannelRead(c, msg)
}

func (c *handlerContext) invokeChannelInactive() {
	h, ok := c.handler.(pkgif.InboundHandler)
	if !ok {
		c.FireChannelInactive()
		return
	}
	defer c.rescue()
	h.ChannelInactive(c)
}

func (c *handlerContext) invokeUserEvent(ev any) {
	h, ok := c.handler.(pkgif.InboundHandler)
	if !ok {
		c.FireUserEvent(ev)
		return
	}
	defer c.rescue()
	h.UserEventTriggered(c, ev)
}

// invokeExceptionCaught 把异常事件交给本节点的 handler
//
// 异常从出错节点的位置开始传播，不回到 head。异常钩子自身的
// panic 只记录，不再扩散。
func (c *handlerContext) invokeExceptionCaught(err error) {
	h, ok := c.handler.(pkgif.InboundHandler)
	if !ok {
		c.FireExceptionCaught(err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("exception hook panicked",
				"handler", c.name, "cause", err, "panic", r)
		}
	}()
	h.ExceptionCaught(c, err)
}

// ============================================================================
//                              出站传播
// ============================================================================

// findPrevOutbound 返回前方最近的出站节点
func (c *handlerContext) findPrevOutbound() *handlerContext {
	for n := c.prev; n != nil; n = n.prev {
		if _, ok := n.handler.(pkgif.OutboundHandler); ok {
			return n
		}
	}
	return nil
}

// Connect 向前传播连接请求
func (c *handlerContext) Connect(addr net.Addr, p pkgif.Promise) {
	if n := c.findPrevOutbound(); n != nil {
		n.invokeConnect(addr, p)
	}
}

// Bind 向前传播绑定请求
func (c *handlerContext) Bind(addr net.Addr, p pkgif.Promise) {
	if n := c.findPrevOutbound(); n != nil {
		n.invokeBind(addr, p)
	}
}

// Write 向前传播写请求
func (c *handlerContext) Write(msg any, p pkgif.Promise) {
	if n := c.findPrevOutbound(); n != nil {
		n.invokeWrite(msg, p)
	}
}

// Close 向前传播关闭请求
func (c *handlerContext) Close(p pkgif.Promise) {
	if n := c.findPrevOutbound(); n != nil {
		n.invokeClose(p)
	}
}

// ============================================================================
//                              出站调用
// ============================================================================

// 出站处理中的 panic 使对应 Promise 失败，异步失败一律经 Future 暴露

func (c *handlerContext) invokeConnect(addr net.Addr, p pkgif.Promise) {
	h, ok := c.handler.(pkgif.OutboundHandler)
	if !ok {
		c.Connect(addr, p)
		return
	}
	defer rescueOutbound(p)
	h.Connect(c, addr, p)
}

func (c *handlerContext) invokeBind(addr net.Addr, p pkgif.Promise) {
	h, ok := c.handler.(pkgif.OutboundHandler)
	if !ok {
		c.Bind(addr, p)
		return
	}
	defer rescueOutbound(p)
	h.Bind(c, addr, p)
}

func (c *handlerContext) invokeWrite(msg any, p pkgif.Promise) {
	h, ok := c.handler.(pkgif.OutboundHandler)
	if !ok {
		c.Write(msg, p)
		return
	}
	defer rescueOutbound(p)
	h.Write(c, msg, p)
}

func (c *handlerContext) invokeClose(p pkgif.Promise) {
	h, ok := c.handler.(pkgif.OutboundHandler)
	if !ok {
		c.Close(p)
		return
	}
	defer rescueOutbound(p)
	h.Close(c, p)
}

func rescueOutbound(p pkgif.Promise) {
	if r := recover(); r != nil {
		p.TryFailure(toError(r))
	}
}

// toError 把 panic 值规整为 error
func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("pipeline: handler panic: %v", r)
}
