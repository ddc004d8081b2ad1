package pipeline

import (
	"net"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

// ============================================================================
//                              Handler 适配器
// ============================================================================

// InboundAdapter 入站 handler 适配器
//
// 全部方法默认向后转发；嵌入后只需覆盖关心的方法。
type InboundAdapter struct{}

var _ pkgif.InboundHandler = (*InboundAdapter)(nil)

// ChannelRegistered 向后转发注册事件
func (*InboundAdapter) ChannelRegistered(ctx pkgif.HandlerContext) {
	ctx.FireChannelRegistered()
}

// ChannelActive 向后转发激活事件
func (*InboundAdapter) ChannelActive(ctx pkgif.HandlerContext) {
	ctx.FireChannelActive()
}

// ChannelRead 向后转发读事件
func (*InboundAdapter) ChannelRead(ctx pkgif.HandlerContext, msg any) {
	ctx.FireChannelRead(msg)
}

// ChannelInactive 向后转发断开事件
func (*InboundAdapter) ChannelInactive(ctx pkgif.HandlerContext) {
	ctx.FireChannelInactive()
}

// UserEventTriggered 向后转发用户事件
func (*InboundAdapter) UserEventTriggered(ctx pkgif.HandlerContext, ev any) {
	ctx.FireUserEvent(ev)
}

// ExceptionCaught 向后转发异常事件
func (*InboundAdapter) ExceptionCaught(ctx pkgif.HandlerContext, err error) {
	ctx.FireExceptionCaught(err)
}

// OutboundAdapter 出站 handler 适配器
//
// 全部方法默认向前转发；嵌入后只需覆盖关心的方法。
type OutboundAdapter struct{}

var _ pkgif.OutboundHandler = (*OutboundAdapter)(nil)

// Connect 向前转发连接请求
func (*OutboundAdapter) Connect(ctx pkgif.HandlerContext, addr net.Addr, p pkgif.Promise) {
	ctx.Connect(addr, p)
}

// Bind 向前转发绑定请求
func (*OutboundAdapter) Bind(ctx pkgif.HandlerContext, addr net.Addr, p pkgif.Promise) {
	ctx.Bind(addr, p)
}

// Write 向前转发写请求
func (*OutboundAdapter) Write(ctx pkgif.HandlerContext, msg any, p pkgif.Promise) {
	ctx.Write(msg, p)
}

// Close 向前转发关闭请求
func (*OutboundAdapter) Close(ctx pkgif.HandlerContext, p pkgif.Promise) {
	ctx.Close(p)
}
