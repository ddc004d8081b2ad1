package tcp

import "errors"

var (
	// ErrClosed 传输已关闭
	ErrClosed = errors.New("tcp: transport closed")

	// ErrUnresolvedAddr 地址未解析，无法拨号
	ErrUnresolvedAddr = errors.New("tcp: unresolved address")

	// ErrNilAddr 地址为空
	ErrNilAddr = errors.New("tcp: nil address")
)
