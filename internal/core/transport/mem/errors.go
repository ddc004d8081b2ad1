package mem

import "errors"

var (
	// ErrClosed 传输已关闭
	ErrClosed = errors.New("mem: transport closed")

	// ErrAddrInUse 监听地址已被占用
	ErrAddrInUse = errors.New("mem: address in use")

	// ErrConnRefused 目标地址没有监听器
	ErrConnRefused = errors.New("mem: connection refused")

	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("mem: listener closed")

	// ErrNilAddr 地址为空
	ErrNilAddr = errors.New("mem: nil address")
)
