package pipeline

import "errors"

// 预定义错误
var (
	// ErrDuplicateName 节点名已存在
	ErrDuplicateName = errors.New("pipeline: duplicate handler name")

	// ErrDuplicateHandler 同一 handler 实例重复安装且不可共享
	ErrDuplicateHandler = errors.New("pipeline: handler not shareable, already added")

	// ErrHandlerNotFound 指定节点不存在
	ErrHandlerNotFound = errors.New("pipeline: handler not found")

	// ErrNilHandler handler 为 nil
	ErrNilHandler = errors.New("pipeline: nil handler")
)
