package eventloop

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// goid 返回当前 goroutine 的 id
//
// Go 运行时不暴露 goroutine id，这里从 runtime.Stack 的首行
// "goroutine N [...]:" 解析。只在 Execute / InLoop 的线程判定中
// 使用，loop 线程自身的 id 在启动时记录一次。
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	i := bytes.IndexByte(s, ' ')
	if i < 0 {
		return -1
	}
	id, err := strconv.ParseInt(string(s[:i]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
