// Package lib 包含基础设施工具库
//
// 本目录包含与架构组件无关的通用工具库：
//
//   - log: 日志封装
//
// # 与 pkg/ 其他目录的关系
//
// pkg/ 目录包含两类内容：
//
//   - interfaces/: 组件公共接口（架构核心）
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-reactor/pkg/lib/log"
//	)
package lib
