// Package frame 实现协议记录的边界探测
//
// 对部分缓冲的字节流做无状态解析，从固定格式头部推导整条记录
// 的长度。识别两族头部：
//
//   - 5 字节头：1 字节类型 ∈ {20,21,22,23,24}，2 字节版本
//     （major 为 3，或保留的 0x0101 备用值），2 字节大端负载长度，
//     记录总长 = 负载长度 + 5
//   - 旧式 2/3 字节头：由首字节最高位选择，长度字段按对应掩码解释
//
// 头部多字节字段一律按网络字节序（大端）读取，与宿主缓冲的
// 字节序无关。头部字节跨越多个不连续分段时，只把最多 5 字节的
// 固定头部拷入暂存区，不要求整条缓冲连续。
package frame
