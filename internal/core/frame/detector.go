package frame

import "encoding/binary"

// 记录类型码（5 字节头族）
const (
	// TypeChangeCipherSpec 密码变更
	TypeChangeCipherSpec = 20

	// TypeAlert 告警
	TypeAlert = 21

	// TypeHandshake 握手
	TypeHandshake = 22

	// TypeApplicationData 应用数据
	TypeApplicationData = 23

	// TypeHeartbeat 心跳扩展
	TypeHeartbeat = 24
)

const (
	// HeaderLength 5 字节头族的固定头部长度
	HeaderLength = 5

	// altProtocolVersion 保留的 2 字节备用版本值，与 major 3 等效确认头族
	altProtocolVersion = 0x0101
)

// 探测结果哨兵值
const (
	// NotEnoughData 已缓冲字节不足以判定
	NotEnoughData = -1

	// NotRecognized 首部字节不匹配任何已知头部签名
	NotRecognized = -2
)

// RecordLength 从 buf[off:] 探测一条记录的总长度
//
// 返回记录总长；字节不足返回 NotEnoughData，不识别返回 NotRecognized。
// 纯函数，不修改缓冲。
func RecordLength(buf []byte, off int) int {
	if off < 0 || len(buf)-off < HeaderLength {
		return NotEnoughData
	}
	return recordLength(buf[off:])
}

// RecordLengthSegments 跨不连续分段探测记录长度
//
// segs[off:] 依序构成字节流。首分段已含完整头部时直接读取；
// 头部字段跨分段时仅把固定头部拷入 5 字节暂存区再解析。
func RecordLengthSegments(segs [][]byte, off int) int {
	if off < 0 || off >= len(segs) {
		return NotEnoughData
	}
	if len(segs[off]) >= HeaderLength {
		return recordLength(segs[off])
	}

	var scratch [HeaderLength]byte
	n := 0
	for _, seg := range segs[off:] {
		n += copy(scratch[n:], seg)
		if n == HeaderLength {
			break
		}
	}
	if n < HeaderLength {
		return NotEnoughData
	}
	return recordLength(scratch[:])
}

// recordLength 对至少 5 字节的头部做实际判定
func recordLength(hdr []byte) int {
	packetLength := 0

	// 先按 5 字节头族检查类型码
	known := false
	switch hdr[0] {
	case TypeChangeCipherSpec, TypeAlert, TypeHandshake, TypeApplicationData, TypeHeartbeat:
		known = true
	}

	if known {
		// 校验版本：major 为 3，或等于保留的备用 2 字节值
		major := hdr[1]
		if major == 3 || binary.BigEndian.Uint16(hdr[1:3]) == altProtocolVersion {
			packetLength = int(binary.BigEndian.Uint16(hdr[3:5])) + HeaderLength
			if packetLength <= HeaderLength {
				// 负载长度为 0 说明不是本族头部
				known = false
			}
		} else {
			known = false
		}
	}

	if !known {
		// 旧式 2/3 字节头：首字节最高位选择头部长度
		headerLength := 3
		if hdr[0]&0x80 != 0 {
			headerLength = 2
		}
		major := hdr[headerLength+1]
		if major != 2 && major != 3 {
			return NotRecognized
		}
		if headerLength == 2 {
			packetLength = int(binary.BigEndian.Uint16(hdr[0:2])&0x7FFF) + 2
		} else {
			packetLength = int(binary.BigEndian.Uint16(hdr[0:2])&0x3FFF) + 3
		}
		if packetLength <= headerLength {
			return NotEnoughData
		}
	}

	return packetLength
}
