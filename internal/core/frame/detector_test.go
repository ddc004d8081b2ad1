package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordLengthHandshake(t *testing.T) {
	// 握手记录，负载 5 字节 → 总长 10
	hdr := []byte{TypeHandshake, 3, 3, 0, 5}
	assert.Equal(t, 10, RecordLength(hdr, 0))
}

func TestRecordLengthAllTypes(t *testing.T) {
	for _, typ := range []byte{
		TypeChangeCipherSpec, TypeAlert, TypeHandshake, TypeApplicationData, TypeHeartbeat,
	} {
		hdr := []byte{typ, 3, 1, 0x01, 0x00}
		assert.Equal(t, 0x100+HeaderLength, RecordLength(hdr, 0), "type %d", typ)
	}
}

func TestRecordLengthAltVersion(t *testing.T) {
	// 备用 2 字节版本值 0x0101 与 major 3 等效
	hdr := []byte{TypeHandshake, 0x01, 0x01, 0, 32}
	assert.Equal(t, 32+HeaderLength, RecordLength(hdr, 0))
}

func TestRecordLengthNotEnoughData(t *testing.T) {
	assert.Equal(t, NotEnoughData, RecordLength([]byte{TypeHandshake, 3, 3}, 0))
	assert.Equal(t, NotEnoughData, RecordLength(nil, 0))
	assert.Equal(t, NotEnoughData, RecordLength([]byte{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, NotEnoughData, RecordLength([]byte{1, 2, 3, 4, 5}, -1))
}

func TestRecordLengthNotRecognized(t *testing.T) {
	// 全零既不是 5 字节头族也不满足旧式 major 检查
	assert.Equal(t, NotRecognized, RecordLength([]byte{0, 0, 0, 0, 0}, 0))
	// 类型码匹配但版本不合法，回退旧式检查后仍不合法
	assert.Equal(t, NotRecognized, RecordLength([]byte{TypeHandshake, 9, 9, 0, 5}, 0))
}

func TestRecordLengthZeroPayloadFallsThrough(t *testing.T) {
	// 负载长度 0 不属于 5 字节头族，回退旧式检查
	// hdr[0]=22 最高位为 0 → 旧式 3 字节头，major=hdr[4]=0 → 不识别
	assert.Equal(t, NotRecognized, RecordLength([]byte{TypeHandshake, 3, 3, 0, 0}, 0))
}

func TestRecordLengthLegacyTwoByte(t *testing.T) {
	// 最高位置位 → 2 字节头；长度掩码 0x7FFF
	hdr := []byte{0x80, 0x20, 0x01, 0x03, 0x00}
	// packetLength = 0x0020 + 2 = 34，major=hdr[3]=3 合法
	assert.Equal(t, 0x20+2, RecordLength(hdr, 0))
}

func TestRecordLengthLegacyThreeByte(t *testing.T) {
	// 最高位为 0 → 3 字节头；长度掩码 0x3FFF
	hdr := []byte{0x10, 0x40, 0x00, 0x00, 0x02}
	// packetLength = 0x1040&0x3FFF + 3 = 0x1040+3，major=hdr[4]=2 合法
	assert.Equal(t, 0x1040+3, RecordLength(hdr, 0))
}

func TestRecordLengthOffset(t *testing.T) {
	buf := []byte{0xFF, 0xFF, TypeApplicationData, 3, 1, 0, 8}
	assert.Equal(t, 8+HeaderLength, RecordLength(buf, 2))
}

func TestRecordLengthDoesNotMutate(t *testing.T) {
	buf := []byte{TypeHandshake, 3, 3, 0, 5, 9, 9, 9}
	orig := append([]byte(nil), buf...)
	RecordLength(buf, 0)
	assert.Equal(t, orig, buf)
}

func TestRecordLengthSegments(t *testing.T) {
	t.Run("single segment with full header", func(t *testing.T) {
		segs := [][]byte{{TypeHandshake, 3, 3, 0, 5, 0xAA}}
		assert.Equal(t, 10, RecordLengthSegments(segs, 0))
	})

	t.Run("header split across segments", func(t *testing.T) {
		segs := [][]byte{{TypeHandshake, 3}, {3, 0}, {5, 0xAA, 0xBB}}
		assert.Equal(t, 10, RecordLengthSegments(segs, 0))
	})

	t.Run("offset skips leading segments", func(t *testing.T) {
		segs := [][]byte{{0xFF}, {TypeAlert, 3, 1, 0, 2}}
		assert.Equal(t, 2+HeaderLength, RecordLengthSegments(segs, 1))
	})

	t.Run("not enough data", func(t *testing.T) {
		segs := [][]byte{{TypeHandshake}, {3}}
		assert.Equal(t, NotEnoughData, RecordLengthSegments(segs, 0))
		assert.Equal(t, NotEnoughData, RecordLengthSegments(nil, 0))
		assert.Equal(t, NotEnoughData, RecordLengthSegments(segs, 5))
	})

	t.Run("segments unchanged", func(t *testing.T) {
		segs := [][]byte{{TypeHandshake, 3}, {3, 0, 5}}
		RecordLengthSegments(segs, 0)
		assert.Equal(t, []byte{TypeHandshake, 3}, segs[0])
		assert.Equal(t, []byte{3, 0, 5}, segs[1])
	})
}
