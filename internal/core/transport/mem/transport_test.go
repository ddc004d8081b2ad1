package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-reactor/pkg/interfaces"
)

func TestDialAndAccept(t *testing.T) {
	reg := NewRegistry()
	tr := New(WithRegistry(reg))

	lis, err := tr.Listen(pipeAddr("srv"))
	require.NoError(t, err)
	defer lis.Close()

	type acceptResult struct {
		conn pkgif.TransportConn
		err  error
	}
	accepted := make(chan acceptResult, 1)
	go func() {
		c, err := lis.Accept()
		accepted <- acceptResult{c, err}
	}()

	dialConn, err := tr.Dial(context.Background(), pipeAddr("srv"))
	require.NoError(t, err)
	defer dialConn.Close()

	var srvConn pkgif.TransportConn
	select {
	case r := <-accepted:
		require.NoError(t, r.err)
		srvConn = r.conn
	case <-time.After(time.Second):
		t.Fatal("accept timed out")
	}
	defer srvConn.Close()

	// 双向可达
	go dialConn.Write([]byte("ping"))
	buf := make([]byte, 4)
	_, err = srvConn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	go srvConn.Write([]byte("pong"))
	_, err = dialConn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf))
}

func TestDialRefused(t *testing.T) {
	tr := New(WithRegistry(NewRegistry()))
	_, err := tr.Dial(context.Background(), pipeAddr("nobody"))
	assert.ErrorIs(t, err, ErrConnRefused)
}

func TestDialAfterListenerClosed(t *testing.T) {
	reg := NewRegistry()
	tr := New(WithRegistry(reg))

	lis, err := tr.Listen(pipeAddr("srv"))
	require.NoError(t, err)
	require.NoError(t, lis.Close())

	_, err = tr.Dial(context.Background(), pipeAddr("srv"))
	assert.ErrorIs(t, err, ErrConnRefused)
}

func TestAddrInUse(t *testing.T) {
	reg := NewRegistry()
	tr := New(WithRegistry(reg))

	lis, err := tr.Listen(pipeAddr("srv"))
	require.NoError(t, err)
	defer lis.Close()

	_, err = tr.Listen(pipeAddr("srv"))
	assert.ErrorIs(t, err, ErrAddrInUse)
}

// TestListenerAddrReusableAfterClose 关闭后地址可重新监听
func TestListenerAddrReusableAfterClose(t *testing.T) {
	reg := NewRegistry()
	tr := New(WithRegistry(reg))

	lis, err := tr.Listen(pipeAddr("srv"))
	require.NoError(t, err)
	require.NoError(t, lis.Close())

	lis2, err := tr.Listen(pipeAddr("srv"))
	require.NoError(t, err)
	lis2.Close()
}

func TestAcceptAfterClose(t *testing.T) {
	reg := NewRegistry()
	tr := New(WithRegistry(reg))

	lis, err := tr.Listen(pipeAddr("srv"))
	require.NoError(t, err)
	require.NoError(t, lis.Close())

	_, err = lis.Accept()
	assert.ErrorIs(t, err, ErrListenerClosed)
}

func TestDialContextCancelled(t *testing.T) {
	reg := NewRegistry()
	tr := New(WithRegistry(reg))

	lis, err := tr.Listen(pipeAddr("srv"))
	require.NoError(t, err)
	defer lis.Close()

	// 填满 pending 队列后拨号会阻塞在投递上
	for i := 0; i < 16; i++ {
		_, err := tr.Dial(context.Background(), pipeAddr("srv"))
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = tr.Dial(ctx, pipeAddr("srv"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClosedTransport(t *testing.T) {
	tr := New(WithRegistry(NewRegistry()))
	require.NoError(t, tr.Close())

	_, err := tr.Dial(context.Background(), pipeAddr("x"))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = tr.Listen(pipeAddr("x"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestConnAddrs(t *testing.T) {
	reg := NewRegistry()
	tr := New(WithRegistry(reg))

	lis, err := tr.Listen(pipeAddr("srv"))
	require.NoError(t, err)
	defer lis.Close()

	conn, err := tr.Dial(context.Background(), pipeAddr("srv"))
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "srv", conn.RemoteAddr().String())
	assert.Equal(t, "mem", conn.RemoteAddr().Network())
	assert.Equal(t, "srv", lis.Addr().String())
}
