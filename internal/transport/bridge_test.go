package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// pushServer starts a WebSocket server that runs handler for every
// connection and signals on closed once the client side went away.
func pushServer(t *testing.T, handler func(*websocket.Conn)) (*httptest.Server, <-chan struct{}) {
	t.Helper()
	closed := make(chan struct{}, 16)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()

		handler(conn)

		// Drain until the client closes the connection.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closed <- struct{}{}
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return server, closed
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitClosed(t *testing.T, closed <-chan struct{}) {
	t.Helper()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not closed by the bridge")
	}
}

func TestBridge_FetchReturnsFirstMessage(t *testing.T) {
	payload := `{"asuncion":[{"moneda":"Dolar","img":"dolar.png","compra":"7.100","venta":"7.250"}]}`

	server, closed := pushServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(payload))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"second":[]}`))
	})

	b := NewBridge(Config{Name: "TEST", URL: wsURL(server), Retries: 4, RetryWait: time.Second})

	data, err := b.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != payload {
		t.Errorf("payload = %q, want %q", data, payload)
	}

	waitClosed(t, closed)
}

func TestBridge_TimeoutAfterAllCycles(t *testing.T) {
	server, closed := pushServer(t, func(conn *websocket.Conn) {})

	var cycles []int
	var mu sync.Mutex
	wait := 20 * time.Millisecond

	b := NewBridge(
		Config{Name: "TEST", URL: wsURL(server), Retries: 4, RetryWait: wait},
		WithWaitObserver(func(name string, cycle int) {
			mu.Lock()
			cycles = append(cycles, cycle)
			mu.Unlock()
		}),
	)

	start := time.Now()
	_, err := b.Fetch(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
	if te.Cycles != 4 {
		t.Errorf("Cycles = %d, want 4", te.Cycles)
	}
	if elapsed < 4*wait {
		t.Errorf("returned after %v, want at least %v", elapsed, 4*wait)
	}

	mu.Lock()
	if len(cycles) != 4 || cycles[0] != 1 || cycles[3] != 4 {
		t.Errorf("observed cycles = %v, want [1 2 3 4]", cycles)
	}
	mu.Unlock()

	waitClosed(t, closed)
}

func TestBridge_ConnectFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(server)
	server.Close()

	b := NewBridge(Config{URL: url, Retries: 1, RetryWait: 10 * time.Millisecond})

	_, err := b.Fetch(context.Background())
	if !errors.Is(err, ErrConnect) {
		t.Fatalf("expected ErrConnect, got %v", err)
	}
}

func TestBridge_ServerClosesWithoutPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer server.Close()

	b := NewBridge(Config{URL: wsURL(server), Retries: 4, RetryWait: time.Second})

	start := time.Now()
	_, err := b.Fetch(context.Background())
	if !errors.Is(err, ErrConnect) {
		t.Fatalf("expected ErrConnect, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("bridge should fail fast when the peer drops the connection")
	}
}

func TestBridge_CancelClosesConnection(t *testing.T) {
	server, closed := pushServer(t, func(conn *websocket.Conn) {})

	b := NewBridge(Config{URL: wsURL(server), Retries: 4, RetryWait: 10 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := b.Fetch(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	waitClosed(t, closed)
}

func TestBridge_ConcurrentFetches(t *testing.T) {
	var served atomic.Int32
	server, _ := pushServer(t, func(conn *websocket.Conn) {
		n := served.Add(1)
		conn.WriteMessage(websocket.TextMessage, []byte{byte('0' + n%10)})
	})

	b := NewBridge(Config{URL: wsURL(server), Retries: 4, RetryWait: time.Second})

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := b.Fetch(context.Background())
			if err == nil && len(data) != 1 {
				err = errors.New("unexpected payload length")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Fetch failed: %v", err)
		}
	}
	if served.Load() != 10 {
		t.Errorf("served %d connections, want 10 (one per call)", served.Load())
	}
}

// fakeConn counts Close calls and never delivers unless told to.
type fakeConn struct {
	msgs   chan []byte
	done   chan struct{}
	once   sync.Once
	closes atomic.Int32
}

func newFakeConn() *fakeConn {
	return &fakeConn{msgs: make(chan []byte, 1), done: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case m := <-c.msgs:
		return m, nil
	case <-c.done:
		return nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	c.once.Do(func() { close(c.done) })
	return nil
}

type fakeDialer struct {
	conn *fakeConn
	err  error
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

func TestBridge_ClosesOnEveryPath(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		conn := newFakeConn()
		conn.msgs <- []byte("payload")
		b := NewBridge(Config{URL: "ws://fake"}, WithDialer(&fakeDialer{conn: conn}))

		if _, err := b.Fetch(context.Background()); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if conn.closes.Load() != 1 {
			t.Errorf("Close called %d times, want 1", conn.closes.Load())
		}
	})

	t.Run("timeout", func(t *testing.T) {
		conn := newFakeConn()
		b := NewBridge(Config{URL: "ws://fake", Retries: 2, RetryWait: 5 * time.Millisecond}, WithDialer(&fakeDialer{conn: conn}))

		if _, err := b.Fetch(context.Background()); !errors.Is(err, ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}
		if conn.closes.Load() != 1 {
			t.Errorf("Close called %d times, want 1", conn.closes.Load())
		}
	})

	t.Run("dial error", func(t *testing.T) {
		b := NewBridge(Config{URL: "ws://fake"}, WithDialer(&fakeDialer{err: errors.New("refused")}))

		if _, err := b.Fetch(context.Background()); !errors.Is(err, ErrConnect) {
			t.Fatalf("expected ErrConnect, got %v", err)
		}
	})
}

func TestNewBridge_Defaults(t *testing.T) {
	b := NewBridge(Config{URL: "ws://example"})
	cfg := b.Config()

	if cfg.Retries != 4 {
		t.Errorf("Retries = %d, want 4", cfg.Retries)
	}
	if cfg.RetryWait != 10*time.Second {
		t.Errorf("RetryWait = %v, want 10s", cfg.RetryWait)
	}
	if cfg.ReadLimit != DefaultConfig().ReadLimit {
		t.Errorf("ReadLimit = %d, want %d", cfg.ReadLimit, DefaultConfig().ReadLimit)
	}
	dialer, ok := b.dialer.(WebSocketDialer)
	if !ok {
		t.Fatalf("dialer = %T, want WebSocketDialer", b.dialer)
	}
	if dialer.ReadLimit != DefaultConfig().ReadLimit {
		t.Errorf("dialer ReadLimit = %d, want %d", dialer.ReadLimit, DefaultConfig().ReadLimit)
	}
}
