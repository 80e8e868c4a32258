package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/tuannm99/slotdb/internal/reqqueue"
	"github.com/tuannm99/slotdb/internal/resultsink"
)

// ServerConfig addresses the TCP listener; the queue and its single
// worker are owned by the caller and shared across every connection.
type ServerConfig struct {
	Addr  string
	Queue *reqqueue.Queue
}

// Run listens on sc.Addr until ctx is cancelled, spawning one goroutine
// per accepted connection. Every connection goroutine is a producer: it
// only ever pushes requests onto sc.Queue and waits for their result,
// never touching the catalog directly.
func Run(ctx context.Context, sc ServerConfig) error {
	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("wire: listen: %w", err)
	}
	defer func() { _ = ln.Close() }()

	slog.Info("wire: listening", "addr", sc.Addr)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			slog.Warn("wire: accept", "error", err)
			continue
		}
		go handleConn(ctx, conn, sc.Queue)
	}
}

func handleConn(ctx context.Context, conn net.Conn, queue *reqqueue.Queue) {
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Time{})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var req ExecuteRequest
		if err := ReadFrame(conn, &req); err != nil {
			return
		}

		sink := &resultsink.Collector{}
		qreq := reqqueue.NewRequest(req.SQL, sink)
		if err := queue.Push(qreq); err != nil {
			_ = WriteFrame(conn, ExecuteResponse{ID: req.ID, Error: err.Error()})
			return
		}
		qreq.Wait()

		if err := WriteFrame(conn, FromCollector(req.ID, sink)); err != nil {
			return
		}
	}
}
