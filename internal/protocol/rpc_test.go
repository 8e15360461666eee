// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestConn_WriteMessage(t *testing.T) {
	t.Run("writes Content-Length header", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewConn(nil, &buf)

		if err := c.writeMessage(Request{JSONRPC: JSONRPCVersion, ID: 1, Method: "test"}); err != nil {
			t.Fatalf("writeMessage: %v", err)
		}

		if !strings.Contains(buf.String(), "Content-Length:") {
			t.Errorf("missing Content-Length header in: %s", buf.String())
		}
	})

	t.Run("writes valid JSON body", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewConn(nil, &buf)

		if err := c.writeMessage(Request{JSONRPC: JSONRPCVersion, ID: 1, Method: "test"}); err != nil {
			t.Fatalf("writeMessage: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, `"jsonrpc":"2.0"`) {
			t.Errorf("missing jsonrpc field in: %s", output)
		}
		if !strings.Contains(output, `"method":"test"`) {
			t.Errorf("missing method field in: %s", output)
		}
	})
}

func TestConn_ReadMessage(t *testing.T) {
	t.Run("reads valid message", func(t *testing.T) {
		msg := `{"jsonrpc":"2.0","id":1,"result":null}`
		input := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(msg), msg)
		c := NewConn(strings.NewReader(input), nil)

		body, err := c.readMessage()
		if err != nil {
			t.Fatalf("readMessage: %v", err)
		}
		if string(body) != msg {
			t.Errorf("got %s, want %s", body, msg)
		}
	})

	t.Run("handles multiple headers", func(t *testing.T) {
		msg := `{"jsonrpc":"2.0","id":1,"result":null}`
		input := fmt.Sprintf("Content-Length: %d\r\nContent-Type: application/json\r\n\r\n%s", len(msg), msg)
		c := NewConn(strings.NewReader(input), nil)

		body, err := c.readMessage()
		if err != nil {
			t.Fatalf("readMessage: %v", err)
		}
		if string(body) != msg {
			t.Errorf("got %s, want %s", body, msg)
		}
	})

	t.Run("rejects missing Content-Length", func(t *testing.T) {
		input := "\r\n{}"
		c := NewConn(strings.NewReader(input), nil)

		if _, err := c.readMessage(); err == nil {
			t.Error("readMessage = nil error, want error for missing Content-Length")
		}
	})
}

// pipeConn wires two Conns together over in-memory pipes so Call/Reply
// round trips can be tested without a real process.
func pipeConn() (client *Conn, server *Conn) {
	clientToServer := newSyncBuffer()
	serverToClient := newSyncBuffer()
	client = NewConn(serverToClient, clientToServer)
	server = NewConn(clientToServer, serverToClient)
	return client, server
}

// syncBuffer is a bytes.Buffer safe for one writer / one reader
// running concurrently, sufficient for these in-process tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	cond *sync.Cond
}

func newSyncBuffer() *syncBuffer {
	b := &syncBuffer{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.buf.Write(p)
	b.cond.Broadcast()
	return n, err
}

func (b *syncBuffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.buf.Len() == 0 {
		b.cond.Wait()
	}
	return b.buf.Read(p)
}

type echoHandler struct{}

func (echoHandler) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	if method == "fail" {
		return nil, NewRPCError(CodeInvalidParams, "bad params")
	}
	return map[string]string{"echo": method}, nil
}

func (echoHandler) Notify(ctx context.Context, method string, params json.RawMessage) {}

func TestConn_CallRoundTrip(t *testing.T) {
	client, server := pipeConn()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go server.ReadLoop(ctx, echoHandler{})
	go client.ReadLoop(ctx, nil)

	result, err := client.Call(context.Background(), "textDocument/hover", map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(result, &decoded); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if decoded["echo"] != "textDocument/hover" {
		t.Errorf("echo = %s, want textDocument/hover", decoded["echo"])
	}
}

func TestConn_CallReturnsRPCError(t *testing.T) {
	client, server := pipeConn()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go server.ReadLoop(ctx, echoHandler{})
	go client.ReadLoop(ctx, nil)

	_, err := client.Call(context.Background(), "fail", nil)
	if err == nil {
		t.Fatal("Call = nil error, want RPCError")
	}
	var rpcErr *RPCError
	if !isRPCError(err, &rpcErr) {
		t.Fatalf("error is not *RPCError: %v", err)
	}
	if rpcErr.Code != CodeInvalidParams {
		t.Errorf("Code = %d, want %d", rpcErr.Code, CodeInvalidParams)
	}
}

func isRPCError(err error, target **RPCError) bool {
	if e, ok := err.(*RPCError); ok {
		*target = e
		return true
	}
	return false
}

func TestConn_CallTimesOutOnCancelledContext(t *testing.T) {
	var buf bytes.Buffer
	c := NewConn(nil, &buf)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Call(ctx, "never/answered", nil)
	if err == nil {
		t.Fatal("Call = nil error, want timeout error")
	}
}

func TestConn_NotifyObservedByHandler(t *testing.T) {
	client, server := pipeConn()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)
	handler := &recordingHandler{notified: received}
	go server.ReadLoop(ctx, handler)

	if err := client.Notify("textDocument/didOpen", nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	select {
	case method := <-received:
		if method != "textDocument/didOpen" {
			t.Errorf("method = %s, want textDocument/didOpen", method)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

type recordingHandler struct {
	notified chan string
}

func (h *recordingHandler) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	return nil, nil
}

func (h *recordingHandler) Notify(ctx context.Context, method string, params json.RawMessage) {
	h.notified <- method
}

func TestConn_CloseCancelsPending(t *testing.T) {
	var buf bytes.Buffer
	c := NewConn(nil, &buf)

	respCh := make(chan Response, 1)
	c.pendingMu.Lock()
	c.pending[1] = respCh
	c.pendingMu.Unlock()

	c.Close()

	select {
	case resp := <-respCh:
		if resp.Error == nil {
			t.Error("expected an error response on close")
		}
	default:
		t.Error("expected pending call to be cancelled on Close")
	}

	if err := c.Notify("anything", nil); err == nil {
		t.Error("Notify after Close should fail")
	}
}

func TestRPCError_Error(t *testing.T) {
	err := NewRPCError(CodeMethodNotFound, "unknown method")
	if !strings.Contains(err.Error(), "unknown method") {
		t.Errorf("Error() = %s, want it to mention the message", err.Error())
	}

	withData := &RPCError{Code: CodeInvalidParams, Message: "bad", Data: "extra"}
	if !strings.Contains(withData.Error(), "extra") {
		t.Errorf("Error() = %s, want it to mention Data", withData.Error())
	}
}

func TestIsMethodNotFound(t *testing.T) {
	if !IsMethodNotFound(NewRPCError(CodeMethodNotFound, "nope")) {
		t.Error("IsMethodNotFound = false, want true")
	}
	if IsMethodNotFound(NewRPCError(CodeInternalError, "nope")) {
		t.Error("IsMethodNotFound = true, want false")
	}
}
