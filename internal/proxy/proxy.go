// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/angularjs-lsp/angularjs-lsp/internal/protocol"
	"github.com/angularjs-lsp/angularjs-lsp/pkg/logging"
)

// State is the lifecycle state of the fallback child process.
type State int

const (
	// StateNotStarted is the state before the first Forward call.
	StateNotStarted State = iota

	// StateReady means the child is running and has completed its
	// initialize handshake.
	StateReady

	// StateDisabled means the child crashed after its one allotted
	// respawn and will not be restarted this session.
	StateDisabled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateReady:
		return "ready"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Config configures the fallback JavaScript language server child
// process.
type Config struct {
	// Command is the executable to run (e.g. "typescript-language-server").
	Command string

	// Args are passed to Command (e.g. ["--stdio"]).
	Args []string

	// RootURI is the workspace root URI sent in the initialize handshake.
	RootURI string

	// Logger receives lifecycle and error events. Defaults to
	// logging.Default() if nil.
	Logger *logging.Logger
}

// Proxy maintains a child process running a generic JavaScript
// language server, forwarding requests the Resolver declines to
// answer itself. Spawned lazily on first Forward; one automatic
// respawn is attempted after a crash, after which the Proxy disables
// itself for the rest of the session.
//
// Thread Safety: safe for concurrent use.
type Proxy struct {
	cfg    Config
	logger *logging.Logger

	mu          sync.Mutex
	state       State
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	conn        *protocol.Conn
	cancel      context.CancelFunc
	readDone    chan struct{}
	respawned   bool
	capabilities protocol.ServerCapabilities
}

// New creates a Proxy for the given child language server
// configuration. The child is not started until the first Forward
// call.
func New(cfg Config) *Proxy {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Proxy{cfg: cfg, logger: logger, state: StateNotStarted}
}

// State returns the Proxy's current lifecycle state.
func (p *Proxy) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Forward sends method/params to the child language server verbatim
// (ids are remapped internally by protocol.Conn) and relays its
// response. On a dead or disabled child, returns ErrDisabled or
// ErrNotInstalled rather than attempting to serve the request; the
// Resolver is expected to fall back to its own partial answer.
func (p *Proxy) Forward(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	conn, err := p.ensureStarted(ctx)
	if err != nil {
		return nil, err
	}

	result, err := conn.Call(ctx, method, params)
	if err != nil {
		p.handleCallFailure(ctx, err)
		return nil, err
	}
	return result, nil
}

// handleCallFailure marks the child dead and schedules one respawn
// attempt on the next Forward call, unless a respawn was already
// consumed this session.
func (p *Proxy) handleCallFailure(ctx context.Context, callErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateReady {
		return
	}

	p.logger.Warn("fallback proxy call failed", "method", "forward", "error", callErr.Error())
	p.teardownLocked()

	if p.respawned {
		p.state = StateDisabled
		p.logger.Warn("fallback proxy disabled after repeated crashes")
		return
	}
	p.respawned = true
	p.state = StateNotStarted
}

func (p *Proxy) ensureStarted(ctx context.Context) (*protocol.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateReady:
		return p.conn, nil
	case StateDisabled:
		return nil, ErrDisabled
	}

	if err := p.startLocked(ctx); err != nil {
		if p.respawned {
			p.state = StateDisabled
			return nil, ErrDisabled
		}
		return nil, err
	}
	return p.conn, nil
}

func (p *Proxy) startLocked(ctx context.Context) error {
	path, err := exec.LookPath(p.cfg.Command)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotInstalled, p.cfg.Command)
	}

	childCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(childCtx, path, p.cfg.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("proxy: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("proxy: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("proxy: start process: %w", err)
	}

	conn := protocol.NewConn(stdout, stdin)
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.ReadLoop(childCtx, nil)
	}()

	if err := p.initialize(ctx, conn); err != nil {
		cancel()
		_ = stdin.Close()
		_ = cmd.Wait()
		return fmt.Errorf("%w: %v", ErrInitializeFailed, err)
	}

	p.cmd = cmd
	p.stdin = stdin
	p.stdout = stdout
	p.conn = conn
	p.cancel = cancel
	p.readDone = readDone
	p.state = StateReady

	p.logger.Info("fallback proxy ready", "command", p.cfg.Command)
	return nil
}

func (p *Proxy) initialize(ctx context.Context, conn *protocol.Conn) error {
	params := protocol.InitializeParams{
		ProcessID: os.Getpid(),
		RootURI:   p.cfg.RootURI,
		Capabilities: protocol.ClientCapabilities{
			TextDocument: protocol.TextDocumentClientCapabilities{
				Definition: &protocol.DefinitionCapabilities{},
				References: &protocol.ReferencesCapabilities{},
				Hover:      &protocol.HoverCapabilities{ContentFormat: []string{"markdown", "plaintext"}},
			},
		},
	}

	raw, err := conn.Call(ctx, "initialize", params)
	if err != nil {
		return fmt.Errorf("initialize request: %w", err)
	}
	var result protocol.InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("parse initialize result: %w", err)
	}
	p.capabilities = result.Capabilities

	return conn.Notify("initialized", struct{}{})
}

// Capabilities returns the child's reported capabilities. Zero value
// if the child has never successfully started.
func (p *Proxy) Capabilities() protocol.ServerCapabilities {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capabilities
}

// Close shuts down the child process, if running. Idempotent.
func (p *Proxy) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateReady {
		return nil
	}

	if p.conn != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, _ = p.conn.Call(shutdownCtx, "shutdown", nil)
		cancel()
		_ = p.conn.Notify("exit", nil)
		p.conn.Close()
	}

	p.teardownLocked()
	p.state = StateDisabled
	return nil
}

// teardownLocked stops the child process and releases its resources.
// Caller must hold p.mu.
func (p *Proxy) teardownLocked() {
	if p.stdin != nil {
		_ = p.stdin.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		done := make(chan error, 1)
		go func() { done <- p.cmd.Wait() }()
		select {
		case <-time.After(5 * time.Second):
			_ = p.cmd.Process.Kill()
			<-done
		case <-done:
		}
	}
	if p.cancel != nil {
		p.cancel()
	}
	if p.readDone != nil {
		select {
		case <-p.readDone:
		case <-time.After(time.Second):
		}
	}
	p.cmd, p.stdin, p.stdout, p.conn, p.cancel, p.readDone = nil, nil, nil, nil, nil, nil
}
