// Package repl implements the interactive client session.
package repl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"scriptbox/internal/cli/command"
	"scriptbox/internal/cli/httpclient"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

// Session holds REPL state.
type Session struct {
	client     *httpclient.Client
	apiKey     string
	prettyJSON bool
	out        io.Writer
}

func New(client *httpclient.Client, apiKey string, prettyJSON bool) *Session {
	return &Session{
		client:     client,
		apiKey:     apiKey,
		prettyJSON: prettyJSON,
		out:        os.Stdout,
	}
}

// Run reads and executes commands until EOF or exit.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "scriptbox> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("init readline failed: %w", err)
	}
	defer func() { _ = rl.Close() }()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s.handleSystemCommand(line) {
			continue
		}
		if err := s.handleCommand(ctx, line); err != nil {
			s.printLine("error: %v", err)
		}
	}
}

func (s *Session) handleSystemCommand(line string) bool {
	switch line {
	case "exit", "quit":
		s.printLine("bye")
		os.Exit(0)
	case "help":
		s.printHelp()
		return true
	}
	if strings.HasPrefix(line, "set ") {
		s.handleSet(strings.TrimSpace(strings.TrimPrefix(line, "set ")))
		return true
	}
	if line == "show config" {
		s.printLine("base: %s", s.client.BaseURL())
		s.printLine("apiKey: %s", maskKey(s.apiKey))
		return true
	}
	return false
}

func (s *Session) handleSet(args string) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		s.printLine("usage: set base|timeout|key <value>")
		return
	}
	switch parts[0] {
	case "base":
		s.client.SetBaseURL(parts[1])
		s.printLine("base set to %s", parts[1])
	case "timeout":
		dur, err := time.ParseDuration(parts[1])
		if err != nil {
			s.printLine("invalid duration: %v", err)
			return
		}
		s.client.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	case "key":
		s.apiKey = parts[1]
		s.printLine("api key updated")
	default:
		s.printLine("unknown set command")
	}
}

func (s *Session) handleCommand(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	name := tokens[0]
	params := command.Params{}
	for _, token := range tokens[1:] {
		parts := strings.SplitN(token, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid param: %s", token)
		}
		params.Set(parts[0], parts[1])
	}

	var req command.RequestSpec
	switch name {
	case "run":
		req, err = command.BuildRun(params, s.apiKey)
	case "fetch":
		req, err = command.BuildFetch(params)
	case "head":
		req, err = command.BuildHead(params)
	case "health":
		req = command.BuildHealth()
	default:
		return fmt.Errorf("unknown command: %s", name)
	}
	if err != nil {
		return err
	}

	resp, err := s.client.Do(ctx, req.Method, req.Path, req.Headers, req.Body)
	if err != nil {
		return err
	}

	if name == "fetch" {
		if out := params.Get("out"); out != "" {
			if err := os.WriteFile(out, resp.Body, 0644); err != nil {
				return fmt.Errorf("write output file failed: %w", err)
			}
			s.printLine("HTTP %d (%s), %d bytes written to %s", resp.StatusCode, resp.Duration, len(resp.Body), out)
			return nil
		}
	}
	s.renderResponse(resp)
	return nil
}

func (s *Session) renderResponse(resp httpclient.ResponseInfo) {
	s.printLine("HTTP %d (%s)", resp.StatusCode, resp.Duration)
	if cr := resp.Headers.Get("Content-Range"); cr != "" {
		s.printLine("Content-Range: %s", cr)
	}
	if cl := resp.Headers.Get("Content-Length"); cl != "" && len(resp.Body) == 0 {
		s.printLine("Content-Length: %s", cl)
	}
	if len(resp.Body) == 0 {
		return
	}
	if s.prettyJSON {
		var raw interface{}
		if err := json.Unmarshal(resp.Body, &raw); err == nil {
			formatted, _ := json.MarshalIndent(raw, "", "  ")
			s.printLine("%s", string(formatted))
			return
		}
	}
	s.printLine("%s", string(resp.Body))
}

func (s *Session) printHelp() {
	s.printLine("usage: <command> key=value ...")
	s.printLine("commands:")
	s.printLine("  run script=\"print(1)\" [kind=python|shell] [timeout=10]")
	s.printLine("  run file=./script.py")
	s.printLine("  fetch path=tmp/20260825_153012/out.txt [range=0-99] [out=./out.txt]")
	s.printLine("  head path=tmp/20260825_153012/out.txt")
	s.printLine("  health")
	s.printLine("system: help | exit | set base|timeout|key <value> | show config")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}

func maskKey(key string) string {
	if key == "" {
		return "<empty>"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.scriptbox_history"
}
