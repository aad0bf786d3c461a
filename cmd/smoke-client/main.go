// Command smoke-client drives a wmtrace MCP server end to end over
// stdio: handshake, capture two traces with the mock collector, diff
// them, show one, delete one. It is a manual validation harness, not an
// automated test.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func main() {
	serverPath := flag.String("server", "./wmtrace", "path to the wmtrace binary")
	flag.Parse()

	// Isolated config so the smoke run never touches the real store.
	tmpDir, err := os.MkdirTemp("", "wmtrace-smoke")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	cfgPath := filepath.Join(tmpDir, "config.yaml")
	cfgData := fmt.Sprintf("db_path: %s\ncollector: mock\n",
		filepath.Join(tmpDir, "traces.db"))
	if err := os.WriteFile(cfgPath, []byte(cfgData), 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- wmtrace MCP smoke run ---")
	cmd := exec.Command(*serverPath, "serve", "--config", cfgPath)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Fatal(err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Fatal(err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		log.Fatal(err)
	}

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	defer cmd.Process.Kill()
	go io.Copy(os.Stderr, stderr)

	reader := bufio.NewReader(stdout)
	writer := json.NewEncoder(stdin)

	// 1. Handshake
	fmt.Println("\n[1] Protocol handshake")
	call(writer, reader, 0, "initialize", map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]string{"name": "SmokeClient", "version": "1.0"},
	})
	notify(writer, "notifications/initialized", map[string]interface{}{})

	// 2. Capture trace A
	fmt.Println("\n[2] Tool: capture_trace (A)")
	respA := callTool(writer, reader, 1, "capture_trace", map[string]interface{}{
		"name":        "smoke-baseline",
		"description": "First smoke capture",
	})
	idA := extractID(respA)
	fmt.Printf(">> trace A: %s\n", idA)

	// 3. Capture trace B, multi-sample
	fmt.Println("\n[3] Tool: capture_trace (B, 3 samples)")
	respB := callTool(writer, reader, 2, "capture_trace", map[string]interface{}{
		"name":        "smoke-candidate",
		"description": "Second smoke capture",
		"samples":     3,
	})
	idB := extractID(respB)
	fmt.Printf(">> trace B: %s\n", idB)

	// 4. List
	fmt.Println("\n[4] Tool: list_traces")
	callTool(writer, reader, 3, "list_traces", nil)

	// 5. Show A
	fmt.Println("\n[5] Tool: show_trace (A)")
	callTool(writer, reader, 4, "show_trace", map[string]interface{}{
		"trace_id": idA,
	})

	// 6. Diff A vs B. The mock collector is deterministic, so this
	// should report no structural changes.
	fmt.Println("\n[6] Tool: diff_traces (A vs B)")
	callTool(writer, reader, 5, "diff_traces", map[string]interface{}{
		"source_id": idA,
		"target_id": idB,
	})

	// 7. Delete B
	fmt.Println("\n[7] Tool: delete_trace (B)")
	callTool(writer, reader, 6, "delete_trace", map[string]interface{}{
		"trace_id": idB,
	})

	fmt.Println("\n--- smoke run finished ---")
}

func call(w *json.Encoder, r *bufio.Reader, id int, method string, params interface{}) string {
	pBytes, _ := json.Marshal(params)
	req := Request{JSONRPC: "2.0", ID: id, Method: method, Params: pBytes}
	if err := w.Encode(req); err != nil {
		log.Fatalf("Failed to send %s: %v", method, err)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		log.Fatalf("Failed to read response to %s: %v", method, err)
	}
	output := string(raw)
	fmt.Printf("<< %s\n", output)
	return output
}

func callTool(w *json.Encoder, r *bufio.Reader, id int, tool string, args map[string]interface{}) string {
	if args == nil {
		args = make(map[string]interface{})
	}
	return call(w, r, id, "tools/call", map[string]interface{}{
		"name":      tool,
		"arguments": args,
	})
}

func notify(w *json.Encoder, method string, params interface{}) {
	pBytes, _ := json.Marshal(params)
	w.Encode(Request{JSONRPC: "2.0", Method: method, Params: pBytes})
}

// extractID pulls the "ID: <uuid>" token out of a tool result without
// parsing the full MCP envelope.
func extractID(resp string) string {
	idx := strings.Index(resp, "ID: ")
	if idx == -1 {
		return "unknown"
	}
	rest := resp[idx+4:]
	end := strings.IndexAny(rest, ", \\\"\n")
	if end == -1 {
		return "unknown"
	}
	return rest[:end]
}
