package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/ironsheep/resample-mcp/internal/imaging"
)

// runSession feeds lines to RunIO and decodes every response line.
func runSession(t *testing.T, s *Server, lines ...string) []MCPResponse {
	t.Helper()

	var out strings.Builder
	if err := s.RunIO(strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("RunIO failed: %v", err)
	}

	var responses []MCPResponse
	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}
	return responses
}

// toolCallLine builds a tools/call request line.
func toolCallLine(t *testing.T, id interface{}, name string, args map[string]interface{}) string {
	t.Helper()
	line, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params":  map[string]interface{}{"name": name, "arguments": args},
	})
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return string(line)
}

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.workers != 0 {
		t.Errorf("workers: got %d, want serial rendering by default", s.workers)
	}
}

func TestNew_Options(t *testing.T) {
	cache := imaging.NewRasterCache(imaging.WithPlanarColor())
	s := New(WithWorkers(4), WithVersion("1.2.3"), WithCache(cache))

	if s.workers != 4 {
		t.Errorf("workers: got %d, want 4", s.workers)
	}
	if s.version != "1.2.3" {
		t.Errorf("version: got %s, want 1.2.3", s.version)
	}
	if s.cache != cache {
		t.Error("WithCache was not applied")
	}
}

func TestMCPRequest_RasterRenderArguments(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		wantID interface{}
	}{
		{"string id", `"render-1"`, "render-1"},
		{"number id", `42`, float64(42)},
		{"null id", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"method":"tools/call","params":`+
				`{"name":"raster_render","arguments":{"path":"/ct.raw","left":10.5,"top":0,"right":-2,"bottom":64,`+
				`"window_center":40,"window_width":400,"raw":{"width":64,"height":64,"bytes_per_pixel":2,"signed":true}}}}`, tt.id)

			var req MCPRequest
			if err := json.Unmarshal([]byte(line), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}

			var params ToolCallParams
			if err := json.Unmarshal(req.Params, &params); err != nil {
				t.Fatalf("Failed to unmarshal params: %v", err)
			}
			if params.Name != "raster_render" {
				t.Errorf("Name: got %s, want raster_render", params.Name)
			}

			var args rasterRenderArgs
			if err := json.Unmarshal(params.Arguments, &args); err != nil {
				t.Fatalf("Failed to unmarshal arguments: %v", err)
			}
			region, err := args.region(64, 64)
			if err != nil {
				t.Fatalf("region: %v", err)
			}
			if region.Left != 10.5 || region.Right != -2 || region.Bottom != 64 {
				t.Errorf("region: got %+v", region)
			}
			if args.Raw == nil || !args.Raw.Signed || args.Raw.BytesPerPixel != 2 {
				t.Errorf("raw: got %+v", args.Raw)
			}
			if args.WindowCenter == nil || *args.WindowCenter != 40 || args.WindowWidth == nil || *args.WindowWidth != 400 {
				t.Error("window arguments not decoded")
			}
		})
	}
}

func TestMCPResponse_ToolFailure(t *testing.T) {
	s := New()
	path := createRawFile(t, []byte{1, 2, 3, 4})

	responses := runSession(t, s,
		toolCallLine(t, 7, "raster_render", map[string]interface{}{
			"path":   path,
			"raw":    map[string]interface{}{"width": 2, "height": 2, "bytes_per_pixel": 1},
			"left":   0,
			"right":  2,
			"bottom": 2,
		}),
	)
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}

	resp := responses[0]
	if resp.ID != float64(7) {
		t.Errorf("ID: got %v, want 7", resp.ID)
	}
	if resp.Result != nil {
		t.Errorf("Result should be omitted on error, got %v", resp.Result)
	}
	if resp.Error == nil {
		t.Fatal("Error should not be nil")
	}
	if resp.Error.Code != -32000 || resp.Error.Message != "Tool execution failed" {
		t.Errorf("Error: got %d %q", resp.Error.Code, resp.Error.Message)
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, "left, top, right and bottom") {
		t.Errorf("Error.Data: got %v", resp.Error.Data)
	}
}

func TestMCPResponse_ToolResult(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 12, 7, color.RGBA{0, 0, 255, 255})
	defer os.Remove(imgPath)

	responses := runSession(t, s, toolCallLine(t, "load-1", "raster_load", map[string]interface{}{"path": imgPath}))
	if len(responses) != 1 || responses[0].Error != nil {
		t.Fatalf("unexpected responses: %+v", responses)
	}

	result, ok := responses[0].Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content := result["content"].([]interface{})[0].(map[string]interface{})

	var info imaging.RasterInfo
	if err := json.Unmarshal([]byte(content["text"].(string)), &info); err != nil {
		t.Fatalf("content text is not raster info: %v", err)
	}
	if info.Width != 12 || info.Height != 7 || info.Color != "rgb" {
		t.Errorf("info: got %+v", info)
	}
}

func TestRunIO_OverflowingRawSpec(t *testing.T) {
	s := New()
	path := createRawFile(t, []byte{1, 2, 3, 4})
	huge := map[string]interface{}{"width": 1 << 32, "height": 1 << 32, "bytes_per_pixel": 1}

	responses := runSession(t, s,
		toolCallLine(t, 1, "raster_sample", map[string]interface{}{"path": path, "raw": huge, "x": 1, "y": 1}),
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)

	// The server answers the failing call and keeps serving.
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != -32000 {
		t.Fatalf("overflowing raster: got %+v, want -32000", responses[0].Error)
	}
	if data, _ := responses[0].Error.Data.(string); !strings.Contains(data, "invalid dimensions") {
		t.Errorf("Error.Data: got %v", data)
	}
	if responses[1].Error != nil {
		t.Errorf("ping after failure: %+v", responses[1].Error)
	}
}

func TestHandleRequest_Methods(t *testing.T) {
	tests := []struct {
		method   string
		wantNil  bool
		wantCode int
	}{
		{"initialize", false, 0},
		{"tools/list", false, 0},
		{"ping", false, 0},
		{"notifications/initialized", true, 0},
		{"resources/list", false, -32601},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "req", Method: tt.method})
			if tt.wantNil {
				if resp != nil {
					t.Errorf("%s should not be answered", tt.method)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.ID != "req" || resp.JSONRPC != "2.0" {
				t.Errorf("envelope: got %v %v", resp.JSONRPC, resp.ID)
			}
			code := 0
			if resp.Error != nil {
				code = resp.Error.Code
			}
			if code != tt.wantCode {
				t.Errorf("error code: got %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestHandleInitialize(t *testing.T) {
	s := New(WithVersion("2.4.0"))
	resp := s.handleInitialize(&MCPRequest{JSONRPC: "2.0", ID: "init-1"})

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != ServerName {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != "2.4.0" {
		t.Errorf("serverInfo.version: got %v", serverInfo["version"])
	}
}

func TestRunIO_Session(t *testing.T) {
	responses := runSession(t, New(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`not json`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":4,"method":"resources/list"}`,
	)

	// The notification and the blank line produce no output.
	if len(responses) != 5 {
		t.Fatalf("expected 5 responses, got %d", len(responses))
	}

	wantIDs := []interface{}{float64(1), float64(2), nil, float64(3), float64(4)}
	for i, want := range wantIDs {
		if responses[i].ID != want {
			t.Errorf("response %d ID: got %v, want %v", i, responses[i].ID, want)
		}
	}
	if responses[2].Error == nil || responses[2].Error.Code != -32700 {
		t.Errorf("malformed line: got %+v, want parse error", responses[2].Error)
	}
	if responses[4].Error == nil || responses[4].Error.Code != -32601 {
		t.Errorf("unknown method: got %+v, want -32601", responses[4].Error)
	}
}
