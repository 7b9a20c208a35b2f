package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/netform/netform/pkg/cache"
	"github.com/netform/netform/pkg/pipeline"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := NewServer(pipeline.NewRunner(nil, logger), logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

const sampleNetworkJSON = `{
	"name": "xor",
	"nodes": [
		{"name": "input", "shape": [2]},
		{"name": "hidden", "shape": [4]},
		{"name": "output", "shape": [1]}
	],
	"connections": [
		{"from": "input", "to": "hidden"},
		{"from": "hidden", "to": "output"}
	]
}`

func TestHealth(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header should be set")
	}
}

func TestRequestIDPreserved(t *testing.T) {
	ts := testServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "my-trace-id")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "my-trace-id" {
		t.Errorf("X-Request-ID = %q, want my-trace-id", got)
	}
}

func TestShape_Regular(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts, "/v1/shape", `{"data": [[1,2,3],[4,5,6]]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body shapeResponse
	decodeBody(t, resp, &body)

	if body.Ragged {
		t.Error("Ragged = true, want false")
	}
	if !reflect.DeepEqual(body.Dims, []int{2, 3}) {
		t.Errorf("Dims = %v, want [2 3]", body.Dims)
	}
	if body.Shape != "(2, 3)" {
		t.Errorf("Shape = %q, want (2, 3)", body.Shape)
	}
	if body.Form != "[[number, 3], 2]" {
		t.Errorf("Form = %q", body.Form)
	}
}

func TestShape_Ragged(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts, "/v1/shape", `{"data": [[1],[2,3]]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body shapeResponse
	decodeBody(t, resp, &body)

	if !body.Ragged {
		t.Error("Ragged = false, want true")
	}
	if !reflect.DeepEqual(body.Rows, [][]int{{1}, {2}}) {
		t.Errorf("Rows = %v, want [[1] [2]]", body.Rows)
	}
}

func TestShape_Scalar(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts, "/v1/shape", `{"data": 5}`)
	var body shapeResponse
	decodeBody(t, resp, &body)

	if body.Shape != "()" {
		t.Errorf("Shape = %q, want ()", body.Shape)
	}
}

func TestShape_Cached(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := NewServer(pipeline.NewRunner(c, logger), logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	payload := `{"data": [[1,2,3],[4,5,6]]}`
	var first, second shapeResponse

	resp := postJSON(t, ts, "/v1/shape", payload)
	decodeBody(t, resp, &first)
	resp = postJSON(t, ts, "/v1/shape", payload)
	decodeBody(t, resp, &second)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached response = %+v, want %+v", second, first)
	}
}

func TestShape_MissingData(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts, "/v1/shape", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var body errorBody
	decodeBody(t, resp, &body)
	if body.Code != "INVALID_INPUT" {
		t.Errorf("Code = %q, want INVALID_INPUT", body.Code)
	}
}

func TestAnalyze(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts, "/v1/network/analyze", sampleNetworkJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body analyzeResponse
	decodeBody(t, resp, &body)

	if body.NetworkHash == "" {
		t.Error("NetworkHash should be set")
	}
	if !body.Analysis.Acyclic {
		t.Error("Acyclic = false, want true")
	}
	if !reflect.DeepEqual(body.Analysis.Inputs, []string{"input"}) {
		t.Errorf("Inputs = %v, want [input]", body.Analysis.Inputs)
	}
	if !reflect.DeepEqual(body.Analysis.BuildOrder, []string{"input", "hidden", "output"}) {
		t.Errorf("BuildOrder = %v", body.Analysis.BuildOrder)
	}
}

func TestAnalyze_InvalidNetwork(t *testing.T) {
	ts := testServer(t)

	body := `{"nodes": [{"name": "a"}], "connections": [{"from": "a", "to": "ghost"}]}`
	resp := postJSON(t, ts, "/v1/network/analyze", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var eb errorBody
	decodeBody(t, resp, &eb)
	if eb.Code != "INVALID_NETWORK" {
		t.Errorf("Code = %q, want INVALID_NETWORK", eb.Code)
	}
}

func TestPath(t *testing.T) {
	ts := testServer(t)

	body := `{"network": ` + sampleNetworkJSON + `, "from": "input", "to": "output"}`
	resp := postJSON(t, ts, "/v1/network/path", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var pr pathResponse
	decodeBody(t, resp, &pr)

	if !pr.Found {
		t.Error("Found = false, want true")
	}
	if !reflect.DeepEqual(pr.Path, []string{"hidden", "output"}) {
		t.Errorf("Path = %v, want [hidden output]", pr.Path)
	}
}

func TestPath_UnknownNode(t *testing.T) {
	ts := testServer(t)

	body := `{"network": ` + sampleNetworkJSON + `, "from": "input", "to": "ghost"}`
	resp := postJSON(t, ts, "/v1/network/path", body)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var eb errorBody
	decodeBody(t, resp, &eb)
	if eb.Code != "NODE_NOT_FOUND" {
		t.Errorf("Code = %q, want NODE_NOT_FOUND", eb.Code)
	}
}

func TestRender_DOT(t *testing.T) {
	ts := testServer(t)

	body := `{"network": ` + sampleNetworkJSON + `, "format": "dot"}`
	resp := postJSON(t, ts, "/v1/network/render", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "digraph G {") {
		t.Errorf("body is not DOT: %s", data)
	}
}

func TestRender_InvalidFormat(t *testing.T) {
	ts := testServer(t)

	body := `{"network": ` + sampleNetworkJSON + `, "format": "pdf"}`
	resp := postJSON(t, ts, "/v1/network/render", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var eb errorBody
	decodeBody(t, resp, &eb)
	if eb.Code != "INVALID_FORMAT" {
		t.Errorf("Code = %q, want INVALID_FORMAT", eb.Code)
	}
}
