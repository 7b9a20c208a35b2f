package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/netform/netform/pkg/cache"
	"github.com/netform/netform/pkg/graph"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleManifest = `[network]
name = "xor"
layers = [2, 4, 1]
`

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	opts := Options{Source: "net.toml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults failed: %v", err)
	}
	if opts.SourceFormat != SourceTOML {
		t.Errorf("SourceFormat = %q, want toml", opts.SourceFormat)
	}
	if !reflect.DeepEqual(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptions_MissingSource(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestOptions_InvalidFormat(t *testing.T) {
	opts := Options{Source: "net.toml", Formats: []string{"pdf"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestOptions_InferSourceFormat(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"net.toml", SourceTOML},
		{"net.json", SourceJSON},
		{"net", SourceTOML},
	}
	for _, tt := range tests {
		opts := Options{Source: tt.source}
		if err := opts.ValidateForLoad(); err != nil {
			t.Fatalf("ValidateForLoad(%s) failed: %v", tt.source, err)
		}
		if opts.SourceFormat != tt.want {
			t.Errorf("SourceFormat for %s = %q, want %q", tt.source, opts.SourceFormat, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	net := graph.New("diamond")
	for _, name := range []string{"in", "l", "r", "out"} {
		if err := net.AddNode(graph.Node{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	_ = net.Connect("in", "l")
	_ = net.Connect("in", "r")
	_ = net.Connect("l", "out")
	_ = net.Connect("r", "out")

	a := Analyze(net)

	if a.Name != "diamond" {
		t.Errorf("Name = %q", a.Name)
	}
	if a.NodeCount != 4 || a.ConnectionCount != 4 {
		t.Errorf("counts = %d/%d, want 4/4", a.NodeCount, a.ConnectionCount)
	}
	if !a.Acyclic {
		t.Error("Acyclic = false, want true")
	}
	if !reflect.DeepEqual(a.Inputs, []string{"in"}) {
		t.Errorf("Inputs = %v, want [in]", a.Inputs)
	}
	if !reflect.DeepEqual(a.Outputs, []string{"out"}) {
		t.Errorf("Outputs = %v, want [out]", a.Outputs)
	}
	if a.Roles["l"] != "hidden" {
		t.Errorf("Roles[l] = %q, want hidden", a.Roles["l"])
	}
	if len(a.BuildOrder) != 4 || a.BuildOrder[0] != "in" || a.BuildOrder[3] != "out" {
		t.Errorf("BuildOrder = %v", a.BuildOrder)
	}
}

func TestAnalyze_Cyclic(t *testing.T) {
	net := graph.New("loop")
	_ = net.AddNode(graph.Node{Name: "a"})
	_ = net.AddNode(graph.Node{Name: "b"})
	_ = net.Connect("a", "b")
	_ = net.Connect("b", "a")

	a := Analyze(net)
	if a.Acyclic {
		t.Error("Acyclic = true, want false")
	}
	if len(a.BuildOrder) != 0 {
		t.Errorf("BuildOrder = %v, want empty for cyclic network", a.BuildOrder)
	}
}

func TestRunner_Execute(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	runner := NewRunner(cache.NewNullCache(), discardLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Source:  path,
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.NetworkHash == "" {
		t.Error("NetworkHash should be set")
	}
	if result.Stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", result.Stats.NodeCount)
	}
	if !result.Analysis.Acyclic {
		t.Error("analysis should report acyclic")
	}

	dot, ok := result.Artifacts[FormatDOT]
	if !ok || !strings.Contains(string(dot), "digraph G {") {
		t.Errorf("dot artifact missing or malformed: %s", dot)
	}
	var doc map[string]any
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &doc); err != nil {
		t.Errorf("json artifact is not valid JSON: %v", err)
	}
}

func TestRunner_CacheHits(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, discardLogger())
	defer runner.Close()

	opts := Options{Source: path, Formats: []string{FormatDOT}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if first.CacheInfo.AnalyzeHit || first.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if !second.CacheInfo.AnalyzeHit {
		t.Error("second run should hit the analysis cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}
	if !reflect.DeepEqual(first.Analysis, second.Analysis) {
		t.Error("cached analysis should equal computed analysis")
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("cached artifact should equal rendered artifact")
	}
}

func TestRunner_Refresh(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, discardLogger())
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{Source: path, Formats: []string{FormatDOT}}); err != nil {
		t.Fatal(err)
	}

	refreshed, err := runner.Execute(context.Background(), Options{
		Source:  path,
		Formats: []string{FormatDOT},
		Refresh: true,
	})
	if err != nil {
		t.Fatalf("refresh Execute failed: %v", err)
	}
	if refreshed.CacheInfo.AnalyzeHit || refreshed.CacheInfo.RenderHit {
		t.Error("refresh run should bypass the cache")
	}
}

func TestNetworkHash(t *testing.T) {
	a := graph.New("a")
	_ = a.AddNode(graph.Node{Name: "x"})
	b := graph.New("a")
	_ = b.AddNode(graph.Node{Name: "x"})

	if NetworkHash(a) != NetworkHash(b) {
		t.Error("identical networks should hash identically")
	}

	_ = b.AddNode(graph.Node{Name: "y"})
	if NetworkHash(a) == NetworkHash(b) {
		t.Error("different networks should hash differently")
	}
}

func TestRunner_LoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.json")
	content := `{"name":"xor","nodes":[{"name":"in","shape":[2]},{"name":"out","shape":[1]}],"connections":[{"from":"in","to":"out"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(nil, discardLogger())
	net, err := runner.Load(context.Background(), Options{Source: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if net.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", net.NodeCount())
	}
}
