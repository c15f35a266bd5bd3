// Package main runs the transmock benchmarks and outputs results to JSON/Markdown.
// Run with: go run benchmarks/run_benchmarks.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BenchmarkResults holds all benchmark data
type BenchmarkResults struct {
	Timestamp   string           `json:"timestamp"`
	Environment Environment      `json:"environment"`
	Groups      map[string]Group `json:"groups"`
	Summary     Summary          `json:"summary"`
}

type Environment struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPU       string `json:"cpu"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
}

type Group struct {
	Package    string      `json:"package"`
	Benchmarks []Benchmark `json:"benchmarks"`
}

type Benchmark struct {
	Name        string  `json:"name"`
	NsPerOp     float64 `json:"ns_per_op"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
}

// Summary holds the numbers that matter to production code: what an
// unmocked dispatch pays when no test runs, and what a probe costs.
type Summary struct {
	NotActiveNs    float64 `json:"not_active_ns"`
	NotActiveAlloc int64   `json:"not_active_allocs"`
	AppliedNs      float64 `json:"applied_ns"`
	ProbeAbsentNs  float64 `json:"probe_absent_ns"`
	ProbeHeldNs    float64 `json:"probe_held_ns"`
}

var groups = []struct {
	name    string
	pattern string
	pkg     string
}{
	{name: "adapter", pattern: "BenchmarkAdapter", pkg: "./pkg/transport/"},
	{name: "beacon", pattern: "BenchmarkIsActive", pkg: "./pkg/beacon/"},
}

func main() {
	fmt.Println("==========================================")
	fmt.Println("   TRANSMOCK BENCHMARK SUITE")
	fmt.Println("==========================================")
	fmt.Println()

	results := BenchmarkResults{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Environment: Environment{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPU:       getCPUInfo(),
			NumCPU:    runtime.NumCPU(),
			GoVersion: runtime.Version(),
		},
		Groups: make(map[string]Group),
	}

	for _, g := range groups {
		fmt.Printf("Running %s benchmarks...\n", g.name)
		results.Groups[g.name] = Group{Package: g.pkg, Benchmarks: runBenchmarks(g.pattern, g.pkg)}
	}

	results.Summary = calculateSummary(results.Groups)

	if err := os.MkdirAll("benchmarks/results", 0755); err != nil {
		fmt.Printf("Error creating results directory: %v\n", err)
		os.Exit(1)
	}

	jsonPath := filepath.Join("benchmarks", "results", "latest.json")
	writeJSON(results, jsonPath)
	fmt.Printf("\nJSON results: %s\n", jsonPath)

	mdPath := filepath.Join("benchmarks", "results", "LATEST.md")
	writeMarkdown(results, mdPath)
	fmt.Printf("Markdown results: %s\n", mdPath)

	printSummary(results)
}

func getCPUInfo() string {
	if runtime.GOOS == "linux" {
		data, err := os.ReadFile("/proc/cpuinfo")
		if err == nil {
			for _, line := range strings.Split(string(data), "\n") {
				if strings.HasPrefix(line, "model name") {
					parts := strings.SplitN(line, ":", 2)
					if len(parts) == 2 {
						return strings.TrimSpace(parts[1])
					}
				}
			}
		}
	}
	return "unknown"
}

func runBenchmarks(pattern, pkg string) []Benchmark {
	cmd := exec.Command("go", "test", "-run=^$", "-bench="+pattern, "-benchtime=2s", "-benchmem", pkg)
	output, err := cmd.CombinedOutput()
	if err != nil {
		fmt.Printf("Warning: %s: %v\n", pkg, err)
	}
	return parseBenchmarkOutput(string(output))
}

// benchLine matches: BenchmarkName-N    iterations    ns/op    bytes/op    allocs/op
var benchLine = regexp.MustCompile(`(Benchmark[\w/]+)-\d+\s+(\d+)\s+([\d.]+)\s+ns/op\s+(\d+)\s+B/op\s+(\d+)\s+allocs/op`)

func parseBenchmarkOutput(output string) []Benchmark {
	var benchmarks []Benchmark

	for _, match := range benchLine.FindAllStringSubmatch(output, -1) {
		nsPerOp, _ := strconv.ParseFloat(match[3], 64)
		bytesPerOp, _ := strconv.ParseInt(match[4], 10, 64)
		allocsPerOp, _ := strconv.ParseInt(match[5], 10, 64)

		opsPerSec := 0.0
		if nsPerOp > 0 {
			opsPerSec = 1e9 / nsPerOp
		}

		benchmarks = append(benchmarks, Benchmark{
			Name:        match[1],
			NsPerOp:     nsPerOp,
			OpsPerSec:   opsPerSec,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return benchmarks
}

func calculateSummary(groups map[string]Group) Summary {
	var s Summary

	for _, b := range groups["adapter"].Benchmarks {
		switch b.Name {
		case "BenchmarkAdapter_NotActive":
			s.NotActiveNs = b.NsPerOp
			s.NotActiveAlloc = b.AllocsPerOp
		case "BenchmarkAdapter_Applied":
			s.AppliedNs = b.NsPerOp
		}
	}
	for _, b := range groups["beacon"].Benchmarks {
		switch b.Name {
		case "BenchmarkIsActive_Absent":
			s.ProbeAbsentNs = b.NsPerOp
		case "BenchmarkIsActive_Held":
			s.ProbeHeldNs = b.NsPerOp
		}
	}
	return s
}

func writeJSON(results BenchmarkResults, path string) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling JSON: %v\n", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", path, err)
	}
}

func writeMarkdown(results BenchmarkResults, path string) {
	var sb strings.Builder
	title := cases.Title(language.English)

	sb.WriteString("# transmock Benchmark Results\n\n")
	fmt.Fprintf(&sb, "**Generated**: %s\n\n", results.Timestamp)
	sb.WriteString("## Environment\n\n")
	fmt.Fprintf(&sb, "- **OS**: %s/%s\n", results.Environment.OS, results.Environment.Arch)
	fmt.Fprintf(&sb, "- **CPU**: %s (%d cores)\n", results.Environment.CPU, results.Environment.NumCPU)
	fmt.Fprintf(&sb, "- **Go**: %s\n\n", results.Environment.GoVersion)

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Path | Latency |\n")
	sb.WriteString("|------|---------|\n")
	fmt.Fprintf(&sb, "| Dispatch, no test run | %.0fns (%d allocs) |\n", results.Summary.NotActiveNs, results.Summary.NotActiveAlloc)
	fmt.Fprintf(&sb, "| Dispatch, rewritten | %.0fns |\n", results.Summary.AppliedNs)
	fmt.Fprintf(&sb, "| Probe, no beacon | %.2fμs |\n", results.Summary.ProbeAbsentNs/1000)
	fmt.Fprintf(&sb, "| Probe, beacon held | %.2fμs |\n", results.Summary.ProbeHeldNs/1000)
	sb.WriteString("\n")

	for _, g := range groups {
		group := results.Groups[g.name]
		fmt.Fprintf(&sb, "## %s (`%s`)\n\n", title.String(g.name), group.Package)
		sb.WriteString("| Benchmark | ops/sec | ns/op | B/op | allocs/op |\n")
		sb.WriteString("|-----------|---------|-------|------|----------|\n")
		for _, b := range group.Benchmarks {
			fmt.Fprintf(&sb, "| %s | %.0f | %.0f | %d | %d |\n",
				b.Name, b.OpsPerSec, b.NsPerOp, b.BytesPerOp, b.AllocsPerOp)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Reproducing\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("go run benchmarks/run_benchmarks.go\n")
	sb.WriteString("# Or individual groups:\n")
	for _, g := range groups {
		fmt.Fprintf(&sb, "go test -run='^$' -bench=%s -benchtime=2s -benchmem %s\n", g.pattern, g.pkg)
	}
	sb.WriteString("```\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", path, err)
	}
}

func printSummary(results BenchmarkResults) {
	fmt.Println()
	fmt.Println("==========================================")
	fmt.Println("              SUMMARY")
	fmt.Println("==========================================")
	fmt.Printf("Dispatch (no test run): %.0fns, %d allocs\n", results.Summary.NotActiveNs, results.Summary.NotActiveAlloc)
	fmt.Printf("Dispatch (rewritten):   %.0fns\n", results.Summary.AppliedNs)
	fmt.Printf("Probe (no beacon):      %.2fμs\n", results.Summary.ProbeAbsentNs/1000)
	fmt.Printf("Probe (beacon held):    %.2fμs\n", results.Summary.ProbeHeldNs/1000)
	fmt.Println("==========================================")
}
