// Package main benchmarks the repoaudit CLI against a set of public
// repositories. It times the estimate command under three conditions:
// no cache, a cold cache (first populate) and a warm cache (snapshot
// sync), then writes a CSV for performance tracking.
//
// Prerequisites:
// - repoaudit binary installed and available in PATH
// - network access to the GitHub API
// - REPOAUDIT_SOURCE_TOKEN set, or the rate limit will skew results
//
// Usage: go run benchmark/main.go
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the timings for one repository and tier
// (no-cache average, cold populate, average of warm syncs).
type BenchmarkResult struct {
	Repository  string
	Tier        string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	Tiers       []string
}

func main() {
	config := BenchmarkConfig{
		Timeout:     3 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos: []string{
			"octocat/Hello-World",
			"pallets/flask",
			"gin-gonic/gin",
		},
		Tiers: []string{"quick", "standard", "deep"},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Drop any stale snapshots so the cold phase is genuinely cold
	for _, repo := range config.TestRepos {
		deleteCmd := exec.Command("repoaudit", "archive", "delete", repo)
		if output, err := deleteCmd.CombinedOutput(); err != nil {
			fmt.Printf("Note: no cached snapshot for %s: %s\n", repo, strings.TrimSpace(string(output)))
		}
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies the repoaudit binary is installed
func checkPrerequisites() error {
	if _, err := exec.LookPath("repoaudit"); err != nil {
		return fmt.Errorf("repoaudit binary not found in PATH")
	}
	if os.Getenv("REPOAUDIT_SOURCE_TOKEN") == "" {
		fmt.Printf("Warning: REPOAUDIT_SOURCE_TOKEN not set, unauthenticated rate limits apply\n")
	}
	return nil
}

// runBenchmarks times the estimate command for every repository and tier
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %d tiers, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), len(config.Tiers), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		for _, tier := range config.Tiers {
			results = append(results, runBenchmarkSuite(config, repo, tier))
		}
	}

	return results
}

// runBenchmarkSuite runs the no-cache and cache phases for one repo and tier
func runBenchmarkSuite(config BenchmarkConfig, repo, tier string) BenchmarkResult {
	fmt.Printf("Running %s estimate on %s\n", tier, repo)

	// Helper to run one benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repo, tier, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: no cache, every run downloads the snapshot
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: first run populates the cache, the rest only sync
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:  repo,
		Tier:        tier,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes repoaudit estimate numRuns times and returns the
// cold time plus the remaining warm times
func runBenchmark(config BenchmarkConfig, repo, tier, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{"estimate", repo, "--tier", tier, "--cache-backend", cacheBackend}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("repoaudit", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't record the run
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks the output for the quote line the estimate command
// prints after a completed run
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "estimated") &&
		strings.Contains(outputStr, "tokens") &&
		strings.Contains(outputStr, "ceiling")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/repoaudit_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"repo", "tier", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Tier, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, tier := range []string{"quick", "standard", "deep"} {
		printTierSummary(results, tier)
	}

	fmt.Printf("Benchmark script completed successfully\n")
}

// printTierSummary displays results for a single tier
func printTierSummary(results []BenchmarkResult, tier string) {
	fmt.Printf("%s tier:\n", strings.ToUpper(tier[:1])+tier[1:])
	for _, result := range results {
		if result.Tier == tier {
			fmt.Printf("  %-24s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
