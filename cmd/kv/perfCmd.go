package kv

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/dynoKV/cmd/util"
	"github.com/ValentinKolb/dynoKV/rpc/client"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dyno servers",
		Long:    "Runs every benchmark with one connection per concurrent session.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumSessions      = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)

	// perfNextSession hands out session ids to the benchmark goroutines
	perfNextSession atomic.Uint64
)

// perfResult is the outcome of one benchmark
type perfResult struct {
	bench   testing.BenchmarkResult
	latency gometrics.Timer
	errors  int64
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "sessions"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of concurrent sessions, each with its own connection"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the put-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfNumSessions = viper.GetInt("sessions")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfKeySpread < 1 {
		return fmt.Errorf("keys must be at least 1")
	}
	if perfNumSessions < 1 {
		return fmt.Errorf("sessions must be at least 1")
	}

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for dyno servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Sessions: %d\n", perfNumSessions)
	fmt.Println()

	fmt.Println("starting tests...")

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	value := []byte("test")

	benchmarks := []struct {
		name string
		// seed stores all keys before the benchmark starts
		seed bool
		op   func(s *client.Session, key string) error
	}{
		{
			name: "put",
			op: func(s *client.Session, key string) error {
				_, err := s.PutDefault([]byte(key), value)
				return err
			},
		},
		{
			name: "put-large",
			op: func(s *client.Session, key string) error {
				_, err := s.PutDefault([]byte(key), largeValue)
				return err
			},
		},
		{
			name: "put-context",
			seed: true,
			op: func(s *client.Session, key string) error {
				res, err := s.Get([]byte(key))
				if err != nil {
					return err
				}
				// concurrent sessions may win the race, conflicts are expected
				_, _ = s.Put([]byte(key), value, res.Context)
				return nil
			},
		},
		{
			name: "get",
			seed: true,
			op: func(s *client.Session, key string) error {
				_, err := s.Get([]byte(key))
				return err
			},
		},
		{
			name: "has",
			seed: true,
			op: func(s *client.Session, key string) error {
				_, err := s.Has([]byte(key))
				return err
			},
		},
		{
			name: "has-not",
			op: func(s *client.Session, key string) error {
				_, err := s.Has([]byte(key + "-missing"))
				return err
			},
		},
		{
			name: "mixed",
			seed: true,
			op: func() func(s *client.Session, key string) error {
				var counter atomic.Uint64
				return func(s *client.Session, key string) error {
					var err error
					switch counter.Add(1) % 3 {
					case 0: // put
						_, err = s.PutDefault([]byte(key), value)
					case 1: // get
						_, err = s.Get([]byte(key))
					case 2: // has
						_, err = s.Has([]byte(key))
					}
					return err
				}
			}(),
		},
	}

	results := make(map[string]perfResult)

	for _, bm := range benchmarks {
		if shouldSkip(bm.name) {
			printResult(bm.name, perfResult{})
			continue
		}
		result := runBenchmark(bm.name, bm.seed, bm.op)
		results[bm.name] = result
		printResult(bm.name, result)
	}

	fmt.Printf("\nconnections opened: %d\n", dyno.ConnectCount())

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runBenchmark runs op in parallel, every goroutine on its own session
func runBenchmark(name string, seed bool, op func(s *client.Session, key string) error) perfResult {
	getKey, iter := getKeys(name)
	result := perfResult{latency: gometrics.NewTimer()}
	var errCount atomic.Int64

	result.bench = testing.Benchmark(func(b *testing.B) {
		// set keys
		if seed {
			iter(func(k string) {
				if _, err := dyno.PutDefault([]byte(k), []byte("test")); err != nil {
					log.Printf("(%s) - error setting key: %v\n", name, err)
				}
			})
		}

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				// keys that were never written are not found, ignore the error
				_, _ = dyno.Remove([]byte(k))
			})
		})

		// RunParallel starts parallelism * GOMAXPROCS goroutines
		procs := runtime.GOMAXPROCS(0)
		b.SetParallelism((perfNumSessions + procs - 1) / procs)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			s := dyno.Session(client.SessionID(perfNextSession.Add(1)))
			defer func() {
				if err := s.Disconnect(); err != nil {
					log.Printf("(%s) - error disconnecting session %d: %v\n", name, s.ID(), err)
				}
			}()

			counter := 0
			for pb.Next() {
				start := time.Now()
				if err := op(s, getKey(counter)); err != nil {
					if errCount.Add(1) == 1 {
						log.Printf("(%s) - error: %v\n", name, err)
					}
				}
				result.latency.UpdateSince(start)
				counter++
			}
		})
	})

	result.errors = errCount.Load()
	return result
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result perfResult) {
	if result.bench.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	ps := result.latency.Percentiles([]float64{0.5, 0.99})

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50=%s p99=%s\terrors=%d\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec,
		time.Duration(ps[0]), time.Duration(ps[1]), result.errors)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]perfResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50", "P99", "Errors",
		"Endpoint", "TimeoutSec", "Serializer", "Transport",
		"Sessions", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		nsPerOp := math.Max(float64(result.bench.NsPerOp()), 1)
		opsPerSec := 1.0 / (nsPerOp / 1e9)
		ps := result.latency.Percentiles([]float64{0.5, 0.99})

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			time.Duration(ps[0]).String(),
			time.Duration(ps[1]).String(),
			strconv.FormatInt(result.errors, 10),
			config.Endpoint(),
			strconv.Itoa(config.TimeoutSecond),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumSessions),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
