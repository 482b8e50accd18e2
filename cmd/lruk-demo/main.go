package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	arc "github.com/hashicorp/golang-lru/arc/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rcrowley/go-metrics"

	lruk "github.com/farazdagi/lru-k"
	"github.com/farazdagi/lru-k/internal/tag"
	"github.com/farazdagi/lru-k/internal/util"
	"github.com/farazdagi/lru-k/log"
	"github.com/farazdagi/lru-k/workload"
)

type InputConfig struct {
	Capacity       int    `json:"capacity"`
	K              int    `json:"k"`
	HotSize        int    `json:"hot-size"`
	ScanSize       int    `json:"scan-size"`
	HotOps         int    `json:"hot-ops"`
	Seed           int64  `json:"seed"`
	LogDestination string `json:"log-destination"` // Stderr, stdout, or filepath.
	LogLevel       string `json:"log-level"`
}

func DefaultInputConfig() *InputConfig {
	return &InputConfig{
		Capacity:       1024,
		K:              2,
		HotSize:        1024,
		ScanSize:       50000,
		HotOps:         20000,
		Seed:           0xC0FFEE,
		LogDestination: "stderr",
		LogLevel:       "info",
	}
}

const usage = `
Replays the same seeded workload against LRU-K, classic LRU and ARC caches
and reports per-phase hit rates: warm-up over a hot key range, a one-pass
cold scan, and the recovery that follows.

Config values merge rules:
1) config file value overrides default
2) command line value overrides any
Options:
`

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s", usage)
		flag.PrintDefaults()
	}
}

type Config struct {
	Capacity       int
	K              int
	HotSize        int
	ScanSize       int
	HotOps         int
	Seed           int64
	LogDestination io.Writer
	LogLevel       log.Level
}

func main() {
	conf := config()
	l := log.NewLogger(conf.LogLevel, conf.LogDestination)
	l.Debugf("Config: %#v", conf)
	if tag.Debug {
		l.Warn("Using debug build. It has more runtime checks and large performance overhead.")
	}

	registry := metrics.NewRegistry()
	fmt.Printf("LRU-K scan resistance demo\n")
	fmt.Printf("capacity=%v k=%v hot-size=%v scan-size=%v hot-ops=%v seed=%v\n",
		conf.Capacity, conf.K, conf.HotSize, conf.ScanSize, conf.HotOps, conf.Seed)

	for _, p := range policies(l, conf) {
		runPolicy(registry, conf, p)
	}

	fmt.Println()
	metrics.WriteOnce(registry, os.Stdout)
}

type policy struct {
	name   string
	target workload.Target
}

func policies(l log.Logger, conf *Config) []policy {
	k, err := lruk.NewWithConfig(lruk.Config[uint64, struct{}]{
		Capacity: conf.Capacity,
		K:        conf.K,
		Log:      l.WithFields(log.Fields{"policy": "lru-k"}),
	})
	if err != nil {
		l.Fatal("Cache construction error: ", err)
	}
	classic, err := lru.New[uint64, struct{}](conf.Capacity)
	if err != nil {
		l.Fatal("LRU construction error: ", err)
	}
	adaptive, err := arc.NewARC[uint64, struct{}](conf.Capacity)
	if err != nil {
		l.Fatal("ARC construction error: ", err)
	}
	return []policy{
		{"lru-k", workload.LRUKTarget(k)},
		{"lru", workload.LRUTarget(classic)},
		{"arc", workload.ARCTarget(adaptive)},
	}
}

const recoveryTarget = 0.9

func runPolicy(registry metrics.Registry, conf *Config, p policy) {
	runner := workload.NewRunner(p.target, conf.Seed)
	warmup := workload.NewMetrics(registry, p.name+".warmup")
	preScan := workload.NewMetrics(registry, p.name+".pre-scan")
	scan := workload.NewMetrics(registry, p.name+".scan")
	postScan := workload.NewMetrics(registry, p.name+".post-scan")

	warmOps := conf.HotOps
	if min := 2 * conf.HotSize; warmOps < min {
		warmOps = min
	}

	var recoveryOps int64
	var recovered bool
	timer := metrics.GetOrRegisterTimer(p.name+".run", registry)
	timer.Time(func() {
		runner.AccessHot(conf.HotSize, warmOps, warmup)
		runner.AccessHot(conf.HotSize, conf.HotOps, preScan)
		runner.ScanCold(conf.HotSize, conf.ScanSize, scan)
		runner.AccessHot(conf.HotSize, conf.HotOps, postScan)
		recoveryOps, recovered = runner.Recovery(conf.HotSize, 10*conf.HotSize, recoveryTarget)
	})

	fmt.Printf("policy=%s\n", p.name)
	fmt.Printf("  warm-up:          %v\n", warmup)
	fmt.Printf("  pre-scan window:  %v\n", preScan)
	fmt.Printf("  cold scan:        %v\n", scan)
	fmt.Printf("  post-scan window: %v\n", postScan)
	if recovered {
		fmt.Printf("  recovery: hit rate back above %.0f%% after %v hot references\n",
			100*recoveryTarget, recoveryOps)
	} else {
		fmt.Printf("  recovery: hit rate still below %.0f%% after %v hot references\n",
			100*recoveryTarget, recoveryOps)
	}
}

// config parses command flags, reads config file if any, returns merged config.
// Config values merge rules:
// 1) config file value overrides default
// 2) command line value overrides any
func config() *Config {
	l := log.NewLogger(log.DebugLevel, os.Stderr)
	flg := parseFlags()
	if flg.WriteConfig != "" {
		writeDefaultConf(l, flg.WriteConfig)
		os.Exit(0)
	}
	fileConf := DefaultInputConfig()
	if flg.ConfigPath != "" {
		data, err := os.ReadFile(flg.ConfigPath)
		if err != nil {
			l.Fatal("Config file read error: ", err)
		}
		err = json.Unmarshal(data, fileConf)
		if err != nil {
			l.Fatal("Config parse error: ", err)
		}
	}
	mergeConfigs(fileConf, &flg.InputConfig)
	return parseConfig(l, fileConf)
}

func parseConfig(l log.Logger, fileConf *InputConfig) *Config {
	parsed := &Config{}
	var err error
	parsed.LogDestination, err = logDestination(fileConf.LogDestination)
	if err != nil {
		l.Fatal("Log destination open error: ", err)
	}
	parsed.LogLevel, err = log.LevelFromString(fileConf.LogLevel)
	if err != nil {
		l.Fatal("Log level parse error: ", err)
	}
	if fileConf.HotSize < 1 || fileConf.ScanSize < 1 || fileConf.HotOps < 1 {
		l.Fatal("Hot size, scan size and hot ops must be positive.")
	}
	parsed.Capacity = fileConf.Capacity
	parsed.K = fileConf.K
	parsed.HotSize = fileConf.HotSize
	parsed.ScanSize = fileConf.ScanSize
	parsed.HotOps = fileConf.HotOps
	parsed.Seed = fileConf.Seed
	return parsed
}

type Flags struct {
	ConfigPath  string
	WriteConfig string
	InputConfig
}

// NOTE: without "only stdlib" constraint I would take
// github.com/spf13/viper with custom github.com/mitchellh/mapstructure decode
// hooks for configuration and github.com/spf13/cobra for CLI.
func parseFlags() Flags {
	var f Flags
	flag.StringVar(&f.ConfigPath, "config", "", "path to json config")
	flag.StringVar(&f.WriteConfig, "write-config", "", "write default json config to given path and exit")

	def := DefaultInputConfig()
	usage := func(usage string, defVal interface{}) string {
		if _, ok := defVal.(string); ok {
			usage += fmt.Sprintf(" (default %q)", defVal)
		} else {
			usage += fmt.Sprintf(" (default %v)", defVal)
		}
		return usage
	}
	flag.IntVar(&f.Capacity, "capacity", 0, usage("cache capacity, entries", def.Capacity))
	flag.IntVar(&f.K, "k", 0, usage("reference history depth", def.K))
	flag.IntVar(&f.HotSize, "hot-size", 0, usage("hot working set size, keys", def.HotSize))
	flag.IntVar(&f.ScanSize, "scan-size", 0, usage("one-pass scan length, keys", def.ScanSize))
	flag.IntVar(&f.HotOps, "hot-ops", 0, usage("references per hot window", def.HotOps))
	flag.Int64Var(&f.Seed, "seed", 0, usage("workload seed", def.Seed))
	flag.StringVar(&f.LogDestination, "log-destination", "", usage("log destination: stderr, stdout or file path", def.LogDestination))
	flag.StringVar(&f.LogLevel, "log-level", "", usage("log level: debug, info, warn, error, fatal", def.LogLevel))
	flag.Parse()
	return f
}

func logDestination(dest string) (w io.Writer, err error) {
	switch strings.ToLower(dest) {
	case "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		w, err = os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	}
	return
}

// mergeConfigs overwrites def values with non zero override values.
func mergeConfigs(def, override *InputConfig) {
	defVal := reflect.ValueOf(def).Elem()
	overrideVal := reflect.ValueOf(override).Elem()
	for i, end := 0, defVal.NumField(); i < end; i++ {
		field := overrideVal.Field(i)
		if !util.IsZeroVal(field) {
			defVal.Field(i).Set(field)
		}
	}
}

func writeDefaultConf(l log.Logger, path string) {
	data, err := json.MarshalIndent(DefaultInputConfig(), "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		l.Fatal("Config write error: ", err)
	}
}
