package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the scan engine configuration
type Config struct {
	// Scan settings
	Workers      int      `mapstructure:"workers"`       // number of worker goroutines
	Exclude      []string `mapstructure:"exclude"`       // directory names to exclude
	HeaderPrefix int      `mapstructure:"header_prefix"` // bytes read for signature sniffing
	ScanDelay    int      `mapstructure:"scan_delay"`    // delay between files (ms), mainly for tests

	// Fingerprint settings
	SampleWindow string `mapstructure:"sample_window"` // sampled-fingerprint window size, e.g. "64K"
	HashChunk    string `mapstructure:"hash_chunk"`    // streaming-hash chunk size, e.g. "4M"

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // json, text, msgpack, "" = console
	OutputFile   string `mapstructure:"output_file"`   // output file path
}

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("workers", runtime.NumCPU()*2)
	v.SetDefault("exclude", []string{".git", ".snakemake", "node_modules", "tmp", ".nextflow"})
	v.SetDefault("header_prefix", 1024)
	v.SetDefault("scan_delay", 0)
	v.SetDefault("sample_window", "64K")
	v.SetDefault("hash_chunk", "4M")
	v.SetDefault("report_format", "")
	v.SetDefault("output_file", "")

	v.SetEnvPrefix("SEQSCAN")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SampleWindowBytes returns the sampled-fingerprint window size in bytes.
func (c *Config) SampleWindowBytes() int64 {
	if n := ParseSize(c.SampleWindow); n > 0 {
		return n
	}
	return 64 * 1024
}

// HashChunkBytes returns the streaming-hash chunk size in bytes.
func (c *Config) HashChunkBytes() int {
	if n := ParseSize(c.HashChunk); n > 0 {
		return int(n)
	}
	return 4 * 1024 * 1024
}

// ParseSize parses size string (e.g., "650K", "1M") to bytes
func ParseSize(sizeStr string) int64 {
	if len(sizeStr) == 0 {
		return 0
	}

	last := sizeStr[len(sizeStr)-1]
	var multiplier int64 = 1

	switch last {
	case 'K', 'k':
		multiplier = 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'G', 'g':
		multiplier = 1024 * 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	}

	var size int64
	fmt.Sscanf(sizeStr, "%d", &size)

	return size * multiplier
}
