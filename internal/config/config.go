package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tirasundara/payment-ledger/internal/ledger"
)

// DefaultEnvFile is read when present; a missing file is not an error
const DefaultEnvFile = ".env"

// Config holds the settings of a ledger run.
// Precedence, lowest first: defaults, .env file, environment, flags, positional input file.
type Config struct {
	InputFile           string
	OutputFile          string
	Format              string
	PrettyPrint         bool
	DisputePolicy       string
	Workers             int
	ConcurrentIngestion bool

	LogLevel    string
	LogEncoding string
}

var supportedFormats = []string{"csv", "json", "table"}

// Load builds the configuration from envFile, the environment and the command-line args (without the program name).
// Usage text for -h goes to usageOut.
func Load(args []string, envFile string, usageOut io.Writer) (*Config, error) {
	env, err := readEnv(envFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputFile:           env.get("LEDGER_INPUT", ""),
		OutputFile:          env.get("LEDGER_OUTPUT", ""),
		Format:              env.get("LEDGER_FORMAT", "csv"),
		PrettyPrint:         env.getBool("LEDGER_PRETTY", true),
		DisputePolicy:       env.get("LEDGER_DISPUTE_POLICY", ledger.StrictPolicyName),
		Workers:             env.getInt("LEDGER_WORKERS", 1),
		ConcurrentIngestion: env.getBool("LEDGER_CONCURRENT_INGESTION", false),
		LogLevel:            env.get("LOG_LEVEL", "warn"),
		LogEncoding:         env.get("LOG_ENCODING", "json"),
	}

	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ledger [flags] transactions.csv\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.InputFile, "input", cfg.InputFile, "Path to the transactions CSV file (or pass it as the first argument)")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Path to output file (if empty, writes to stdout)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: "+strings.Join(supportedFormats, ", "))
	fs.BoolVar(&cfg.PrettyPrint, "pretty", cfg.PrettyPrint, "Pretty print JSON output")
	fs.StringVar(&cfg.DisputePolicy, "dispute-policy", cfg.DisputePolicy, "Dispute policy: strict tracks dispute state per transaction, lenient only checks the transaction exists")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of workers; 1 processes the feed sequentially, more partitions it by client")
	fs.BoolVar(&cfg.ConcurrentIngestion, "concurrent-ingestion", cfg.ConcurrentIngestion, "Parse the CSV in concurrent batches")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogEncoding, "log-encoding", cfg.LogEncoding, "Log encoding: json or console")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		cfg.InputFile = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return errors.New("transactions file path is required")
	}

	supported := false
	for _, f := range supportedFormats {
		if c.Format == f {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported output format: %s", c.Format)
	}

	if _, err := ledger.ParseDisputePolicy(c.DisputePolicy); err != nil {
		return err
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	return nil
}

// envSource resolves settings from the process environment first, then the .env file
type envSource map[string]string

func readEnv(path string) (envSource, error) {
	if path == "" {
		return envSource{}, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return envSource{}, nil
		}
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return values, nil
}

func (e envSource) get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := e[key]; v != "" {
		return v
	}
	return def
}

func (e envSource) getInt(key string, def int) int {
	if n, err := strconv.Atoi(e.get(key, "")); err == nil && n > 0 {
		return n
	}
	return def
}

func (e envSource) getBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(e.get(key, "")); err == nil {
		return b
	}
	return def
}
