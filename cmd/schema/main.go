// schema writes json schema of the feedtriage config, used by go:generate in pkg/config.
// With --check it compares generated schema with the existing file and fails if they differ.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/umputun/feedtriage/pkg/config"
)

// Opts with schema generator options
type Opts struct {
	Check bool `long:"check" description:"verify existing schema file is up to date"`
	Args  struct {
		Output string `positional-arg-name:"output" default:"schema.json"`
	} `positional-args:"yes"`
}

func main() {
	var opts Opts
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := generate(opts.Args.Output, opts.Check); err != nil {
		log.Fatalf("schema: %v", err)
	}
}

// errStale returned in check mode when the schema file differs from the config structs
var errStale = errors.New("schema file is out of date, run go generate ./pkg/config")

func generate(path string, check bool) error {
	schema, err := config.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if check {
		existing, err := os.ReadFile(path) //nolint:gosec // path from command line
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if !bytes.Equal(bytes.TrimSpace(existing), bytes.TrimSpace(data)) {
			return fmt.Errorf("%s: %w", path, errStale)
		}
		fmt.Printf("schema %s is up to date\n", path)
		return nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("schema generated at %s\n", path)
	return nil
}
