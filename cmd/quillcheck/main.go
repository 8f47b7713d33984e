package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quillhq/quill/internal/check"
)

func main() {
	var serviceURL string
	var timeout time.Duration
	var verbose bool

	fs := flag.NewFlagSet("quillcheck", flag.ExitOnError)
	fs.StringVar(&serviceURL, "url", "", "base URL of the posts API under test")
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	fs.BoolVar(&verbose, "verbose", false, "announce each scenario before it runs")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %s\n", err)
		os.Exit(1)
	}
	if serviceURL == "" {
		fmt.Fprintln(os.Stderr, "--url is required")
		os.Exit(1)
	}

	client := check.NewClient(serviceURL, timeout)
	rep := check.ConsoleReporter{Out: os.Stdout, Verbose: verbose}

	fmt.Printf("Checking posts API at %s\n\n", serviceURL)
	results := check.RunSuite(context.Background(), client, rep)
	if !results.OK() {
		os.Exit(1)
	}
}
