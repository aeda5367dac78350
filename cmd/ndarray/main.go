// Package main provides the ndarray CLI: it builds a tensor from a literal,
// reports its inferred shape and prints the selections made by index keys.
//
// Usage:
//
//	ndarray [flags] LITERAL [KEY...]
//	ndarray version
//
// LITERAL is a nested list in JSON/YAML flow syntax, e.g. '[[1, 2, 3], [4, 5, 6]]'.
// KEY uses the textual key syntax: "1", "0:2", ":", "[1, 0:2]".
//
// Example:
//
//	ndarray -dtype=int64 -op=mul -operand=2 '[[1, 2, 3], [4, 5, 6]]' 1 '[:, 2]'
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const version = "v0.1.0"

func main() {
	klog.InitFlags(nil)
	cfg := registerFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] LITERAL [KEY...]\n       %s version\n\nFlags:\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(cfg, flag.Args(), os.Stdout); err != nil {
		klog.Errorf("%+v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

func run(cfg *config, args []string, out io.Writer) error {
	if len(args) == 1 && args[0] == "version" {
		_, err := fmt.Fprintf(out, "ndarray %s\n", version)
		return err
	}
	if len(args) == 0 {
		return errors.New("missing LITERAL argument, see -help")
	}
	report, err := inspect(cfg, args[0], args[1:])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, report.Render())
	return err
}
