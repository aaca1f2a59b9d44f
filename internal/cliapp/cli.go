package cliapp

import (
	"flag"
	"io"
)

const versionString = "1.0.0"

type cliOptions struct {
	configPath string
	output     string
	ir         string
	verbose    bool
	watch      bool
	ui         bool
	history    int
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("cminify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "./cminify.toml", "Path to config file")
	fs.StringVar(&opts.output, "o", "", "Write the minified source to this path")
	fs.StringVar(&opts.ir, "ir", "", "Write the intermediate source to this path")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging and print symbol statistics")
	fs.BoolVar(&opts.watch, "watch", false, "Re-minify whenever the input changes")
	fs.BoolVar(&opts.ui, "ui", false, "Show a live dashboard while watching (implies -watch)")
	fs.IntVar(&opts.history, "history", 0, "Print the last N recorded runs of the input and exit")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	if opts.ui {
		opts.watch = true
	}
	return opts, nil
}
