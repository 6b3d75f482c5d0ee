package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "languages":
		return runLanguages(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "translate-text":
		return runTranslateText(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "lingonews CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingonews <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health          Verify configuration and cache backend connectivity")
	fmt.Fprintln(os.Stderr, "  languages       List supported target languages")
	fmt.Fprintln(os.Stderr, "  translate       Translate a JSON article batch")
	fmt.Fprintln(os.Stderr, "  translate-text  Translate a text document paragraph by paragraph")
	fmt.Fprintln(os.Stderr, "  serve           Start Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"lingonews <command> -h\" for command-specific flags.")
}
