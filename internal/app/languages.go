package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/lingonews/internal/translation"
)

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	viewer := fs.Bool("viewer", false, "Include the \"original\" viewer choice")
	formatRaw := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	format, err := parseOutputFormat(*formatRaw, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	options := translation.TargetLanguageOptions()
	if *viewer {
		options = translation.ViewerLanguageOptions()
	}

	if format == outputFormatJSON {
		if err := printJSON(options); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON output: %v\n", err)
			return 1
		}
		return 0
	}

	if err := writeTable([]string{"CODE", "LABEL", "NATIVE"}, languageRows(options)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table output: %v\n", err)
		return 1
	}
	return 0
}

func languageRows(options []translation.LanguageOption) [][]string {
	rows := make([][]string, 0, len(options))
	for _, option := range options {
		rows = append(rows, []string{option.Code, option.Label, option.Native})
	}
	return rows
}
