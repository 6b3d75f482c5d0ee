package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"horse.fit/lingonews/internal/cli"
	"horse.fit/lingonews/internal/language"
	payloadschema "horse.fit/lingonews/internal/schema"
	"horse.fit/lingonews/internal/translation"
)

type translateResult struct {
	Provider   string                      `json:"provider"`
	Model      string                      `json:"model"`
	TargetLang string                      `json:"target_lang"`
	Translated []translation.ArticleOutput `json:"translated"`
}

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	input := fs.String("input", "-", "Path to a JSON request body ({\"articles\": [...], \"targetLang\": \"...\"}); - reads stdin")
	lang := fs.String("lang", "", "Target language, overrides targetLang in the request (for example: en, French)")
	providerName := fs.String("provider", "", "Translation provider name (openai or gemini)")
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

	payload, err := readInput(*input, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read input failed: %v\n", err)
		return 1
	}

	req, err := parseTranslateInput(payload, *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid request: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), normalizeTimeout(*timeout))
	defer cancel()

	rt, err := bootstrap(ctx, envLoader, *providerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.close()

	outputs := rt.translator.TranslateBatch(ctx, req.Articles, req.TargetLang)
	result := translateResult{
		Provider:   rt.translator.ProviderName(),
		Model:      rt.translator.ModelName(),
		TargetLang: req.TargetLang,
		Translated: outputs,
	}

	if format == outputFormatJSON {
		if err := printJSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON output: %v\n", err)
			return 1
		}
		return 0
	}

	if err := writeTable([]string{"#", "TITLE", "DESCRIPTION", "ERROR"}, translateRows(outputs)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table output: %v\n", err)
		return 1
	}
	fmt.Printf("provider=%s model=%s lang=%s total=%d failed=%d\n",
		result.Provider, result.Model, language.DisplayName(result.TargetLang), len(outputs), countFailed(outputs))
	return 0
}

func runTranslateText(args []string) int {
	fs := flag.NewFlagSet("translate-text", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	input := fs.String("input", "-", "Path to a text file; - reads stdin")
	lang := fs.String("lang", translation.DefaultTargetLang, "Target language (for example: en, French)")
	providerName := fs.String("provider", "", "Translation provider name (openai or gemini)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	payload, err := readInput(*input, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read input failed: %v\n", err)
		return 1
	}
	if strings.TrimSpace(string(payload)) == "" {
		fmt.Fprintln(os.Stderr, "input text is empty")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), normalizeTimeout(*timeout))
	defer cancel()

	rt, err := bootstrap(ctx, envLoader, *providerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.close()

	translated, err := rt.translator.TranslateParagraphs(ctx, string(payload), *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translate text failed: %v\n", err)
		return 1
	}
	fmt.Println(translated)
	return 0
}

// parseTranslateInput validates a request body. A non-empty lang flag replaces targetLang.
func parseTranslateInput(payload []byte, lang string) (*payloadschema.TranslateRequest, error) {
	req, err := payloadschema.ValidateTranslateRequest(payload)
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(lang); trimmed != "" {
		req.TargetLang = trimmed
	}
	if req.TargetLang == "" {
		req.TargetLang = translation.DefaultTargetLang
	}
	return req, nil
}

func translateRows(outputs []translation.ArticleOutput) [][]string {
	rows := make([][]string, 0, len(outputs))
	for i, output := range outputs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncateForTable(output.Title, 60),
			truncateForTable(output.Description, 60),
			truncateForTable(output.Error, 40),
		})
	}
	return rows
}

func countFailed(outputs []translation.ArticleOutput) int {
	failed := 0
	for _, output := range outputs {
		if output.Error != "" {
			failed++
		}
	}
	return failed
}
