package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/lingonews/internal/cli"
	"horse.fit/lingonews/internal/langdetect"
	"horse.fit/lingonews/internal/language"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 15*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), normalizeTimeout(*timeout))
	defer cancel()

	rt, err := bootstrap(ctx, envLoader, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}
	defer rt.close()

	fmt.Printf(
		"status=ok env=%s default_provider=%s provider=%s model=%s providers=%v cache_backend=%s cache_ttl=%s detectable=%s\n",
		rt.cfg.Environment,
		rt.registry.DefaultProvider(),
		rt.generator.Name(),
		rt.generator.ModelName(),
		rt.registry.ProviderNames(),
		rt.cfg.NormalizedCacheBackend(),
		rt.cfg.CacheTTL(),
		strings.Join(detectableLanguages(), ","),
	)
	return 0
}

// detectableLanguages lists the known language codes the source detector can recognize.
func detectableLanguages() []string {
	var codes []string
	for _, info := range language.Known() {
		if langdetect.Supported(info.Code) {
			codes = append(codes, info.Code)
		}
	}
	return codes
}
