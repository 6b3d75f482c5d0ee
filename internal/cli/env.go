// Package cli holds flag helpers shared by the lingonews commands.
package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// OverrideEnvVar names a .env file that wins over the --env flag.
const OverrideEnvVar = "LINGONEWS_ENV_FILE"

// EnvLoader loads a .env file chosen by --env, with LINGONEWS_ENV_FILE taking precedence.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath, description string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	return &EnvLoader{
		value:       fs.String("env", defaultPath, description),
		defaultPath: defaultPath,
	}
}

type envCandidate struct {
	path   string
	source string
}

// Load overlays the first readable candidate onto the process environment and returns its path.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	log.SetOutput(os.Stderr)

	requested := strings.TrimSpace(derefString(l.value))
	if requested == "" {
		requested = l.defaultPath
	}

	for _, candidate := range l.candidates(requested) {
		if err := godotenv.Overload(candidate.path); err != nil {
			if candidate.source == OverrideEnvVar {
				log.Printf("Warning: failed to load %s=%s", OverrideEnvVar, candidate.path)
			}
			continue
		}
		log.Printf("Loaded environment from %s: %s", candidate.source, candidate.path)
		return candidate.path, nil
	}

	return "", fmt.Errorf("failed to load env file from %s", requested)
}

func (l *EnvLoader) candidates(requested string) []envCandidate {
	var out []envCandidate
	if custom := strings.TrimSpace(os.Getenv(OverrideEnvVar)); custom != "" {
		out = append(out, envCandidate{path: custom, source: OverrideEnvVar})
	}
	out = append(out, envCandidate{path: requested, source: "--env"})

	if base := filepath.Base(requested); base != "" && base != requested {
		out = append(out, envCandidate{path: base, source: "basename fallback"})
	}
	if requested != l.defaultPath {
		out = append(out, envCandidate{path: l.defaultPath, source: "default"})
	}
	return out
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
