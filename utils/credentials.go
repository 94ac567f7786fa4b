package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// placeholderKey is the value shipped in sample .env files
const placeholderKey = "your_api_key_here"

// APIKeyEnvVars are checked in order when no key is passed on the command line
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ResolveAPIKey returns the first usable key from the flag value and then
// the environment. Blank and placeholder values are skipped.
func ResolveAPIKey(flagValue string, getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	candidates := []string{flagValue}
	for _, name := range APIKeyEnvVars {
		candidates = append(candidates, getenv(name))
	}
	for _, key := range candidates {
		key = strings.TrimSpace(key)
		if key != "" && key != placeholderKey {
			return key
		}
	}
	return ""
}

// ValidateAPIKey checks that a key is configured
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" || key == placeholderKey {
		return fmt.Errorf("gemini API key not configured.\n%s", getSetupInstructions())
	}
	return nil
}

// MaskKey shows only the start and end of a key
func MaskKey(key string) string {
	if key == "" || key == placeholderKey {
		return "Not set or invalid"
	}
	if len(key) <= 12 {
		return strings.Repeat("*", len(key))
	}
	return key[:8] + "..." + key[len(key)-4:]
}

// getSetupInstructions returns the steps for creating a Gemini API key
func getSetupInstructions() string {
	steps := []string{
		"1. Go to https://aistudio.google.com/",
		"2. Sign in with your Google account",
		"3. Click 'Get API Key' in the left sidebar",
		"4. Create a new API key",
		"5. Copy the key (starts with 'AIza...')",
		"6. Add it to your .env file: GEMINI_API_KEY=your_key_here",
	}
	return strings.Join(steps, "\n")
}
