/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type TestConfig struct {
	BaseURL          string
	UseStubServer    bool
	RequestTimeout   time.Duration
	TestTimeout      time.Duration
	PollInterval     time.Duration
	ValidateContract bool
	DebugLogging     bool
	LogRequests      bool
	LogResponses     bool
}

// configParser accumulates parse failures so they can be reported together.
type configParser struct {
	problems []string
}

func (p *configParser) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		p.problems = append(p.problems, fmt.Sprintf("%s: %v", key, err))
		return defaultValue
	}

	if duration <= 0 {
		p.problems = append(p.problems, key+": must be positive")
		return defaultValue
	}

	return duration
}

func (p *configParser) boolean(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		p.problems = append(p.problems, fmt.Sprintf("%s: %q is not a boolean", key, value))
		return defaultValue
	}

	return boolValue
}

func (p *configParser) absoluteURL(key string) string {
	value := strings.TrimSuffix(os.Getenv(key), "/")
	if value == "" {
		return ""
	}

	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		p.problems = append(p.problems, fmt.Sprintf("%s: %q is not an absolute http(s) URL", key, value))
	}

	return value
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if any value cannot be parsed or a required one is missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	p := &configParser{}

	baseURL := p.absoluteURL("API_BASE_URL")

	config := &TestConfig{
		BaseURL:          baseURL,
		UseStubServer:    p.boolean("USE_STUB_SERVER", baseURL == ""),
		RequestTimeout:   p.duration("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:      p.duration("TEST_TIMEOUT", 2*time.Minute),
		PollInterval:     p.duration("POLL_INTERVAL", time.Second),
		ValidateContract: p.boolean("VALIDATE_CONTRACT", true),
		DebugLogging:     p.boolean("DEBUG_LOGGING", false),
		LogRequests:      p.boolean("LOG_REQUESTS", false),
		LogResponses:     p.boolean("LOG_RESPONSES", false),
	}

	if !config.UseStubServer && config.BaseURL == "" {
		p.problems = append(p.problems, "API_BASE_URL: required when USE_STUB_SERVER is false")
	}

	if len(p.problems) > 0 {
		return nil, fmt.Errorf("%w: %s. Please fix these environment variables or the .env file", ErrInvalidConfig, strings.Join(p.problems, "; "))
	}

	return config, nil
}

func loadEnvFile() {
	envPaths := []string{
		"../../../test/.env", // From test/api/suites directory
	}

	if path := os.Getenv("BOOK_API_ENV_FILE"); path != "" {
		envPaths = []string{path}
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
