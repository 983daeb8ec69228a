package nanodi

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envContainerName = "NANODI_CONTAINER_NAME"
	envLogLevel      = "NANODI_LOG_LEVEL"
)

// Reads .env files (missing files are ignored) and process environment
// and returns options they describe:
//
//	NANODI_CONTAINER_NAME - container name used in log records
//	NANODI_LOG_LEVEL      - debug | info | warn | error, logs to stderr as text
func ConfigFromEnv(files ...string) ([]ContainerOption, error) {
	env, err := readEnv(files)
	if err != nil {
		return nil, err
	}

	opts := make([]ContainerOption, 0, 2)

	if name := lookupEnv(env, envContainerName); name != "" {
		opts = append(opts, WithName(name))
	}

	if level := lookupEnv(env, envLogLevel); level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("bad %s value %q: %w", envLogLevel, level, err)
		}

		opts = append(opts, WithLogger(
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})),
		))
	}

	return opts, nil
}

// Binds every variable starting with prefix as a string constant
// under its full name.
// Values from later files override earlier ones,
// process environment overrides files.
// Registration error the container already has is returned as is, nothing gets bound.
func BindEnvironment(c Container, prefix string, files ...string) error {
	if err := c.Err(); err != nil {
		return err
	}

	env, err := readEnv(files)
	if err != nil {
		return err
	}

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, prefix) {
			env[key] = value
		}
	}

	for key, value := range env {
		if strings.HasPrefix(key, prefix) {
			c.BindConstant(key, value)
		}
	}

	return c.Err()
}

func readEnv(files []string) (map[string]string, error) {
	env := make(map[string]string)

	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}

		values, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", file, err)
		}

		for key, value := range values {
			env[key] = value
		}
	}

	return env, nil
}

func lookupEnv(env map[string]string, key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return env[key]
}
