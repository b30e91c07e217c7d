package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// must retrieves the value of a required environment variable and fails
// when it is unset or empty.
func must(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return v, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envReader reads typed variables.  A malformed value is recorded and the
// default is used, so every bad variable is reported at once by Err.
type envReader struct {
	errs []error
}

// Int parses key as a decimal integer.
func (r *envReader) Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return def
	}
	return n
}

// Bool parses key with strconv.ParseBool.
func (r *envReader) Bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a boolean, got %q", key, v))
		return def
	}
	return b
}

// Duration parses key with time.ParseDuration, e.g. "15s".
func (r *envReader) Duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a duration, got %q", key, v))
		return def
	}
	return d
}

// Err joins every parse failure seen so far.
func (r *envReader) Err() error { return errors.Join(r.errs...) }
