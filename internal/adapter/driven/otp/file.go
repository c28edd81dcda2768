package otp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"time"
)

const defaultPollInterval = time.Second

var codeInText = regexp.MustCompile(`\b[0-9]{6}\b`)

// File waits for a six digit code to appear in the file at Path, for example
// one written by an SMS forwarding hook.
type File struct {
	Path string
	// Interval between reads; defaults to one second.
	Interval time.Duration
}

// OTP polls the file until it holds a six digit code or ctx is done. A
// missing file is treated as not yet written.
func (f *File) OTP(ctx context.Context) (string, error) {
	interval := f.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	slog.Info("waiting for one-time password", "file", f.Path)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		code, err := f.scan()
		if err != nil {
			return "", err
		}
		if code != "" {
			return code, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *File) scan() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading OTP file %s: %w", f.Path, err)
	}
	return string(codeInText.Find(data)), nil
}
