// Package otp provides the sources a two-factor login reads its one-time
// password from.
package otp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/ericfisherdev/govenmo/internal/domain/port/driven"
)

var (
	// Compile-time checks that both sources implement driven.OTPSource.
	_ driven.OTPSource = (*Console)(nil)
	_ driven.OTPSource = (*File)(nil)

	sixDigits = regexp.MustCompile(`^[0-9]{6}$`)
)

// ErrConsoleClosed is returned by OTP after Close.
var ErrConsoleClosed = errors.New("otp console closed")

// Console prompts for the code on Out and reads it from In. Input is not
// touched until the first OTP call. From then on a goroutine reads lines
// ahead of the callers; Close stops it once its pending read returns.
type Console struct {
	in  io.Reader
	out io.Writer

	mu        sync.Mutex
	start     sync.Once
	lines     chan scanResult
	done      chan struct{}
	closeOnce sync.Once
}

type scanResult struct {
	line string
	err  error
}

// NewConsole creates a Console reading lines from in and writing prompts to
// out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    in,
		out:   out,
		lines: make(chan scanResult),
		done:  make(chan struct{}),
	}
}

// Close releases the reader goroutine and fails pending and later OTP calls
// with ErrConsoleClosed. It does not close In.
func (c *Console) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// scan feeds lines until the input ends. It outlives a canceled OTP call so
// a later call picks up where the last one stopped.
func (c *Console) scan() {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if !c.send(scanResult{line: scanner.Text()}) {
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	if c.send(scanResult{err: err}) {
		close(c.lines)
	}
}

// send hands res to an OTP call, giving up when the console is closed.
func (c *Console) send(res scanResult) bool {
	select {
	case c.lines <- res:
		return true
	case <-c.done:
		return false
	}
}

// OTP prompts until a six digit code is entered. It returns early when ctx is
// done or the input ends.
func (c *Console) OTP(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
		return "", ErrConsoleClosed
	default:
	}
	c.start.Do(func() { go c.scan() })

	prompt := "Enter the one-time password sent to your phone: "
	for {
		if _, err := fmt.Fprint(c.out, prompt); err != nil {
			return "", fmt.Errorf("writing prompt: %w", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-c.done:
			return "", ErrConsoleClosed
		case res, ok := <-c.lines:
			if !ok {
				return "", fmt.Errorf("reading one-time password: %w", io.EOF)
			}
			if res.err != nil {
				return "", fmt.Errorf("reading one-time password: %w", res.err)
			}
			code := strings.TrimSpace(res.line)
			if sixDigits.MatchString(code) {
				return code, nil
			}
		}
		prompt = "The code must be 6 digits. Try again: "
	}
}
