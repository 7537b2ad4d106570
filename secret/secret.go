package secret

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoSecret is returned by a Source that has nothing to offer.
var ErrNoSecret = errors.New("no secret available")

// Secret is a mnemonic held in a buffer that can be zeroed.
type Secret struct {
	buf []byte
}

func NewSecret(b []byte) *Secret {
	return &Secret{buf: bytes.TrimSpace(b)}
}

func (s *Secret) String() string {
	return string(s.buf)
}

// Wipe zeroes the buffer.
func (s *Secret) Wipe() {
	if s == nil {
		return
	}
	for i := range s.buf {
		s.buf[i] = 0
	}
	s.buf = nil
}

type Source interface {
	Mnemonic(ctx context.Context) (*Secret, error)
}

// EnvSource reads the mnemonic from an environment variable and unsets it.
type EnvSource struct {
	Name string
}

func (s EnvSource) Mnemonic(_ context.Context) (*Secret, error) {
	val, ok := os.LookupEnv(s.Name)
	if !ok || strings.TrimSpace(val) == "" {
		return nil, fmt.Errorf("env %s: %w", s.Name, ErrNoSecret)
	}
	_ = os.Unsetenv(s.Name)
	return NewSecret([]byte(val)), nil
}

// FileSource reads the mnemonic from a file readable by its owner only.
type FileSource struct {
	Path string
}

func (s FileSource) Mnemonic(_ context.Context) (*Secret, error) {
	if s.Path == "" {
		return nil, ErrNoSecret
	}
	info, err := os.Stat(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", s.Path, ErrNoSecret)
		}
		return nil, err
	}
	if info.Mode().Perm()&0o077 != 0 {
		return nil, fmt.Errorf("mnemonic file %s is accessible by group or others (mode %04o)", s.Path, info.Mode().Perm())
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return NewSecret(b), nil
}

// PromptSource asks on a terminal without echo.
type PromptSource struct {
	In     *os.File
	Out    io.Writer
	Prompt string
}

func (s PromptSource) Mnemonic(_ context.Context) (*Secret, error) {
	in := s.In
	if in == nil {
		in = os.Stdin
	}
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal: %w", ErrNoSecret)
	}
	out := s.Out
	if out == nil {
		out = os.Stderr
	}
	prompt := s.Prompt
	if prompt == "" {
		prompt = "Enter mnemonic: "
	}
	_, _ = fmt.Fprint(out, prompt)
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, ErrNoSecret
	}
	return NewSecret(b), nil
}

// Chain tries each source in order and returns the first secret found.
type Chain []Source

func (c Chain) Mnemonic(ctx context.Context) (*Secret, error) {
	for _, src := range c {
		s, err := src.Mnemonic(ctx)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrNoSecret) {
			return nil, err
		}
	}
	return nil, ErrNoSecret
}

// Static serves a fixed mnemonic. Meant for tests and tools that already hold one.
type Static string

func (s Static) Mnemonic(_ context.Context) (*Secret, error) {
	if strings.TrimSpace(string(s)) == "" {
		return nil, ErrNoSecret
	}
	return NewSecret([]byte(s)), nil
}

// WithSecret hands the mnemonic to fn and wipes it when fn returns.
func WithSecret(ctx context.Context, src Source, fn func(mnemonic string) error) error {
	if src == nil {
		return ErrNoSecret
	}
	s, err := src.Mnemonic(ctx)
	if err != nil {
		return err
	}
	defer s.Wipe()
	return fn(s.String())
}
