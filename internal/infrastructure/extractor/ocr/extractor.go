package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, detail)
	}
	return stdout.Bytes(), nil
}

type Config struct {
	PdftoppmBin  string
	TesseractBin string
	DPI          int
	MaxPages     int
}

// Extractor rasterizes PDF pages with pdftoppm and recognizes them with
// tesseract. Page count is capped so a single upload cannot monopolize the
// host.
type Extractor struct {
	cfg    Config
	runner Runner
}

func New(cfg Config) *Extractor {
	return NewWithRunner(cfg, execRunner{})
}

func NewWithRunner(cfg Config, runner Runner) *Extractor {
	if cfg.PdftoppmBin == "" {
		cfg.PdftoppmBin = "pdftoppm"
	}
	if cfg.TesseractBin == "" {
		cfg.TesseractBin = "tesseract"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 25
	}
	return &Extractor{cfg: cfg, runner: runner}
}

func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	workDir, err := os.MkdirTemp("", "lda-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(inputPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write input pdf: %w", err)
	}

	prefix := filepath.Join(workDir, "page")
	_, err = e.runner.Run(ctx, e.cfg.PdftoppmBin,
		"-r", strconv.Itoa(e.cfg.DPI),
		"-png",
		"-f", "1",
		"-l", strconv.Itoa(e.cfg.MaxPages),
		inputPath,
		prefix,
	)
	if err != nil {
		return "", fmt.Errorf("rasterize pdf: %w", err)
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", fmt.Errorf("list page images: %w", err)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no pages rendered")
	}
	sort.Strings(pages)

	var parts []string
	for _, page := range pages {
		out, runErr := e.runner.Run(ctx, e.cfg.TesseractBin, page, "stdout")
		if runErr != nil {
			return "", fmt.Errorf("recognize %s: %w", filepath.Base(page), runErr)
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
