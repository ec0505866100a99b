package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"receiptscan/pkg/receipt"
)

// ErrNoText is returned when recognition produces no usable characters.
var ErrNoText = errors.New("ocr: no text recognized")

// Engine is the boundary between image handling and text parsing. Hosts
// feed the recognized string straight into receipt.Parse; the parser
// itself never sees an image.
type Engine interface {
	Recognize(path string) (string, error)
}

// TesseractEngine recognizes receipt photos with tesseract. Receipts need
// the full character set and the original line structure, so the client
// runs without a whitelist and with single-block segmentation, which keeps
// one printed line per output line.
type TesseractEngine struct {
	Language string
}

func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{Language: "eng"}
}

func (e *TesseractEngine) language() string {
	if e.Language == "" {
		return "eng"
	}
	return e.Language
}

// Recognize runs one pass over a cleaned variant of the image. If
// preparation fails the original file is used as-is.
func (e *TesseractEngine) Recognize(path string) (string, error) {
	prepared, cleanup, err := prepareImage(path)
	if err != nil {
		prepared = path
		cleanup = func() {}
	}
	defer cleanup()
	return e.recognizeFile(prepared)
}

// RecognizeBest runs both the raw image and the prepared variant through
// tesseract and keeps whichever text parses into the higher-confidence
// record. Thermal prints with low contrast often read better after
// binarization while crisp scans read better untouched.
func (e *TesseractEngine) RecognizeBest(path string) (string, error) {
	candidates := make([]string, 0, 2)

	if text, err := e.recognizeFile(path); err == nil {
		candidates = append(candidates, text)
	}
	if prepared, cleanup, err := prepareImage(path); err == nil {
		if text, err := e.recognizeFile(prepared); err == nil {
			candidates = append(candidates, text)
		}
		cleanup()
	}
	if len(candidates) == 0 {
		return "", ErrNoText
	}

	best := candidates[0]
	bestScore := -1.0
	for _, text := range candidates {
		if s := parseScore(text); s > bestScore {
			best, bestScore = text, s
		}
	}
	return best, nil
}

func (e *TesseractEngine) recognizeFile(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language()); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("set segmentation: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

// parseScore grades a recognition candidate by parsing it and scoring the
// resulting record. Unparseable text scores zero.
func parseScore(text string) float64 {
	switch out := receipt.Parse(text, nil).(type) {
	case receipt.Success:
		return receipt.Score(out.Receipt)
	case receipt.Partial:
		return receipt.Score(out.Receipt)
	default:
		return 0
	}
}
