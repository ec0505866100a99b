package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"receiptscan/pkg/ocr"
	"receiptscan/pkg/receipt"
)

// parsereceipt parses a single receipt file (.txt or image) and prints the
// outcome as JSON. Exit code 1 means the input could not be parsed.
func main() {
	best := flag.Bool("best", false, "OCR both raw and prepared image, keep the better read")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-best] <receipt file>\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}
	path := flag.Arg(0)

	text, err := readInput(path, *best)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	out := receipt.Parse(text, nil)
	payload := map[string]any{}
	exit := 0
	switch v := out.(type) {
	case receipt.Success:
		payload["status"] = "success"
		payload["receipt"] = v.Receipt
		payload["confidence"] = receipt.Score(v.Receipt)
	case receipt.Partial:
		payload["status"] = "partial_success"
		payload["receipt"] = v.Receipt
		payload["warnings"] = v.Warnings
		payload["confidence"] = receipt.Score(v.Receipt)
	case receipt.Failure:
		payload["status"] = "failure"
		payload["reason"] = v.Reason
		exit = 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.Fatalf("encode: %v", err)
	}
	os.Exit(exit)
}

func readInput(path string, best bool) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	engine := ocr.NewTesseractEngine()
	if best {
		return engine.RecognizeBest(path)
	}
	return engine.Recognize(path)
}
