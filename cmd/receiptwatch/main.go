package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"receiptscan/pkg/ocr"
	"receiptscan/pkg/receipt"
)

// global flags (parsed in main)
var verbose bool

func main() {
	dirFlag := flag.String("dir", "receipts", "directory to scan for receipt files")
	watch := flag.Bool("watch", false, "keep watching the directory for new files")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "verbose per-file logging")
	flag.Parse()

	engine := ocr.NewTesseractEngine()

	files := listReceiptFiles(*dirFlag)
	log.Printf("Scanning %d files (workers=%d)", len(files), effectiveWorkers(*workers))
	runWorkerPool(*dirFlag, engine, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(*dirFlag, engine, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func listReceiptFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isSupportedExt(name string) bool {
	// skip our own output to avoid reprocessing
	if strings.HasSuffix(name, ".json") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

func watchDirectory(dir string, engine ocr.Engine, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create || ev.Op&fsnotify.Write == fsnotify.Write {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	go runWorkerPool(dir, engine, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}

// runWorkerPool fans filenames out to workers. With no extra channel it
// drains the initial list and returns; with one it relays events forever.
func runWorkerPool(dir string, engine ocr.Engine, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processSingleFile(dir, name, engine)
			}
		}()
	}
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// processSingleFile parses one receipt file and writes <name>.json next to
// it. Existing output makes the file a no-op, so reprocessing is cheap.
func processSingleFile(dir, name string, engine ocr.Engine) {
	src := filepath.Join(dir, name)
	dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".json"
	if _, err := os.Stat(dst); err == nil {
		logV("SKIP output exists %s", name)
		return
	}

	text, err := readReceiptText(src, engine)
	if err != nil {
		log.Printf("ERROR read %s: %v", name, err)
		return
	}
	out := receipt.Parse(text, nil)
	payload, err := json.MarshalIndent(outcomePayload(out), "", "  ")
	if err != nil {
		log.Printf("ERROR encode %s: %v", name, err)
		return
	}
	if err := os.WriteFile(dst, payload, 0o644); err != nil {
		log.Printf("ERROR write %s: %v", dst, err)
		return
	}
	switch v := out.(type) {
	case receipt.Success:
		log.Printf("OK %s store=%q confidence=%.2f", name, v.Receipt.StoreName, receipt.Score(v.Receipt))
	case receipt.Partial:
		log.Printf("PARTIAL %s warnings=%d confidence=%.2f", name, len(v.Warnings), receipt.Score(v.Receipt))
	case receipt.Failure:
		log.Printf("FAIL %s: %s", name, v.Reason)
	}
}

func readReceiptText(path string, engine ocr.Engine) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return engine.Recognize(path)
}

func outcomePayload(out receipt.Outcome) map[string]any {
	switch v := out.(type) {
	case receipt.Success:
		return map[string]any{"status": "success", "receipt": v.Receipt, "confidence": receipt.Score(v.Receipt)}
	case receipt.Partial:
		return map[string]any{"status": "partial_success", "receipt": v.Receipt, "warnings": v.Warnings, "confidence": receipt.Score(v.Receipt)}
	case receipt.Failure:
		return map[string]any{"status": "failure", "reason": v.Reason}
	}
	return map[string]any{"status": "failure", "reason": "unknown outcome"}
}
