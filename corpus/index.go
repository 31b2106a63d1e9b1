package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aluiziolira/go-corpus-crawler/models"
)

// WriteIndex persists the sequence-number to URL mapping, one tab-separated
// line per entry in ascending sequence order. Any prior index is overwritten;
// an empty entries slice produces an empty file with no trailing newline.
func WriteIndex(path string, entries []models.CorpusEntry) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, entry := range entries {
		if _, err := w.WriteString(strconv.Itoa(entry.Seq) + "\t" + entry.URL + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("write index entry %d: %w", entry.Seq, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush index file: %w", err)
	}
	return f.Close()
}

// WriteURLList persists the collected URL list, one URL per line in
// collection order. It is written before downloading begins so the discovery
// phase is captured independently of download success.
func WriteURLList(path string, urls []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create url list file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, u := range urls {
		if _, err := w.WriteString(u + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("write url list entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush url list file: %w", err)
	}
	return f.Close()
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
