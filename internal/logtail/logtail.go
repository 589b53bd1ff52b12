// Package logtail reads the last lines of the application log for the
// Show Log menu action.
package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Tail returns at most n lines from the end of the file at path, oldest
// first. A missing file yields no lines and no error; n <= 0 yields nil.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	// Keep at most 2n lines in memory, compacting as we scan. One pass,
	// O(n) memory regardless of file size.
	lines := make([]string, 0, 2*n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(lines) == cap(lines) {
			copy(lines, lines[len(lines)-n:])
			lines = lines[:n]
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	if len(lines) == 0 {
		return nil, nil
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}
