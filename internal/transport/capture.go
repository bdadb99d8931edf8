package transport

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aerovent/ventcore/internal/logging"
)

// captureWriter appends base64-encoded frames to a capture file, one
// frame per line, matching the format the file-replay loop reads back
// (§4.4.2). A nil *captureWriter is valid and silently discards writes,
// so sessions opened without a capture path pay no I/O cost.
type captureWriter struct {
	mu   sync.Mutex
	file *os.File
}

// openCapture opens path for appending, creating it if necessary. An
// empty path disables capture entirely.
func openCapture(path string) (*captureWriter, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("transport: open capture file: %w", err)
	}
	return &captureWriter{file: f}, nil
}

func (c *captureWriter) write(frame []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	line := base64.StdEncoding.EncodeToString(frame) + "\n"
	if _, err := c.file.WriteString(line); err != nil {
		logging.Warn("failed to append to capture file")
	}
}

func (c *captureWriter) close() {
	if c == nil {
		return
	}
	_ = c.file.Close()
}

// ReadCaptureFrames reads a capture file line by line, decoding each
// base64 line into the raw framed bytes it represents.
func ReadCaptureFrames(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transport: open capture file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var frames [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		frame, err := base64.StdEncoding.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("transport: decode capture line: %w", err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("transport: scan capture file: %w", err)
	}
	return frames, nil
}
