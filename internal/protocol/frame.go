package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxFrameSize bounds a single message body
const MaxFrameSize = 64 << 20

// ReadFrame reads one "Content-Length: N\r\n\r\n<body>" message
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" && contentLength < 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read frame header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		contentLength, err = strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Length: %w", err)
		}
	}

	if contentLength <= 0 {
		return nil, fmt.Errorf("missing or zero Content-Length")
	}
	if contentLength > MaxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit", contentLength)
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return body, nil
}

// WriteFrame writes body with its Content-Length header in a single Write
func WriteFrame(w io.Writer, body []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	buf := make([]byte, 0, len(header)+len(body))
	buf = append(buf, header...)
	buf = append(buf, body...)
	_, err := w.Write(buf)
	return err
}
