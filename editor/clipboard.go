package editor

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var ErrClipboardEmpty = errors.New("editor: clipboard is empty")

// Clipboard carries copied entities between Copy and Paste.
type Clipboard interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// MemoryClipboard keeps the copied data in process.
type MemoryClipboard struct {
	mu   sync.Mutex
	data []byte
}

func (m *MemoryClipboard) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) == 0 {
		return nil, ErrClipboardEmpty
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryClipboard) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

// SystemClipboard uses the desktop clipboard as text, so copied entities can be
// pasted into another editor window.
type SystemClipboard struct{}

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// NewSystemClipboard initializes the desktop clipboard. It fails on systems
// without one, in which case callers fall back to MemoryClipboard.
func NewSystemClipboard() (SystemClipboard, error) {
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	return SystemClipboard{}, clipboardErr
}

func (SystemClipboard) Read() ([]byte, error) {
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return nil, ErrClipboardEmpty
	}
	return data, nil
}

func (SystemClipboard) Write(data []byte) error {
	clipboard.Write(clipboard.FmtText, data)
	return nil
}
