package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GenesisHash is the prev_hash for the first entry in a new audit trail.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Entry is one line in the hash-chained JSONL audit trail. All fields are
// scalars to guarantee deterministic json.Marshal field order for
// reproducible hashing.
type Entry struct {
	Timestamp  string `json:"ts"`
	Category   string `json:"category"`
	Reviewer   string `json:"reviewer"`
	ContextRef string `json:"context_ref"`
	Detail     string `json:"detail"`
	ForwardID  string `json:"forward_id"`
	Backlog    int    `json:"backlog"`
	PrevHash   string `json:"prev_hash"`
}

// Chain is an append-only JSONL audit trail with SHA-256 hash chaining.
// Each entry's prev_hash is the hash of the previous entry's JSON line,
// forming a tamper-evident chain.
type Chain struct {
	path     string
	file     *os.File
	prevHash string
	mu       sync.Mutex
}

// OpenChain opens (or creates) an audit trail file for appending.
// If the file already exists, it reads the last line to recover the chain tail.
func OpenChain(path string) (*Chain, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	prevHash := GenesisHash

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("audit: read existing trail: %w", err)
		}
		scanner := bufio.NewScanner(f)
		var lastLine []byte
		for scanner.Scan() {
			lastLine = make([]byte, len(scanner.Bytes()))
			copy(lastLine, scanner.Bytes())
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("audit: scan existing trail: %w", err)
		}
		if len(lastLine) > 0 {
			prevHash = HashLine(lastLine)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: open file: %w", err)
	}

	return &Chain{
		path:     path,
		file:     file,
		prevHash: prevHash,
	}, nil
}

// Record appends an Entry to the trail with hash chaining. It sets the
// entry's PrevHash and Timestamp (if empty), writes the line, and syncs.
func (c *Chain) Record(entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	}
	entry.PrevHash = c.prevHash

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}

	if _, err := c.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: write entry: %w", err)
	}

	if err := c.file.Sync(); err != nil {
		return fmt.Errorf("audit: sync: %w", err)
	}

	c.prevHash = HashLine(line)
	return nil
}

// Close flushes and closes the underlying file.
func (c *Chain) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.Close()
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}
