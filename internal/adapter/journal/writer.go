package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"hivemind/internal/app/ports"
)

const (
	DefaultSegmentTicks = 10000
	filePrefix          = "ticks"
)

// Writer appends one compressed JSONL line per tick. A new segment file is
// started every SegmentTicks ticks.
type Writer struct {
	dir          string
	segmentTicks uint64

	mu      sync.Mutex
	segment uint64
	open    bool
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

var _ ports.TickJournal = (*Writer)(nil)

func NewWriter(dir string, segmentTicks uint64) *Writer {
	if segmentTicks == 0 {
		segmentTicks = DefaultSegmentTicks
	}
	return &Writer{dir: dir, segmentTicks: segmentTicks}
}

func (w *Writer) Append(_ context.Context, rec ports.TickRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	seg := rec.Tick / w.segmentTicks
	if !w.open || seg != w.segment {
		if err := w.rotateLocked(seg); err != nil {
			return err
		}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	// Flush a zstd block so readers see the line before the segment closes.
	return w.enc.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) rotateLocked(seg uint64) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(segmentPath(w.dir, seg), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.segment = seg
	w.open = true
	return nil
}

func (w *Writer) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.open = false
	return err1
}

func segmentPath(dir string, seg uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%06d.jsonl.zst", filePrefix, seg))
}
