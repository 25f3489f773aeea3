package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"hivemind/internal/app/ports"
)

type Reader struct {
	dir string
}

var _ ports.TickJournalReader = Reader{}

func NewReader(dir string) Reader {
	return Reader{dir: dir}
}

// Read returns records with fromTick <= tick <= toTick in tick order, at most
// limit of them. toTick 0 means no upper bound.
func (r Reader) Read(ctx context.Context, fromTick, toTick uint64, limit int) ([]ports.TickRecord, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, filePrefix+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var out []ports.TickRecord
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, err := readSegment(path, func(rec ports.TickRecord) bool {
			if rec.Tick < fromTick {
				return true
			}
			if toTick != 0 && rec.Tick > toTick {
				return false
			}
			out = append(out, rec)
			return limit <= 0 || len(out) < limit
		})
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return out, nil
}

// readSegment feeds every record of one file to visit until it returns false.
// A segment still being written ends at its last flushed block.
func readSegment(path string, visit func(ports.TickRecord) bool) (stopped bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return false, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var rec ports.TickRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return false, err
		}
		if !visit(rec) {
			return true, nil
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return false, nil
}
