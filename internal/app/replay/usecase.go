package replay

import (
	"context"
	"errors"
	"strings"

	"hivemind/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type UseCase struct {
	Journal ports.TickJournalReader
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.ToTick != 0 && req.ToTick < req.FromTick {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	colonyName := strings.TrimSpace(req.Colony)

	readLimit := limit
	if colonyName != "" {
		// filtering happens after the read
		readLimit = 0
	}
	records, err := u.Journal.Read(ctx, req.FromTick, req.ToTick, readLimit)
	if err != nil {
		return Response{}, err
	}
	if colonyName != "" {
		records = filterColony(records, colonyName)
	}
	if len(records) > limit {
		records = records[:limit]
	}
	if records == nil {
		records = []ports.TickRecord{}
	}
	return Response{Records: records, Summary: summarize(records)}, nil
}

func filterColony(records []ports.TickRecord, name string) []ports.TickRecord {
	out := make([]ports.TickRecord, 0, len(records))
	for _, rec := range records {
		for _, c := range rec.Colonies {
			if c.Name != name {
				continue
			}
			rec.Colonies = []ports.ColonyEntry{c}
			out = append(out, rec)
			break
		}
	}
	return out
}

func summarize(records []ports.TickRecord) Summary {
	s := Summary{FaultsByKind: map[string]int{}, StateChanges: []StateChange{}}
	last := map[string]string{}
	for _, rec := range records {
		s.Ticks++
		s.Assignments += rec.Assignments
		s.Removed += len(rec.Removed)
		s.Faults += len(rec.Faults)
		for _, f := range rec.Faults {
			s.FaultsByKind[f.Kind]++
		}
		for _, c := range rec.Colonies {
			prev, seen := last[c.Name]
			if seen && prev == c.State {
				continue
			}
			s.StateChanges = append(s.StateChanges, StateChange{Tick: rec.Tick, Colony: c.Name, From: prev, To: c.State})
			last[c.Name] = c.State
		}
	}
	return s
}
