package jobs

type Queue struct {
	Jobs          []Job  `json:"jobs"`
	RefreshedTick uint64 `json:"refreshed_tick"`
	Valid         bool   `json:"valid"`
	Signature     string `json:"signature,omitempty"`
}

// Stale applies the TTL rule for a queue observed at tick now.
func (q *Queue) Stale(ttl int, now uint64) bool {
	if q == nil || !q.Valid {
		return true
	}
	if ttl < 0 {
		return false
	}
	if ttl <= 1 {
		return now != q.RefreshedTick
	}
	return now < q.RefreshedTick || now-q.RefreshedTick >= uint64(ttl)
}

func (q *Queue) Find(id string) (*Job, bool) {
	if q == nil {
		return nil, false
	}
	for i := range q.Jobs {
		if q.Jobs[i].ID == id {
			return &q.Jobs[i], true
		}
	}
	return nil, false
}

// Board holds a colony's cached job queues by category.
type Board map[Category]*Queue

func (b Board) Queue(c Category) *Queue {
	q, ok := b[c]
	if !ok || q == nil {
		q = &Queue{}
		b[c] = q
	}
	return q
}

func (b Board) Invalidate(c Category) {
	if q, ok := b[c]; ok && q != nil {
		q.Valid = false
	}
}

func (b Board) Find(ref Ref) (*Job, bool) {
	q, ok := b[ref.Category]
	if !ok {
		return nil, false
	}
	return q.Find(ref.ID)
}

// Release clears the taken flag of the referenced job if it still exists.
func (b Board) Release(ref Ref) bool {
	j, ok := b.Find(ref)
	if !ok {
		return false
	}
	j.Taken = false
	return true
}

func (b Board) TakenCount() int {
	n := 0
	for _, q := range b {
		if q == nil {
			continue
		}
		for _, j := range q.Jobs {
			if j.Taken {
				n++
			}
		}
	}
	return n
}
