package model

// ChangeKind classifies a difference between two runs.
type ChangeKind string

const (
	// ChangeAdded marks a function present only in the newer run.
	ChangeAdded ChangeKind = "added"
	// ChangeRemoved marks a function present only in the older run.
	ChangeRemoved ChangeKind = "removed"
	// ChangeModified marks a function whose value differs between runs.
	ChangeModified ChangeKind = "changed"
)

// Change is one difference between two runs.
// Old is empty for additions, New is empty for removals.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	File     string     `json:"file"`
	Function string     `json:"function"`
	Old      string     `json:"old,omitempty"`
	New      string     `json:"new,omitempty"`
}

// Diff is the result of comparing two record lists.
type Diff struct {
	Changes   []Change `json:"changes"`
	Unchanged int      `json:"unchanged"`
}

// Empty reports whether the runs are equal.
func (d Diff) Empty() bool {
	return len(d.Changes) == 0
}

// Count returns how many changes of the given kind the diff holds.
func (d Diff) Count(kind ChangeKind) int {
	n := 0
	for _, c := range d.Changes {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// occurrence identifies the n-th record with a given key, so a function
// listed twice in one report is matched against its counterpart by position.
type occurrence struct {
	key string
	n   int
}

func indexRecords(records []Record) ([]occurrence, map[occurrence]Record) {
	seen := make(map[string]int, len(records))
	order := make([]occurrence, 0, len(records))
	byKey := make(map[occurrence]Record, len(records))
	for _, r := range records {
		k := r.Key()
		o := occurrence{key: k, n: seen[k]}
		seen[k]++
		order = append(order, o)
		byKey[o] = r
	}
	return order, byKey
}

// Compare returns the changes from older to newer.
// Changes follow the order of newer, then removed functions in the order of older.
func Compare(older, newer []Record) Diff {
	oldOrder, oldByKey := indexRecords(older)
	newOrder, newByKey := indexRecords(newer)

	diff := Diff{Changes: make([]Change, 0)}

	for _, o := range newOrder {
		cur := newByKey[o]
		prev, ok := oldByKey[o]
		switch {
		case !ok:
			diff.Changes = append(diff.Changes, Change{
				Kind: ChangeAdded, File: cur.File, Function: cur.Function, New: cur.Value,
			})
		case prev.Value != cur.Value:
			diff.Changes = append(diff.Changes, Change{
				Kind: ChangeModified, File: cur.File, Function: cur.Function, Old: prev.Value, New: cur.Value,
			})
		default:
			diff.Unchanged++
		}
	}

	for _, o := range oldOrder {
		if _, ok := newByKey[o]; ok {
			continue
		}
		prev := oldByKey[o]
		diff.Changes = append(diff.Changes, Change{
			Kind: ChangeRemoved, File: prev.File, Function: prev.Function, Old: prev.Value,
		})
	}

	return diff
}
