package core

import "time"

// Trace is a time-ordered sequence of window hierarchy snapshots
// captured from a running shell, plus the context needed to interpret
// it later: when it was taken and which checkout of the system under
// test produced it.
type Trace struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Collector   string    `json:"collector" db:"collector"`
	GitBranch   string    `json:"git_branch" db:"git_branch"`
	GitRepo     string    `json:"git_repo" db:"git_repo"`
	GitDirty    bool      `json:"git_dirty" db:"git_dirty"`
	GitHeadHash string    `json:"git_head_hash" db:"git_head_hash"`
	Tags        []string  `json:"tags" db:"tags"`
	Entries     []Entry   `json:"-"`
}

// Entry is one hierarchy snapshot within a trace. ElapsedNanos orders
// entries relative to the trace start; Windows holds the immutable
// window states in capture order (top of the stack first).
type Entry struct {
	ElapsedNanos int64          `json:"elapsed_nanos" db:"elapsed_nanos"`
	Windows      []*WindowState `json:"-"`
}

// LastEntry returns the final snapshot of the trace, the settled state
// diffing compares. Nil for an empty trace.
func (t *Trace) LastEntry() *Entry {
	if len(t.Entries) == 0 {
		return nil
	}
	return &t.Entries[len(t.Entries)-1]
}
