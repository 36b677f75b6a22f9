package models

// DispatchResult counts per-recipient send outcomes for one processed batch.
type DispatchResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Add folds another result into this one.
func (r *DispatchResult) Add(other DispatchResult) {
	r.Success += other.Success
	r.Failed += other.Failed
}

// Total returns the number of recipients accounted for.
func (r DispatchResult) Total() int { return r.Success + r.Failed }
