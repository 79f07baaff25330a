package domain

// Changes itemizes the edits applied during a single cleaning pass.
// Counters measure matches removed or replaced, not length deltas.
type Changes struct {
	// RemovedInvisible counts stripped zero-width and bidi format characters.
	RemovedInvisible int `json:"removedInvisible"`
	// RemovedCtrl counts stripped ASCII control characters.
	RemovedCtrl int `json:"removedCtrl"`
	// RemovedCitations counts removed (oaicite:N){index=N} placeholders.
	RemovedCitations int `json:"removedCitations"`
	// Prettified counts punctuation replacements, folded exotic spaces,
	// rewritten line endings and NFKC compatibility folds.
	Prettified int `json:"prettified"`
	// CollapsedSpaces counts runs of two or more spaces collapsed to one.
	CollapsedSpaces int `json:"collapsedSpaces"`
	// Total is always the sum of the five counters above.
	Total int `json:"total"`
}

// Result holds the outcome of a cleaning pass.
type Result struct {
	Cleaned string
	Changes Changes
}
