package builtin

// pair identifies one observation.
type pair struct{ language, parameter string }

// Ledger remembers the value recorded for every (language, parameter) pair
// in a run. It has a single owner: the transformer that is handed the ledger
// for the run. It is not safe for concurrent use.
type Ledger struct {
	seen map[pair]string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{seen: map[pair]string{}} }

// Check compares value against the recorded value for the pair: OK if the
// pair is new, Duplicate if it was recorded with the same text, Conflict
// otherwise. Check does not record anything.
func (l *Ledger) Check(languageID, parameterID, value string) (Verdict, string) {
	prev, ok := l.seen[pair{languageID, parameterID}]
	switch {
	case !ok:
		return OK, ""
	case prev == value:
		return Duplicate, prev
	default:
		return Conflict, prev
	}
}

// Record stores the value for the pair.
func (l *Ledger) Record(languageID, parameterID, value string) {
	l.seen[pair{languageID, parameterID}] = value
}

// Len returns the number of recorded pairs.
func (l *Ledger) Len() int { return len(l.seen) }
