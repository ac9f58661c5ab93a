package workflow

// StatusSet declares the lifecycle of one record type. Default is the status
// new records start in. DeleteStatus, when set, turns delete into a status
// flip onto that terminal value; when empty, delete removes the record.
type StatusSet struct {
	Values       []string
	Default      string
	DeleteStatus string
}

// Valid reports whether the given status belongs to the set.
func (s StatusSet) Valid(status string) bool {
	for _, v := range s.Values {
		if v == status {
			return true
		}
	}
	return false
}
