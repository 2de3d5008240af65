package audit

// TimestampFormat is the layout used in audit entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Entry is one line in the hash-chained JSONL audit log.
// All fields are scalars (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp  string  `json:"ts"`
	DecisionID string  `json:"decision_id"`
	ActionType string  `json:"action_type"`
	Actor      string  `json:"actor"`
	Decision   string  `json:"decision"`
	Severity   string  `json:"severity"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
	PrevHash   string  `json:"prev_hash"`
}
