package engine

import "time"

// Positional tuple helpers mirroring the channel's value typing
// (int64 for INTEGER, string for TEXT, nil for NULL).

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	n, _ := v.(int64)
	return n
}

func asTime(v any) time.Time {
	t, err := time.Parse(time.RFC3339, asString(v))
	if err != nil {
		return time.Time{}
	}
	return t
}

// timestamp returns the value written to created_at/updated_at columns.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
