package log

import "sort"

// KV holds key-value pairs for one log record.
type KV map[string]any

// kvToArgs flattens KV maps into the alternating key, value slice that
// slog expects. Keys are sorted for deterministic output; on duplicate
// keys the earliest map wins.
func kvToArgs(keyVals ...KV) []any {
	merged := map[string]any{}
	for _, kv := range keyVals {
		for key, value := range kv {
			if _, taken := merged[key]; !taken {
				merged[key] = value
			}
		}
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, merged[key])
	}
	return args
}

// kvToArgsNs is kvToArgs with the namespace prepended as the first
// key-value pair.
func kvToArgsNs(namespace string, keyVals ...KV) []any {
	return append([]any{"ns", namespace}, kvToArgs(keyVals...)...)
}
