package extension

import "fmt"

// drainChan discards all elements in the channel and returns when
// it is closed.
func drainChan(ch <-chan any) {
	if ch == nil {
		return
	}
	for range ch {
	}
}

// elementBytes converts a stream element into bytes. The second return
// value is false for element types the connectors do not know how to write.
func elementBytes(element any) ([]byte, bool) {
	switch v := element.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	case fmt.Stringer:
		return []byte(v.String()), true
	default:
		return nil, false
	}
}
