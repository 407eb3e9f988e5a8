// ABOUTME: Goroutine identity helper backing the worker-local in-collector flag
// ABOUTME: Parses the goroutine id from the runtime.Stack header line

package collector

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// curGID returns the calling goroutine's id. Go offers no goroutine-local
// storage, so the in-collector flag is modeled as "the id of the goroutine
// currently inside Collect"; every caller of InCollector compares its own
// id against it. The id is read from the first line of the stack header,
// which has the fixed form "goroutine N [state]:".
func curGID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	i := bytes.IndexByte(b, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
