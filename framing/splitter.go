package framing

import "bytes"

// Scanner incrementally locates one sentinel inside a stream of byte chunks.
//
// Contract (mirrors the chunk splitter contract): given an inbound chunk C,
// Feed must (1) locate the first occurrence of the sentinel in C, (2) return
// the bytes before it as pre (safe to route to whichever channel the current
// framing state implies), (3) consume the sentinel, (4) return the remainder
// as rest for the caller to recurse on under the next state. A sentinel that
// straddles two chunks is handled by holding back up to len(sentinel)-1
// trailing bytes across calls; Feed never requires the sentinel to land on a
// chunk boundary.
//
// A Scanner instance tracks carry state for exactly one sentinel value at a
// time. Callers switch sentinels (e.g. moving from AWAIT_FILE_START to
// RECEIVING_FILE) only immediately after a Feed call reports found==true,
// at which point carry is always empty — so Reset is safe to call with a
// new sentinel at that point.
type Scanner struct {
	sentinel []byte
	carry    []byte
}

// NewScanner returns a Scanner that looks for sentinel.
func NewScanner(sentinel Sentinel) *Scanner {
	return &Scanner{sentinel: []byte(sentinel)}
}

// Reset switches the Scanner to a new sentinel and drops any carried bytes.
// Called right after a Feed that reported found==true (see the Scanner doc
// comment) or before the first Feed call, nothing is lost; called at any
// other point, the held-back tail is discarded.
func (s *Scanner) Reset(sentinel Sentinel) {
	s.sentinel = []byte(sentinel)
	s.carry = nil
}

// Feed scans chunk for the active sentinel.
//
//   - If the sentinel is found: pre holds the bytes before it, rest holds
//     the bytes after it (both may be empty), found is true.
//   - If the sentinel is not found: pre holds every byte except the last
//     len(sentinel)-1 (all of them are held back when fewer are available);
//     that tail is retained internally whether or not it could begin a
//     sentinel, and is prepended to the next Feed call. rest is nil, found
//     is false.
//
// pre and rest alias either chunk or the Scanner's internal carry buffer;
// callers that need to retain the bytes past the next Feed call must copy
// them out first.
func (s *Scanner) Feed(chunk []byte) (pre []byte, rest []byte, found bool) {
	buf := chunk
	if len(s.carry) > 0 {
		buf = append(s.carry, chunk...)
		s.carry = nil
	}

	if idx := bytes.Index(buf, s.sentinel); idx >= 0 {
		pre = buf[:idx]
		rest = buf[idx+len(s.sentinel):]
		return pre, rest, true
	}

	keep := len(s.sentinel) - 1
	if keep < 0 {
		keep = 0
	}
	if keep > len(buf) {
		keep = len(buf)
	}
	flush := len(buf) - keep
	pre = buf[:flush]
	if keep > 0 {
		s.carry = append([]byte(nil), buf[flush:]...)
	}
	return pre, nil, false
}
