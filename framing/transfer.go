package framing

import "io"

// WriteFramedBody copies every byte of src to dst, bracketed by the
// FILE_START/FILE_END sentinels, reusing a single scratch buffer for the
// whole transfer (GET download body on the server, PUT upload body on the
// client). Returns the number of payload bytes copied, not counting the
// sentinels themselves.
func WriteFramedBody(dst io.Writer, src io.Reader, opts ...Option) (int64, error) {
	if dst == nil {
		return 0, ErrNilWriter
	}
	if src == nil {
		return 0, ErrNilReader
	}
	o := resolve(opts)

	if _, err := dst.Write(FileStart); err != nil {
		return 0, err
	}

	buf := make([]byte, o.ChunkSize)
	var total int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return total, rerr
		}
	}

	if _, err := dst.Write(FileEnd); err != nil {
		return total, err
	}
	return total, nil
}

// ReadFramedBody reads from src and writes the body between FILE_START and
// FILE_END to dst.
//
// When awaitStart is true (PUT handler semantics), bytes read before the
// first FILE_START sentinel are discarded as pre-body noise. When false,
// the caller has already consumed FILE_START itself and every byte from src
// is body until FILE_END.
//
// Returns io.ErrUnexpectedEOF if src closes before FILE_END is seen — the
// caller is expected to treat that as an interrupted transfer (delete the
// partial output, report 451/local error).
func ReadFramedBody(dst io.Writer, src io.Reader, awaitStart bool, opts ...Option) (int64, error) {
	if dst == nil {
		return 0, ErrNilWriter
	}
	if src == nil {
		return 0, ErrNilReader
	}
	o := resolve(opts)
	buf := make([]byte, o.ChunkSize)

	if !awaitStart {
		return readBodyUntilEnd(dst, src, nil, buf)
	}

	start := NewScanner(FileStart)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			_, rest, found := start.Feed(buf[:n])
			if found {
				return readBodyUntilEnd(dst, src, rest, buf)
			}
			// pre-body noise before FILE_START is intentionally discarded.
		}
		if rerr != nil {
			if rerr == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, rerr
		}
	}
}

func readBodyUntilEnd(dst io.Writer, src io.Reader, seed []byte, buf []byte) (int64, error) {
	end := NewScanner(FileEnd)
	var total int64

	process := func(chunk []byte) (done bool, err error) {
		pre, _, found := end.Feed(chunk)
		if len(pre) > 0 {
			if _, werr := dst.Write(pre); werr != nil {
				return false, werr
			}
			total += int64(len(pre))
		}
		return found, nil
	}

	if len(seed) > 0 {
		done, err := process(seed)
		if err != nil {
			return total, err
		}
		if done {
			return total, nil
		}
	}

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			done, err := process(buf[:n])
			if err != nil {
				return total, err
			}
			if done {
				return total, nil
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				// The held-back tail never completed FILE_END, so it is body.
				if len(end.carry) > 0 {
					if _, werr := dst.Write(end.carry); werr != nil {
						return total, werr
					}
					total += int64(len(end.carry))
					end.carry = nil
				}
				return total, io.ErrUnexpectedEOF
			}
			return total, rerr
		}
	}
}
