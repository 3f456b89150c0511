package moduli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/tuneinsight/lattigo-modchain/indexset"
	"github.com/tuneinsight/lattigo-modchain/utils/buffer"
)

// WriteTextTo writes m in the textual framing
// "[ n [ size0 set0 ] [ size1 set1 ] ... ]", one entry per line, the
// way a hand-written stream-insertion operator would. Sizes are printed
// with full float64 precision so the round-trip is exact modulo
// floating-point representation.
func (m *ModuliSizes) WriteTextTo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "[ %d\n", len(m.entries)); err != nil {
		return err
	}

	for _, e := range m.entries {
		if _, err := fmt.Fprintf(bw, "[ %s %s ]\n", strconv.FormatFloat(e.size, 'g', -1, 64), formatSet(e.set)); err != nil {
			return err
		}
	}

	if _, err := bw.WriteString("]\n"); err != nil {
		return err
	}

	return bw.Flush()
}

func formatSet(s indexset.IndexSet[int]) string {
	elems := s.Elements()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = strconv.Itoa(e)
	}
	return "[ " + strings.Join(parts, " ") + " ]"
}

// ReadTextFrom decodes a ModuliSizes written by WriteTextTo. It returns
// ErrMalformedStream if the framing brackets, the declared entry count,
// or an entry's fields do not parse.
func ReadTextFrom(r io.Reader) (*ModuliSizes, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	tok := newTokenizer(sc)

	if err := tok.expect("["); err != nil {
		return nil, err
	}

	n, err := tok.nextInt()
	if err != nil {
		return nil, err
	}

	entries := make([]sizeEntry, 0, n)
	for i := 0; i < n; i++ {
		if err := tok.expect("["); err != nil {
			return nil, err
		}

		sizeTok, err := tok.next()
		if err != nil {
			return nil, err
		}
		size, err := strconv.ParseFloat(sizeTok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d size %q: %v", ErrMalformedStream, i, sizeTok, err)
		}

		if err := tok.expect("["); err != nil {
			return nil, err
		}

		var set indexset.IndexSet[int]
		for {
			t, err := tok.next()
			if err != nil {
				return nil, err
			}
			if t == "]" {
				break
			}
			v, err := strconv.Atoi(t)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d index %q: %v", ErrMalformedStream, i, t, err)
			}
			set = set.Add(v)
		}

		if err := tok.expect("]"); err != nil {
			return nil, err
		}

		entries = append(entries, sizeEntry{size: size, set: set})
	}

	if err := tok.expect("]"); err != nil {
		return nil, err
	}

	return &ModuliSizes{entries: entries}, nil
}

// tokenizer splits a bufio.Scanner's whitespace-separated words into
// tokens for the textual framing's hand-rolled recursive-descent reader.
type tokenizer struct {
	sc *bufio.Scanner
}

func newTokenizer(sc *bufio.Scanner) *tokenizer {
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next() (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedStream, err)
		}
		return "", fmt.Errorf("%w: unexpected end of stream", ErrMalformedStream)
	}
	return t.sc.Text(), nil
}

func (t *tokenizer) expect(tok string) error {
	got, err := t.next()
	if err != nil {
		return err
	}
	if got != tok {
		return fmt.Errorf("%w: expected %q, got %q", ErrMalformedStream, tok, got)
	}
	return nil
}

func (t *tokenizer) nextInt() (int, error) {
	s, err := t.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: expected integer, got %q: %v", ErrMalformedStream, s, err)
	}
	return n, nil
}

// WriteBinaryTo writes m as: a little-endian entry count, a
// blake3-256 checksum of the record stream, then n records of
// (raw float64 size, uint32 index-set element count, that many uint64
// indices). The
// checksum lets ReadBinaryFrom distinguish truncation or bit-rot from a
// merely-unusual-but-valid table, which a bare length+payload framing
// cannot.
func (m *ModuliSizes) WriteBinaryTo(w io.Writer) (int64, error) {
	bw := asWriter(w)

	body := buffer.NewBufferSize(16 * len(m.entries))
	for _, e := range m.entries {
		if _, err := buffer.WriteFloat64(body, e.size); err != nil {
			return 0, err
		}
		elems := e.set.Elements()
		if _, err := buffer.WriteAsUint32(body, len(elems)); err != nil {
			return 0, err
		}
		u64 := make([]uint64, len(elems))
		for i, v := range elems {
			u64[i] = uint64(v)
		}
		if _, err := buffer.WriteUint64Slice(body, u64); err != nil {
			return 0, err
		}
	}

	payload := body.Bytes()
	sum := blake3.Sum256(payload)

	var total int64

	n, err := buffer.WriteAsUint32(bw, len(m.entries))
	if err != nil {
		return int64(n), err
	}
	total += int64(n)

	n, err = buffer.WriteBytes(bw, sum[:])
	if err != nil {
		return total + int64(n), err
	}
	total += int64(n)

	n, err = buffer.WriteBytes(bw, payload)
	if err != nil {
		return total + int64(n), err
	}
	total += int64(n)

	return total, bw.Flush()
}

// ReadBinaryFrom decodes a ModuliSizes written by WriteBinaryTo,
// returning ErrMalformedStream if the checksum does not match the
// decoded record stream or a record is truncated. Each record is
// self-delimiting (a float64, a uint32 set length, then that many
// uint64 words), so the n records are read by exact byte count rather
// than by slurping the stream's remainder, letting a ModuliSizes be
// decoded from the middle of a larger framing.
func ReadBinaryFrom(r io.Reader) (*ModuliSizes, error) {
	br := asReader(r)

	var count int
	if _, err := buffer.ReadAsUint32(br, &count); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStream, err)
	}

	var sum [32]byte
	if _, err := buffer.ReadBytes(br, sum[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStream, err)
	}

	hasher := blake3.New()
	body := io.TeeReader(br, hasher)

	entries := make([]sizeEntry, 0, count)
	for i := 0; i < count; i++ {
		var size float64
		if _, err := buffer.ReadFloat64(body, &size); err != nil {
			return nil, fmt.Errorf("%w: entry %d size: %v", ErrMalformedStream, i, err)
		}

		var setLen int
		if _, err := buffer.ReadAsUint32(body, &setLen); err != nil {
			return nil, fmt.Errorf("%w: entry %d set length: %v", ErrMalformedStream, i, err)
		}

		u64 := make([]uint64, setLen)
		if _, err := buffer.ReadUint64Slice(body, u64); err != nil {
			return nil, fmt.Errorf("%w: entry %d set: %v", ErrMalformedStream, i, err)
		}

		var set indexset.IndexSet[int]
		for _, v := range u64 {
			set = set.Add(int(v))
		}

		entries = append(entries, sizeEntry{size: size, set: set})
	}

	var got [32]byte
	hasher.Sum(got[:0])
	if got != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrMalformedStream)
	}

	return &ModuliSizes{entries: entries}, nil
}

func asWriter(w io.Writer) buffer.Writer {
	if bw, ok := w.(buffer.Writer); ok {
		return bw
	}
	return bufio.NewWriter(w)
}

func asReader(r io.Reader) buffer.Reader {
	if br, ok := r.(buffer.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}
