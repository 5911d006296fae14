package parser

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/fyerfyer/aigsat/pkg/aig"
)

// parseBinary handles the "aig" variant. Primary inputs are implicit
// (literals 2, 4, ..., 2*numPIs, never written out); outputs are still
// written as ASCII decimal literals, one per line; AND gates are encoded
// as two LEB128-delta varints per gate instead of three decimal literals,
// per original_source/include/aiger_reader.hpp's binary path.
func parseBinary(name string, br *bufio.Reader, h *header) (*aig.AIG, error) {
	a := aig.New()

	for i := 0; i < h.numPIs; i++ {
		a.AddInput()
	}

	outLits := make([]int, 0, h.numPOs)
	for i := 0; i < h.numPOs; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, &ParseError{File: name, Msg: fmt.Sprintf("reading output %d: %v", i, err)}
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			return nil, &ParseError{File: name, Msg: fmt.Sprintf("output %d: non-numeric literal %q", i, line)}
		}
		outLits = append(outLits, n)
	}

	for i := 0; i < h.numAnds; i++ {
		gateIdx := 1 + h.numPIs + i
		lhs := gateIdx << 1

		delta0, err := readLEB128(br)
		if err != nil {
			return nil, &ParseError{File: name, Msg: fmt.Sprintf("AND %d: reading delta0: %v", i, err)}
		}
		delta1, err := readLEB128(br)
		if err != nil {
			return nil, &ParseError{File: name, Msg: fmt.Sprintf("AND %d: reading delta1: %v", i, err)}
		}

		rhs0 := lhs - int(delta0)
		rhs1 := rhs0 - int(delta1)

		if err := appendAnd(a, name, 0, lhs, rhs0, rhs1); err != nil {
			return nil, err
		}
	}

	for i, lit := range outLits {
		if err := validateLiteral(name, 0, a, lit); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		if err := a.AddOutput(aig.Literal(lit)); err != nil {
			return nil, &ParseError{File: name, Msg: err.Error()}
		}
	}

	return a, nil
}

// readLEB128 reads one unsigned little-endian-base-128 varint, the
// encoding AIGER's binary body uses for each AND gate's two deltas.
func readLEB128(br *bufio.Reader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift > 35 {
			return 0, fmt.Errorf("leb128 varint too long")
		}
	}
	return result, nil
}
