package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSingleAnd(t *testing.T) {
	// scenario 1: aag 3 2 0 1 1 / 2 / 4 / 6 / 6 2 4
	src := "aag 3 2 0 1 1\n2\n4\n6\n6 2 4\n"
	a, err := Parse("single-and.aag", strings.NewReader(src))
	require.NoError(t, err)

	require.Equal(t, 2, a.NumPIs())
	require.Equal(t, 1, a.NumPOs())
	require.Equal(t, 1, a.NumAnds())
}

func TestParseNegatedPIAsOutput(t *testing.T) {
	// scenario 2: aag 1 1 0 1 0 / 2 / 3
	src := "aag 1 1 0 1 0\n2\n3\n"
	a, err := Parse("negated-pi.aag", strings.NewReader(src))
	require.NoError(t, err)

	require.Equal(t, 1, a.NumPOs())
	require.True(t, a.POs()[0].Negated())
}

func TestParseConstantFalseOutput(t *testing.T) {
	// scenario 4: aag 0 0 0 1 0 / 0
	src := "aag 0 0 0 1 0\n0\n"
	a, err := Parse("const-false.aag", strings.NewReader(src))
	require.NoError(t, err)

	require.Equal(t, 0, a.NumPIs())
	require.Equal(t, 1, a.NumPOs())
	require.Equal(t, 0, a.POs()[0].Index())
}

func TestParseRejectsNonzeroLatchCount(t *testing.T) {
	src := "aag 2 1 1 1 0\n2\n4\n3\n"
	_, err := Parse("latch.aag", strings.NewReader(src))
	require.Error(t, err)
}

func TestParseRejectsMalformedHeader(t *testing.T) {
	_, err := Parse("bad.aag", strings.NewReader("not a header\n"))
	require.Error(t, err)
}

func TestParseRejectsUndefinedReference(t *testing.T) {
	src := "aag 2 1 0 1 1\n2\n4\n4 2 6\n"
	_, err := Parse("bad-ref.aag", strings.NewReader(src))
	require.Error(t, err)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("/nonexistent/path/does-not-exist.aag")
	require.Error(t, err)
}
