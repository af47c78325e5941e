package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSpec() *result.SpecResult {
	return &result.SpecResult{
		Name: "users API",
		Fragments: []*result.Fragment{
			{
				Kind: result.FragmentSuite,
				Name: "creation",
				Children: []*result.Fragment{
					{Kind: result.FragmentTest, Name: "creates a user", Result: result.Success(), Duration: 12 * time.Millisecond},
					{Kind: result.FragmentTest, Name: "rejects duplicates", Result: result.Failure(errors.New("expected 409, got 200"))},
				},
			},
			{Kind: result.FragmentTest, Name: "lists users", Result: result.Skipped()},
			{Kind: result.FragmentTest, Name: "audits changes", Result: result.Pending()},
			{Kind: result.FragmentTest, Name: "updates users", Result: result.Error(errors.New("connection refused"))},
		},
	}
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	require.NoError(t, f.FormatResult(sampleSpec()))
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.Contains(t, out, "TAP version 13\n1..5\n")
	assert.Contains(t, out, "ok 1 - users API > creates a user")
	assert.Contains(t, out, "not ok 2 - users API > rejects duplicates")
	assert.Contains(t, out, `  message: "expected 409, got 200"`)
	assert.Contains(t, out, "ok 3 - users API > lists users # SKIP")
	assert.Contains(t, out, "not ok 4 - users API > audits changes # TODO pending")
	assert.Contains(t, out, "  severity: error")
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	require.NoError(t, f.FormatResult(sampleSpec()))
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.Contains(t, out, `<testsuite name="users API" tests="5" failures="1" errors="1" skipped="2"`)
	assert.Contains(t, out, `message="expected 409, got 200" type="AssertionError"`)
	assert.Contains(t, out, `<skipped message="pending"`)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	require.NoError(t, f.FormatResult(sampleSpec()))
	require.NoError(t, f.Flush(time.Second))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 5, out.Summary.Total)
	assert.Equal(t, 1, out.Summary.Passed)
	assert.Equal(t, 1, out.Summary.Failed)
	assert.Equal(t, 1, out.Summary.Errors)
	assert.Equal(t, 1, out.Summary.Skipped)
	assert.Equal(t, 1, out.Summary.Pending)
	assert.Equal(t, float64(1000), out.Duration)
}

func TestFormattersRejectUnclassifiableResult(t *testing.T) {
	spec := &result.SpecResult{
		Name: "broken",
		Fragments: []*result.Fragment{
			{Kind: result.FragmentTest, Name: "odd", Result: &result.Result{Kind: result.Kind("odd")}},
		},
	}

	assert.Error(t, NewTAPFormatter(TAPWithWriter(&bytes.Buffer{})).FormatResult(spec))
	assert.Error(t, NewJUnitFormatter(JUnitWithWriter(&bytes.Buffer{})).FormatResult(spec))
	assert.Error(t, NewJSONFormatter(JSONWithWriter(&bytes.Buffer{})).FormatResult(spec))
}
