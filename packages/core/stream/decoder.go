package stream

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
	"github.com/tidwall/gjson"
)

// DecodeFile reads and decodes one spec result document.
func DecodeFile(path string) (*result.SpecResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	spec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	spec.File = path
	return spec, nil
}

// Decode parses a spec result document.
func Decode(data []byte) (*result.SpecResult, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	name := doc.Get("name")
	if !name.Exists() || name.String() == "" {
		return nil, fmt.Errorf("missing spec name")
	}

	frags, err := decodeFragments(doc.Get("fragments"))
	if err != nil {
		return nil, err
	}

	return &result.SpecResult{
		Name:      name.String(),
		Fragments: frags,
	}, nil
}

func decodeFragments(node gjson.Result) ([]*result.Fragment, error) {
	if !node.Exists() {
		return nil, nil
	}
	if !node.IsArray() {
		return nil, fmt.Errorf("fragments must be an array")
	}

	var frags []*result.Fragment
	var firstErr error
	node.ForEach(func(_, item gjson.Result) bool {
		f, err := decodeFragment(item)
		if err != nil {
			firstErr = err
			return false
		}
		frags = append(frags, f)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return frags, nil
}

func decodeFragment(item gjson.Result) (*result.Fragment, error) {
	kind := result.FragmentKind(item.Get("kind").String())
	name := item.Get("name").String()

	switch kind {
	case result.FragmentSuite, result.FragmentTest, result.FragmentText:
	default:
		return nil, fmt.Errorf("fragment %q: unknown kind %q", name, kind)
	}

	f := &result.Fragment{
		Kind:     kind,
		Name:     name,
		Duration: time.Duration(item.Get("durationMs").Int()) * time.Millisecond,
	}

	if kind == result.FragmentTest {
		r, err := decodeResult(item.Get("status"), item.Get("message").String())
		if err != nil {
			return nil, fmt.Errorf("fragment %q: %w", name, err)
		}
		f.Result = r
	}

	children, err := decodeFragments(item.Get("children"))
	if err != nil {
		return nil, err
	}
	f.Children = children
	return f, nil
}

// decodeResult turns a status node into a Result, preserving decoration
// nesting so classification still unwraps it.
func decodeResult(status gjson.Result, message string) (*result.Result, error) {
	if !status.Exists() {
		return nil, fmt.Errorf("test fragment missing status")
	}

	if status.IsObject() {
		inner := status.Get("decorated")
		if !inner.Exists() {
			return nil, fmt.Errorf("status object without decorated field")
		}
		r, err := decodeResult(inner, message)
		if err != nil {
			return nil, err
		}
		return result.Decorated(r), nil
	}

	switch result.Status(status.String()) {
	case result.StatusSuccess:
		return result.Success(), nil
	case result.StatusFailure:
		return result.Failure(errors.New(message)), nil
	case result.StatusError:
		return result.Error(errors.New(message)), nil
	case result.StatusSkipped:
		return result.Skipped(), nil
	case result.StatusPending:
		return result.Pending(), nil
	default:
		return nil, fmt.Errorf("unknown status %q", status.String())
	}
}
