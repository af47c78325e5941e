package events

import (
	"encoding/json"
	"io"
)

// jsonEvent is the wire shape of one protocol event.
type jsonEvent struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Fingerprint        string `json:"fingerprint"`
	Selector           string `json:"selector"`
	Status             string `json:"status"`
	Duration           int64  `json:"duration"`
	Throwable          string `json:"throwable,omitempty"`
}

// JSONLWriter delivers events as one JSON object per line, the form
// host build tools ingest.
type JSONLWriter struct {
	enc *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{enc: json.NewEncoder(w)}
}

func (w *JSONLWriter) Handle(e Event) error {
	je := jsonEvent{
		FullyQualifiedName: e.FullyQualifiedName,
		Fingerprint:        string(e.Fingerprint),
		Selector:           e.Selector.TestName,
		Status:             string(e.Status),
		Duration:           e.Duration,
	}
	if e.Throwable != nil {
		je.Throwable = e.Throwable.Error()
	}
	return w.enc.Encode(je)
}
