package events

import "github.com/abdul-hamid-achik/specbridge/packages/core/result"

// Emitter builds protocol events for one task (one executed spec) and
// delivers them to a handler. Classification errors and handler errors
// propagate to the caller unmodified.
type Emitter struct {
	taskName string
	handler  Handler
}

func NewEmitter(taskName string, handler Handler) *Emitter {
	return &Emitter{taskName: taskName, handler: handler}
}

// Emit classifies one test fragment and delivers its event. Failure
// and error outcomes carry their cause as the event throwable.
func (e *Emitter) Emit(f *result.Fragment) error {
	status, err := result.Classify(f.Result)
	if err != nil {
		return err
	}

	ev := Event{
		FullyQualifiedName: e.taskName + "." + f.Name,
		Fingerprint:        FingerprintSpec,
		Selector:           Selector{TestName: f.Name},
		Status:             status,
		Duration:           NoDuration,
	}
	if status == result.StatusFailure || status == result.StatusError {
		ev.Throwable = result.CauseOf(f.Result)
	}
	return e.handler.Handle(ev)
}

// EmitAll walks a fragment tree and emits one event per test fragment,
// depth first, stopping at the first error.
func (e *Emitter) EmitAll(frags []*result.Fragment) error {
	for _, f := range frags {
		if f.Kind == result.FragmentTest {
			if err := e.Emit(f); err != nil {
				return err
			}
		}
		if err := e.EmitAll(f.Children); err != nil {
			return err
		}
	}
	return nil
}
