//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"party-lab/domain"
)

// LabelProvider produces display content for one answer option.
// It has no side effects and is assumed to always succeed.
type LabelProvider interface {
	NextAnswerLabel() string
}

// Publisher fans a session snapshot out to the subscribers whose
// current session matches the snapshot.
type Publisher interface {
	Publish(snap domain.SessionSnapshot)
}

// GraceManager gives a disconnected user a reconnect window before
// evicting them from their session and the registry.
type GraceManager interface {
	Disconnected(id domain.UserID)
	Reconnected(id domain.UserID)
}

// Worker is a long-running task run under the Supervisor. It does
// not protect itself; panic recovery and restarts are the
// supervisor's job.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
