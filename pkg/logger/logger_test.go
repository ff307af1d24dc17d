package logger

import (
	"sync"
	"testing"

	"Minerva_1.0/internal/models"
)

func TestWithError_DoesNotMutateReceiver(t *testing.T) {
	base := New("test_service", "trace-1", "user-1")
	derived := base.WithError(models.ErrorInfo{Message: "boom"})

	if derived == base {
		t.Fatal("WithError must return a new Logger, not the receiver")
	}
	if _, ok := base.entry.Data["error"]; ok {
		t.Error("receiver permanently gained the error field")
	}
	if _, ok := derived.entry.Data["error"]; !ok {
		t.Error("derived logger is missing the error field")
	}
	if base.entry.Data["service_name"] != "test_service" {
		t.Error("base fields lost from the receiver")
	}
	if derived.entry.Data["service_name"] != "test_service" {
		t.Error("base fields not inherited by the derived logger")
	}
}

func TestWith_DerivationsAreIndependent(t *testing.T) {
	base := New("test_service", "trace-1", "")
	withReq := base.WithRequest(models.RequestInfo{Method: "GET", Path: "/api/v1/sheets"})
	withPayload := base.WithPayload(map[string]interface{}{"rows": 5})

	if _, ok := withReq.entry.Data["payload"]; ok {
		t.Error("payload field leaked into the request-derived logger")
	}
	if _, ok := withPayload.entry.Data["request_info"]; ok {
		t.Error("request field leaked into the payload-derived logger")
	}
	if _, ok := base.entry.Data["request_info"]; ok {
		t.Error("receiver mutated by WithRequest")
	}
}

func TestWith_SafeForConcurrentUse(t *testing.T) {
	base := New("test_service", "trace-1", "")
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l := base.WithError(models.ErrorInfo{Message: "e", Type: "execution_error"})
			if _, ok := l.entry.Data["error"]; !ok {
				t.Errorf("goroutine %d: derived logger missing its field", n)
			}
		}(i)
	}
	wg.Wait()
	if _, ok := base.entry.Data["error"]; ok {
		t.Error("shared logger mutated under concurrent derivation")
	}
}
