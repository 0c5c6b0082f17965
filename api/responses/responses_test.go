package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	"github.com/meradukaan/meradukaan-backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, http.StatusOK, map[string]string{"hello": "world"}, "Inventory fetched")

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if body.StatusCode != http.StatusOK || body.Message != "Inventory fetched" {
		t.Fatalf("unexpected envelope %+v", body)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
	if body.Code != "" {
		t.Fatalf("success envelope must not carry a code")
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInvalidReference, "Product not found").
		WithDetails(map[string]string{"product": "demo"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusNotFound {
		t.Fatalf("expected status 404 but got %d", got)
	}

	var body types.Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Code != string(pkgerrors.CodeInvalidReference) {
		t.Fatalf("unexpected code %s", body.Code)
	}
	if body.Message != "Product not found" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected envelope status %d", body.StatusCode)
	}
	if body.Data == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorHidesPersistenceDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodePersistence, errors.New("pq: connection reset"), "failed to save inventory").
		WithDetails(map[string]any{"table": "inventories"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}
	var body types.Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Message != "something went wrong" {
		t.Fatalf("expected public message, got %q", body.Message)
	}
	if body.Data != nil {
		t.Fatalf("details should be omitted for persistence errors")
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	w := httptest.NewRecorder()
	WriteError(context.Background(), logg, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", body.Code)
	}
	if !strings.Contains(buf.String(), "request.error") {
		t.Fatalf("expected error to be logged, got %s", buf.String())
	}
}
