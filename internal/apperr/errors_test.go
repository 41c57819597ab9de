package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mkoskenniemi/lakihaku/internal/apperr"
)

func TestFetchError_RetriesExhausted(t *testing.T) {
	err := &apperr.FetchError{URL: "http://example.test/doc", Status: 429, RetriesExhausted: true}

	if err.Error() != "fetch http://example.test/doc: status 429 after exhausting retries" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := &apperr.FetchError{URL: "http://example.test/doc", Status: 404}
	wrapped := fmt.Errorf("loading statute: %w", notFound)

	if !apperr.IsNotFound(wrapped) {
		t.Error("expected IsNotFound to see 404 through wrapping")
	}
	if apperr.IsNotFound(&apperr.FetchError{Status: 500}) {
		t.Error("500 should not be reported as not found")
	}
	if apperr.IsNotFound(errors.New("plain")) {
		t.Error("plain error should not be reported as not found")
	}
}

func TestExtractError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewExtract("docTitle not found")

	wrapped := fmt.Errorf("statute pipeline: %w", original)
	doubleWrapped := fmt.Errorf("ingest: %w", wrapped)

	var ee *apperr.ExtractError
	if !errors.As(doubleWrapped, &ee) {
		t.Fatal("errors.As should find ExtractError through double wrapping")
	}
	if ee.Message != "docTitle not found" {
		t.Errorf("expected 'docTitle not found', got %q", ee.Message)
	}
}

func TestExtractErrorWrap(t *testing.T) {
	inner := fmt.Errorf("xml syntax error")
	err := apperr.NewExtractWrap("unparsable body", inner)

	if err.Error() != "unparsable body: xml syntax error" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}
