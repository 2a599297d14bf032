package v1

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"companymap/internal/pipeline"
	"companymap/internal/service/records"
	"companymap/internal/service/workbook"
)

func TestStatusOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{&pipeline.MalformedSourceError{Cause: pipeline.ErrNoRows}, http.StatusUnprocessableEntity},
		{fmt.Errorf("tree: %w", &pipeline.EmptyResultError{}), http.StatusUnprocessableEntity},
		{&records.RecordNotFoundError{}, http.StatusNotFound},
		{workbook.ErrWorkbookMissing, http.StatusNotFound},
		{&records.ValidationError{Missing: []string{"Country"}}, http.StatusBadRequest},
		{&records.PersistenceError{Message: "boom"}, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusOf(tc.err); got != tc.want {
			t.Fatalf("statusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
