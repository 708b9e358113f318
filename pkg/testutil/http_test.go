package testutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	id "zoopito/pkg/domain"
	"zoopito/pkg/requestcontext"
)

func TestResponseAssertionsShareOneBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"conflict","error_description":"Tag number already registered"}`))
	})
	rr := DoRequest(handler, NewRequest(t, http.MethodPost, "/animals"))

	AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	AssertJSONContains(t, rr, "error", "conflict")
	AssertJSONContains(t, rr, "error_description", "Tag number already registered")
	body := UnmarshalResponse[ErrorBody](t, rr)
	assert.Equal(t, "Tag number already registered", body.ErrorDescription)
}

func TestAsRole(t *testing.T) {
	req := AsSales(NewRequest(t, http.MethodGet, "/sales/farmers"))
	assert.Equal(t, id.RoleSales, requestcontext.Role(req.Context()))
	assert.False(t, requestcontext.UserID(req.Context()).IsNil())
}
