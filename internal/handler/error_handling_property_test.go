package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/oapi-codegen/runtime/types"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// Property: malformed request bodies are rejected with a 400 VALIDATION_ERROR
// response before any state is touched
func TestProperty_MalformedRequestsRejected(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("malformed requests return VALIDATION_ERROR", prop.ForAll(
		func(scenario string) bool {
			gin.SetMode(gin.TestMode)
			logger := zap.NewNop()
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			var body string
			var call func()
			switch scenario {
			case "medicine_invalid_json":
				body = `{invalid json`
				call = func() { (&MedicineHandler{logger: logger}).PostApiV1Medicines(c) }
			case "medicine_missing_name":
				body = `{"dosage":"10mg"}`
				call = func() { (&MedicineHandler{logger: logger}).PostApiV1Medicines(c) }
			case "medicine_bad_start_date":
				body = `{"name":"Aspirin","startDate":"not-a-date"}`
				call = func() { (&MedicineHandler{logger: logger}).PostApiV1Medicines(c) }
			case "usage_missing_date":
				body = `{"taken":true}`
				call = func() { (&MedicineHandler{logger: logger}).PostApiV1MedicinesIdUsage(c, "med-1") }
			case "feedback_wrong_shape":
				body = `{"medicationLogs":"all taken"}`
				call = func() { (&FeedbackHandler{logger: logger}).PutApiV1FeedbackDate(c, types.Date{}) }
			case "report_truncated":
				body = `[1,2,3`
				call = func() { (&ReportHandler{logger: logger}).PostApiV1Reports(c) }
			case "profile_wrong_type":
				body = `{"allergies":"penicillin"}`
				call = func() { (&ProfileHandler{logger: logger}).PutApiV1Profile(c) }
			default:
				t.Logf("unknown scenario %s", scenario)
				return false
			}

			c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
			c.Request.Header.Set("Content-Type", "application/json")
			call()

			if w.Code != http.StatusBadRequest {
				t.Logf("%s: expected 400, got %d", scenario, w.Code)
				return false
			}

			var resp api.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Logf("%s: invalid error body: %v", scenario, err)
				return false
			}
			if resp.Code != api.CodeValidation {
				t.Logf("%s: expected code %s, got %s", scenario, api.CodeValidation, resp.Code)
				return false
			}
			if resp.Message == "" || resp.Details == nil {
				t.Logf("%s: error response missing message or details", scenario)
				return false
			}

			return true
		},
		gen.OneConstOf(
			"medicine_invalid_json",
			"medicine_missing_name",
			"medicine_bad_start_date",
			"usage_missing_date",
			"feedback_wrong_shape",
			"report_truncated",
			"profile_wrong_type",
		),
	))

	properties.TestingRun(t)
}

// Property: store errors always map to the same status and code, however deeply wrapped
func TestProperty_ErrorStatusMapping(t *testing.T) {
	type mapping struct {
		err    error
		status int
		code   string
	}
	mappings := []mapping{
		{model.ErrValidation, http.StatusBadRequest, api.CodeValidation},
		{service.ErrNotFound, http.StatusNotFound, api.CodeNotFound},
		{service.ErrDuplicateID, http.StatusConflict, api.CodeConflict},
		{service.ErrStorageWrite, http.StatusServiceUnavailable, api.CodeStorage},
		{service.ErrReportStorageDisabled, http.StatusNotImplemented, api.CodeNotConfigured},
		{errors.New("boom"), http.StatusInternalServerError, api.CodeInternal},
	}

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("wrapped errors keep their status", prop.ForAll(
		func(idx int, depth int) bool {
			m := mappings[idx]
			err := m.err
			for i := 0; i < depth; i++ {
				err = fmt.Errorf("layer %d: %w", i, err)
			}

			status, code := statusFor(err)
			if status != m.status || code != m.code {
				t.Logf("%v: expected %d/%s, got %d/%s", err, m.status, m.code, status, code)
				return false
			}
			return true
		},
		gen.IntRange(0, len(mappings)-1),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}
