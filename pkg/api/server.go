package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Service health
	// (GET /health)
	GetHealth(c *gin.Context)
	// (GET /api/v1/profile)
	GetApiV1Profile(c *gin.Context)
	// (PUT /api/v1/profile)
	PutApiV1Profile(c *gin.Context)
	// (GET /api/v1/medicines)
	GetApiV1Medicines(c *gin.Context)
	// (POST /api/v1/medicines)
	PostApiV1Medicines(c *gin.Context)
	// (PUT /api/v1/medicines/{id})
	PutApiV1MedicinesId(c *gin.Context, id string)
	// (DELETE /api/v1/medicines/{id})
	DeleteApiV1MedicinesId(c *gin.Context, id string)
	// (GET /api/v1/medicines/{id}/usage)
	GetApiV1MedicinesIdUsage(c *gin.Context, id string)
	// (POST /api/v1/medicines/{id}/usage)
	PostApiV1MedicinesIdUsage(c *gin.Context, id string)
	// (GET /api/v1/feedback)
	GetApiV1Feedback(c *gin.Context)
	// (PUT /api/v1/feedback/{date})
	PutApiV1FeedbackDate(c *gin.Context, date openapi_types.Date)
	// (POST /api/v1/reports)
	PostApiV1Reports(c *gin.Context)
	// (POST /api/v1/reports/publish)
	PostApiV1ReportsPublish(c *gin.Context)
	// (DELETE /api/v1/reports/{id})
	DeleteApiV1ReportsId(c *gin.Context, id string)
	// (GET /api/v1/export/text)
	GetApiV1ExportText(c *gin.Context, params GetApiV1ExportTextParams)
	// (GET /api/v1/export/pdf)
	GetApiV1ExportPdf(c *gin.Context)
	// (GET /api/v1/safety/score)
	GetApiV1SafetyScore(c *gin.Context)
	// (GET /api/v1/safety/adherence)
	GetApiV1SafetyAdherence(c *gin.Context)
	// (GET /api/v1/interactions)
	GetApiV1Interactions(c *gin.Context, params GetApiV1InteractionsParams)
	// (GET /api/v1/data/export)
	GetApiV1DataExport(c *gin.Context)
	// (DELETE /api/v1/data)
	DeleteApiV1Data(c *gin.Context)
}

// ServerInterfaceWrapper converts path and query parameters before calling
// the handler
type ServerInterfaceWrapper struct {
	Handler      ServerInterface
	ErrorHandler func(*gin.Context, error, int)
}

func (siw *ServerInterfaceWrapper) GetHealth(c *gin.Context) { siw.Handler.GetHealth(c) }

func (siw *ServerInterfaceWrapper) GetApiV1Profile(c *gin.Context) { siw.Handler.GetApiV1Profile(c) }

func (siw *ServerInterfaceWrapper) PutApiV1Profile(c *gin.Context) { siw.Handler.PutApiV1Profile(c) }

func (siw *ServerInterfaceWrapper) GetApiV1Medicines(c *gin.Context) {
	siw.Handler.GetApiV1Medicines(c)
}

func (siw *ServerInterfaceWrapper) PostApiV1Medicines(c *gin.Context) {
	siw.Handler.PostApiV1Medicines(c)
}

func (siw *ServerInterfaceWrapper) PutApiV1MedicinesId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok {
		return
	}
	siw.Handler.PutApiV1MedicinesId(c, id)
}

func (siw *ServerInterfaceWrapper) DeleteApiV1MedicinesId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok {
		return
	}
	siw.Handler.DeleteApiV1MedicinesId(c, id)
}

func (siw *ServerInterfaceWrapper) GetApiV1MedicinesIdUsage(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok {
		return
	}
	siw.Handler.GetApiV1MedicinesIdUsage(c, id)
}

func (siw *ServerInterfaceWrapper) PostApiV1MedicinesIdUsage(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok {
		return
	}
	siw.Handler.PostApiV1MedicinesIdUsage(c, id)
}

func (siw *ServerInterfaceWrapper) GetApiV1Feedback(c *gin.Context) { siw.Handler.GetApiV1Feedback(c) }

func (siw *ServerInterfaceWrapper) PutApiV1FeedbackDate(c *gin.Context) {
	var date openapi_types.Date

	err := runtime.BindStyledParameterWithOptions("simple", "date", c.Param("date"), &date,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter date: %w", err), http.StatusBadRequest)
		return
	}

	siw.Handler.PutApiV1FeedbackDate(c, date)
}

func (siw *ServerInterfaceWrapper) PostApiV1Reports(c *gin.Context) { siw.Handler.PostApiV1Reports(c) }

func (siw *ServerInterfaceWrapper) PostApiV1ReportsPublish(c *gin.Context) {
	siw.Handler.PostApiV1ReportsPublish(c)
}

func (siw *ServerInterfaceWrapper) DeleteApiV1ReportsId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok {
		return
	}
	siw.Handler.DeleteApiV1ReportsId(c, id)
}

func (siw *ServerInterfaceWrapper) GetApiV1ExportText(c *gin.Context) {
	var params GetApiV1ExportTextParams

	err := runtime.BindQueryParameter("form", true, false, "includeScore", c.Request.URL.Query(), &params.IncludeScore)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter includeScore: %w", err), http.StatusBadRequest)
		return
	}

	siw.Handler.GetApiV1ExportText(c, params)
}

func (siw *ServerInterfaceWrapper) GetApiV1ExportPdf(c *gin.Context) { siw.Handler.GetApiV1ExportPdf(c) }

func (siw *ServerInterfaceWrapper) GetApiV1SafetyScore(c *gin.Context) {
	siw.Handler.GetApiV1SafetyScore(c)
}

func (siw *ServerInterfaceWrapper) GetApiV1SafetyAdherence(c *gin.Context) {
	siw.Handler.GetApiV1SafetyAdherence(c)
}

func (siw *ServerInterfaceWrapper) GetApiV1Interactions(c *gin.Context) {
	var params GetApiV1InteractionsParams

	err := runtime.BindQueryParameter("form", true, false, "a", c.Request.URL.Query(), &params.A)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter a: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "b", c.Request.URL.Query(), &params.B)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter b: %w", err), http.StatusBadRequest)
		return
	}

	siw.Handler.GetApiV1Interactions(c, params)
}

func (siw *ServerInterfaceWrapper) GetApiV1DataExport(c *gin.Context) {
	siw.Handler.GetApiV1DataExport(c)
}

func (siw *ServerInterfaceWrapper) DeleteApiV1Data(c *gin.Context) { siw.Handler.DeleteApiV1Data(c) }

func (siw *ServerInterfaceWrapper) bindID(c *gin.Context) (string, bool) {
	var id string

	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return "", false
	}
	return id, true
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching the API.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, ErrorResponse{Code: CodeValidation, Message: err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:      si,
		ErrorHandler: errorHandler,
	}

	base := options.BaseURL
	router.GET(base+"/health", wrapper.GetHealth)
	router.GET(base+"/api/v1/profile", wrapper.GetApiV1Profile)
	router.PUT(base+"/api/v1/profile", wrapper.PutApiV1Profile)
	router.GET(base+"/api/v1/medicines", wrapper.GetApiV1Medicines)
	router.POST(base+"/api/v1/medicines", wrapper.PostApiV1Medicines)
	router.PUT(base+"/api/v1/medicines/:id", wrapper.PutApiV1MedicinesId)
	router.DELETE(base+"/api/v1/medicines/:id", wrapper.DeleteApiV1MedicinesId)
	router.GET(base+"/api/v1/medicines/:id/usage", wrapper.GetApiV1MedicinesIdUsage)
	router.POST(base+"/api/v1/medicines/:id/usage", wrapper.PostApiV1MedicinesIdUsage)
	router.GET(base+"/api/v1/feedback", wrapper.GetApiV1Feedback)
	router.PUT(base+"/api/v1/feedback/:date", wrapper.PutApiV1FeedbackDate)
	router.POST(base+"/api/v1/reports", wrapper.PostApiV1Reports)
	router.POST(base+"/api/v1/reports/publish", wrapper.PostApiV1ReportsPublish)
	router.DELETE(base+"/api/v1/reports/:id", wrapper.DeleteApiV1ReportsId)
	router.GET(base+"/api/v1/export/text", wrapper.GetApiV1ExportText)
	router.GET(base+"/api/v1/export/pdf", wrapper.GetApiV1ExportPdf)
	router.GET(base+"/api/v1/safety/score", wrapper.GetApiV1SafetyScore)
	router.GET(base+"/api/v1/safety/adherence", wrapper.GetApiV1SafetyAdherence)
	router.GET(base+"/api/v1/interactions", wrapper.GetApiV1Interactions)
	router.GET(base+"/api/v1/data/export", wrapper.GetApiV1DataExport)
	router.DELETE(base+"/api/v1/data", wrapper.DeleteApiV1Data)
}
