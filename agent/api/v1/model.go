package v1

import (
	"github.com/erikmagkekse/dshare/exports"
	"github.com/erikmagkekse/dshare/model"
)

// Type aliases - canonical definitions live in the model and exports packages.
type (
	ExportRequest   = model.ExportRequest
	UnexportRequest = model.UnexportRequest
	ExportEntry     = exports.Entry
	ActiveExport    = exports.ExportInfo
)

// response models

type ExportListResponse struct {
	Exports []ExportEntry `json:"exports"`
	Total   int           `json:"total"`
}

type ActiveListResponse struct {
	Exports []ActiveExport `json:"exports"`
	Total   int            `json:"total"`
}

type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Commit        string            `json:"commit"`
	UptimeSeconds int               `json:"uptime_seconds"`
	Features      map[string]string `json:"features"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
