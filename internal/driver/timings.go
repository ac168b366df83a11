package driver

import (
	"fmt"

	json "github.com/goccy/go-json"

	"mexpand/internal/diag"
	"mexpand/internal/observ"
	"mexpand/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds an EXP6004 info whose single note carries the
// payload as JSON. It is added even when the bag is full.
func appendTimingDiagnostic(bag *diag.Bag, file source.FileID, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "file"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	at := source.Span{File: file}
	entry := diag.New(diag.SevInfo, diag.ExpTimings, at, msg).WithNote(at, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
