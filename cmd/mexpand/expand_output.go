package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"mexpand/internal/diagfmt"
	"mexpand/internal/driver"
)

// ExpansionJSON is one call in `expand --format json`.
type ExpansionJSON struct {
	Name     string               `json:"name"`
	Path     string               `json:"path"`
	Kind     string               `json:"kind"`
	Location diagfmt.LocationJSON `json:"location"`
	Output   string               `json:"output,omitempty"`
	Error    string               `json:"error,omitempty"`
}

type FileJSON struct {
	Path       string          `json:"path"`
	Cached     bool            `json:"cached,omitempty"`
	Error      string          `json:"error,omitempty"`
	Expansions []ExpansionJSON `json:"expansions"`
}

type ExpandJSON struct {
	Crate       string                    `json:"crate"`
	Files       []FileJSON                `json:"files"`
	Counts      driver.Counts             `json:"counts"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func buildExpandJSON(res *driver.Result) ExpandJSON {
	out := ExpandJSON{
		Crate:  res.Crate,
		Files:  make([]FileJSON, 0, len(res.Files)),
		Counts: res.Counts(),
		Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Diagnostics(), res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}),
	}
	for i := range res.Files {
		fr := &res.Files[i]
		fj := FileJSON{Path: fr.Path, Cached: fr.Cached, Expansions: make([]ExpansionJSON, 0, len(fr.Expansions))}
		if fr.Err != nil {
			fj.Error = fr.Err.Error()
		}
		for _, e := range fr.Expansions {
			ej := ExpansionJSON{
				Name:     e.Name,
				Path:     e.Path,
				Kind:     e.Kind.String(),
				Location: diagfmt.MakeLocation(e.Span, res.FileSet, diagfmt.PathModeAuto, true),
				Output:   e.Output,
			}
			if e.Err != nil {
				ej.Error = e.Err.Error()
			}
			fj.Expansions = append(fj.Expansions, ej)
		}
		out.Files = append(out.Files, fj)
	}
	return out
}

func writeExpandJSON(w io.Writer, res *driver.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildExpandJSON(res))
}

// writeExpandPretty prints one line per call:
//
//	src/lib.rs:3:9: line! => 3
//	src/lib.rs:4:9: foo! (unresolved)
func writeExpandPretty(w io.Writer, res *driver.Result) error {
	var b strings.Builder
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Err != nil {
			fmt.Fprintf(&b, "%s: %v\n", fr.Path, fr.Err)
			continue
		}
		for _, e := range fr.Expansions {
			fmt.Fprintf(&b, "%s:%d:%d: %s! ", fr.Path, e.Start.Line, e.Start.Col, e.Path)
			switch {
			case e.OK():
				fmt.Fprintf(&b, "=> %s\n", e.Output)
			case e.Err != nil:
				fmt.Fprintf(&b, "failed: %v\n", e.Err)
			default:
				fmt.Fprintf(&b, "(%s)\n", e.Kind)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeExpandSource prints every file with its expansions substituted. Several
// files are separated by a `// file: path` header.
func writeExpandSource(w io.Writer, res *driver.Result) error {
	var b strings.Builder
	loaded := 0
	for i := range res.Files {
		if res.Files[i].Err == nil {
			loaded++
		}
	}
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Err != nil {
			continue
		}
		if loaded > 1 {
			fmt.Fprintf(&b, "// file: %s\n", fr.Path)
		}
		b.WriteString(driver.Rewrite(res.FileSet.Get(fr.FileID).Text(), fr.Expansions))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(w io.Writer, res *driver.Result) {
	c := res.Counts()
	cached := 0
	for i := range res.Files {
		if res.Files[i].Cached {
			cached++
		}
	}
	fmt.Fprintf(w, "%d expanded, %d failed, %d user macros, %d unresolved in %d files (%d cached)\n",
		c.Expanded, c.Failed, c.Declarative, c.Unresolved, len(res.Files), cached)
}

func writeMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
