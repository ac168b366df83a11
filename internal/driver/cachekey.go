package driver

import (
	"encoding/binary"

	"mexpand/internal/diag"
	"mexpand/internal/project"
	"mexpand/internal/source"
	"mexpand/internal/version"
)

// cacheKey = H(schema, tool version, crate, syntax, path, content, crate defs).
func cacheKey(opts Options, path string, content []byte, defs project.Digest) project.Digest {
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	return project.Combine(
		schema[:],
		[]byte(version.Version),
		[]byte(opts.Crate),
		[]byte(opts.Syntax),
		[]byte(path),
		content,
		defs[:],
	)
}

func toCached(fs *source.FileSet, fr *FileResult) *CachedFile {
	out := &CachedFile{Path: fr.Path}
	for _, e := range fr.Expansions {
		ce := CachedExpansion{
			Name:   e.Name,
			Path:   e.Path,
			Start:  e.Span.Start,
			End:    e.Span.End,
			Kind:   uint8(e.Kind),
			Output: e.Output,
		}
		if e.Err != nil {
			ce.Err = e.Err.Error()
		}
		out.Expansions = append(out.Expansions, ce)
	}
	for _, d := range fr.Bag.Items() {
		if d.Code == diag.ExpTimings {
			continue
		}
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Path:     fs.Get(d.Primary.File).Path,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{
				Path:    fs.Get(n.Span.File).Path,
				Start:   n.Span.Start,
				End:     n.Span.End,
				Message: n.Msg,
			})
		}
		out.Diagnostics = append(out.Diagnostics, cd)
	}
	return out
}

// restoreCached maps a cached entry back onto the files of this run.
// Diagnostics pointing at files that are not loaded, or past their end, are dropped.
func restoreCached(fs *source.FileSet, fr *FileResult, cf *CachedFile) {
	text := fs.Get(fr.FileID).Text()
	fr.Expansions = fr.Expansions[:0]
	for _, ce := range cf.Expansions {
		sp := source.Span{File: fr.FileID, Start: ce.Start, End: ce.End}
		e := Expansion{
			Name:   ce.Name,
			Path:   ce.Path,
			Span:   sp,
			Start:  source.Locate(text, sp.Start),
			End:    source.Locate(text, sp.End),
			Kind:   ExpansionKind(ce.Kind),
			Output: ce.Output,
		}
		if ce.Err != "" {
			e.Err = cachedError(ce.Name, sp)
		}
		fr.Expansions = append(fr.Expansions, e)
	}

	for _, cd := range cf.Diagnostics {
		primary, ok := cachedSpan(fs, cd.Path, cd.Start, cd.End)
		if !ok {
			continue
		}
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), primary, cd.Message)
		for _, n := range cd.Notes {
			if sp, ok := cachedSpan(fs, n.Path, n.Start, n.End); ok {
				d = d.WithNote(sp, n.Message)
			}
		}
		fr.Bag.Add(d)
	}
}

// cachedSpan maps a cached span onto the loaded file at path. Spans that no
// longer fit the file are dropped.
func cachedSpan(fs *source.FileSet, path string, start, end uint32) (source.Span, bool) {
	id, ok := fs.GetLatest(path)
	if !ok {
		return source.Span{}, false
	}
	if start > end || int(end) > len(fs.Get(id).Content) {
		return source.Span{}, false
	}
	return source.Span{File: id, Start: start, End: end}, true
}
