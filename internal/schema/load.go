package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"recforge/internal/diag"
	"recforge/internal/record"
)

// LoadError is a failure to read or decode a whole declaration file.
type LoadError struct {
	Code diag.Code
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Diagnostic converts the failure for reporting.
func (e *LoadError) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, diag.Origin{File: e.Path}, e.Err.Error())
}

// Source is one loaded declaration file.
type Source struct {
	Path    string
	Format  Format
	Records []*record.Record
	// Invalid holds the declarations that failed validation, in file order.
	Invalid []*record.DeclError
}

// Decode parses a document in the given format. Unknown keys are rejected
// so that a misspelt flag does not silently take its default.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatTOML:
		meta, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields(true)
		dec.UseLooseInterfaceDecoding(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown declaration format")
	}
	return &doc, nil
}

// Load reads and validates one declaration file.
func Load(path string) (*Source, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, &LoadError{Code: diag.IOUnknownFormat, Path: path, Err: errors.New("unrecognized extension (want .toml, .yaml, .yml, .mp or .msgpack)")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: diag.IOLoadFileError, Path: path, Err: err}
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, &LoadError{Code: diag.IODecodeFailure, Path: path, Err: err}
	}
	src := Build(doc)
	src.Path, src.Format = path, format
	return src, nil
}

// Build validates every declaration of doc. Record names must be unique
// within a document; later duplicates are rejected.
func Build(doc *Document) *Source {
	src := &Source{}
	seen := make(map[string]struct{}, len(doc.Records))
	for _, d := range doc.Records {
		rec, err := d.Record()
		if err != nil {
			var de *record.DeclError
			if !errors.As(err, &de) {
				de = &record.DeclError{Code: diag.DrvInvalidDecl, Record: d.Name, Msg: err.Error()}
			}
			src.Invalid = append(src.Invalid, de)
			continue
		}
		if _, dup := seen[rec.Name]; dup {
			src.Invalid = append(src.Invalid, &record.DeclError{Code: diag.DrvInvalidDecl, Record: rec.Name, Msg: "record declared twice"})
			continue
		}
		seen[rec.Name] = struct{}{}
		src.Records = append(src.Records, rec)
	}
	return src
}

// Table renders descriptors back into a document, sorted by record name.
func Table(records []*record.Record) *Document {
	doc := &Document{Records: make([]RecordDecl, 0, len(records))}
	for _, rec := range records {
		doc.Records = append(doc.Records, Declare(rec))
	}
	sort.SliceStable(doc.Records, func(i, j int) bool { return doc.Records[i].Name < doc.Records[j].Name })
	return doc
}

// EncodeMsgpack writes doc in the binary collector format.
func EncodeMsgpack(w io.Writer, doc *Document) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode msgpack: %w", err)
	}
	return nil
}

// EncodeTOML writes doc as TOML.
func EncodeTOML(w io.Writer, doc *Document) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}

// EncodeYAML writes doc as YAML.
func EncodeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
