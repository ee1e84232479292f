package tally

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// RequestKind is the envelope header request verb.
type RequestKind string

const KindExport RequestKind = "Export"

const (
	defaultVersion      = "1"
	defaultExportFormat = "$$SysName:XML"
)

// HeaderSpec is the envelope header block: protocol version, request
// kind, target collection type and id.
type HeaderSpec struct {
	Version    string
	Request    RequestKind
	TargetType string
	TargetID   string
}

// Formula is one named predicate definition in the TDL message block.
type Formula struct {
	Name string
	Expr string
}

// CollectionSpec describes a filtered collection query: one object
// type, one or more projections, and filter references resolved
// against named formula definitions in the same message block.
type CollectionSpec struct {
	Name        string
	ObjectType  string
	Projections []string
	FilterRefs  []string
	Formulas    []Formula
}

// BodySpec is the envelope body block. A nil Collection produces a
// flat listing (static variables only); a non-nil one produces a TDL
// collection query.
type BodySpec struct {
	ExportFormat string
	Company      string
	Collection   *CollectionSpec
}

// BuildEnvelope serializes one self-contained request document from
// structured values. Callers never hand-assemble tags; all text and
// attribute values are XML-escaped here. The returned warnings name
// orphan formulas (defined but never referenced), which are legal but
// usually a caller mistake. Validation runs before any serialization
// so a malformed spec never reaches the wire.
func BuildEnvelope(header HeaderSpec, body BodySpec) (string, []string, error) {
	if err := validateSpec(header, body); err != nil {
		return "", nil, err
	}
	warnings := orphanFormulas(body.Collection)

	version := header.Version
	if version == "" {
		version = defaultVersion
	}
	request := header.Request
	if request == "" {
		request = KindExport
	}
	format := body.ExportFormat
	if format == "" {
		format = defaultExportFormat
	}

	var sb strings.Builder
	sb.WriteString("<ENVELOPE><HEADER>")
	textElem(&sb, "VERSION", version)
	textElem(&sb, "TALLYREQUEST", string(request))
	textElem(&sb, "TYPE", header.TargetType)
	textElem(&sb, "ID", header.TargetID)
	sb.WriteString("</HEADER><BODY><DESC><STATICVARIABLES>")
	textElem(&sb, "SVEXPORTFORMAT", format)
	if body.Company != "" {
		textElem(&sb, "SVCURRENTCOMPANY", body.Company)
	}
	sb.WriteString("</STATICVARIABLES>")
	if col := body.Collection; col != nil {
		writeCollection(&sb, header.TargetID, col)
	}
	sb.WriteString("</DESC></BODY></ENVELOPE>")
	return sb.String(), warnings, nil
}

func writeCollection(sb *strings.Builder, targetID string, col *CollectionSpec) {
	name := col.Name
	if name == "" {
		name = targetID
	}
	sb.WriteString("<TDL><TDLMESSAGE>")
	sb.WriteString(`<COLLECTION NAME="`)
	sb.WriteString(xmlEscape(name))
	sb.WriteString(`" ISMODIFY="No">`)
	textElem(sb, "TYPE", col.ObjectType)
	for _, method := range col.Projections {
		textElem(sb, "NATIVEMETHOD", method)
	}
	for _, ref := range col.FilterRefs {
		textElem(sb, "FILTER", ref)
	}
	sb.WriteString("</COLLECTION>")
	for _, formula := range col.Formulas {
		sb.WriteString(`<SYSTEM TYPE="Formulae" NAME="`)
		sb.WriteString(xmlEscape(formula.Name))
		sb.WriteString(`">`)
		sb.WriteString(xmlEscape(formula.Expr))
		sb.WriteString("</SYSTEM>")
	}
	sb.WriteString("</TDLMESSAGE></TDL>")
}

func validateSpec(header HeaderSpec, body BodySpec) error {
	if strings.TrimSpace(header.TargetType) == "" || strings.TrimSpace(header.TargetID) == "" {
		return ErrMissingTarget
	}
	col := body.Collection
	if col == nil {
		return nil
	}
	if strings.TrimSpace(col.ObjectType) == "" {
		return ErrMissingObjectType
	}
	if len(col.Projections) == 0 {
		return ErrNoProjection
	}
	defined := make(map[string]struct{}, len(col.Formulas))
	for _, formula := range col.Formulas {
		if _, dup := defined[formula.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateFilter, formula.Name)
		}
		defined[formula.Name] = struct{}{}
	}
	seen := make(map[string]struct{}, len(col.FilterRefs))
	for _, ref := range col.FilterRefs {
		if _, dup := seen[ref]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateFilter, ref)
		}
		seen[ref] = struct{}{}
		if _, ok := defined[ref]; !ok {
			return fmt.Errorf("%w: %q", ErrDanglingFilter, ref)
		}
	}
	return nil
}

// orphanFormulas reports formula definitions that no FILTER references.
// Orphans are not fatal; the remote system ignores them.
func orphanFormulas(col *CollectionSpec) []string {
	if col == nil {
		return nil
	}
	referenced := make(map[string]struct{}, len(col.FilterRefs))
	for _, ref := range col.FilterRefs {
		referenced[ref] = struct{}{}
	}
	var orphans []string
	for _, formula := range col.Formulas {
		if _, ok := referenced[formula.Name]; !ok {
			orphans = append(orphans, formula.Name)
		}
	}
	return orphans
}

func textElem(sb *strings.Builder, tag, value string) {
	sb.WriteString("<")
	sb.WriteString(tag)
	sb.WriteString(">")
	sb.WriteString(xmlEscape(value))
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteString(">")
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
