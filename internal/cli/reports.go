package cli

import (
	"strconv"
	"strings"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/diagnostic"
	"fusion-engine/internal/prototype"
	"fusion-engine/internal/resolve"
)

// pathResult is one resolved path.
type pathResult struct {
	Path   string   `json:"path"             yaml:"path"             cbor:"path"`
	State  string   `json:"state"            yaml:"state"            cbor:"state"`
	Value  any      `json:"value,omitempty"  yaml:"value,omitempty"  cbor:"value,omitempty"`
	Source string   `json:"source,omitempty" yaml:"source,omitempty" cbor:"source,omitempty"`
	Via    []string `json:"via,omitempty"    yaml:"via,omitempty"    cbor:"via,omitempty"`
	Error  string   `json:"error,omitempty"  yaml:"error,omitempty"  cbor:"error,omitempty"`
}

func newPathResult(path string, res resolve.Result) pathResult {
	out := pathResult{Path: path, State: strings.ToLower(res.State.String())}

	if res.State == resolve.StateValue {
		out.Value = valueOf(res.Value)
	}

	if res.Decl != nil {
		out.Source = res.Decl.Source.String()
	}

	for _, c := range res.Via {
		out.Via = append(out.Via, c.String())
	}

	return out
}

// valueOf keeps literals typed and renders the rest as written in source.
func valueOf(v decl.Value) any {
	switch v.Kind {
	case decl.ValueString, decl.ValueNumber, decl.ValueBool, decl.ValueNull:
		return v.Interface()
	default:
		return v.String()
	}
}

func (p pathResult) display() string {
	switch {
	case p.Error != "":
		return "error: " + p.Error
	case p.State == "value":
		return displayValue(p.Value)
	default:
		return "<" + p.State + ">"
	}
}

func displayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

type pathReport []pathResult

func (pathReport) header() []string { return []string{"Path", "Value", "Source", "Via"} }

func (r pathReport) rows() [][]string {
	out := make([][]string, len(r))
	for i, p := range r {
		out[i] = []string{p.Path, p.display(), p.Source, strings.Join(p.Via, ", ")}
	}

	return out
}

func descendantsReport(view []resolve.Descendant) pathReport {
	out := make(pathReport, len(view))
	for i, d := range view {
		out[i] = newPathResult(d.Path.String(), d.Result)
	}

	return out
}

// prototypeInfo summarizes one prototype.
type prototypeInfo struct {
	Name       string       `json:"name"                 yaml:"name"                 cbor:"name"`
	Chain      []string     `json:"chain"                yaml:"chain"                cbor:"chain"`
	Implicit   bool         `json:"implicit,omitempty"   yaml:"implicit,omitempty"   cbor:"implicit,omitempty"`
	Extensions []string     `json:"extensions,omitempty" yaml:"extensions,omitempty" cbor:"extensions,omitempty"`
	Attributes []pathResult `json:"attributes,omitempty" yaml:"attributes,omitempty" cbor:"attributes,omitempty"`
}

func newPrototypeInfo(p *prototype.Prototype) prototypeInfo {
	info := prototypeInfo{Name: p.Name.String(), Implicit: p.Implicit}

	for _, n := range p.Chain() {
		info.Chain = append(info.Chain, n.String())
	}

	for _, e := range p.Extensions {
		info.Extensions = append(info.Extensions, e.Scope.String())
	}

	return info
}

type prototypeReport []prototypeInfo

func (prototypeReport) header() []string {
	return []string{"Prototype", "Chain", "Implicit", "Extensions"}
}

func (r prototypeReport) rows() [][]string {
	out := make([][]string, len(r))
	for i, p := range r {
		out[i] = []string{p.Name, strings.Join(p.Chain, " < "), strconv.FormatBool(p.Implicit), strconv.Itoa(len(p.Extensions))}
	}

	return out
}

// attributeReport lists the attributes of one prototype evaluation.
type attributeReport struct {
	prototypeInfo `yaml:",inline"`

	At string `json:"at" yaml:"at" cbor:"at"`
}

func (attributeReport) header() []string { return []string{"Attribute", "Value", "Source"} }

func (r attributeReport) rows() [][]string {
	out := make([][]string, len(r.Attributes))
	for i, a := range r.Attributes {
		out[i] = []string{a.Path, a.display(), a.Source}
	}

	return out
}

// keyReport is an ordered list of keys.
type keyReport []string

func (keyReport) header() []string { return []string{"#", "Key"} }

func (r keyReport) rows() [][]string {
	out := make([][]string, len(r))
	for i, k := range r {
		out[i] = []string{strconv.Itoa(i + 1), k}
	}

	return out
}

// fileInfo is one file in load sequence.
type fileInfo struct {
	Package      string   `json:"package"                yaml:"package"                cbor:"package"`
	Resource     string   `json:"resource"               yaml:"resource"               cbor:"resource"`
	Reachable    bool     `json:"reachable"              yaml:"reachable"              cbor:"reachable"`
	IncludeChain []string `json:"includeChain,omitempty" yaml:"includeChain,omitempty" cbor:"includeChain,omitempty"`
}

type fileReport []fileInfo

func (fileReport) header() []string { return []string{"#", "Package", "Resource", "Reachable", "Include chain"} }

func (r fileReport) rows() [][]string {
	out := make([][]string, len(r))
	for i, f := range r {
		out[i] = []string{strconv.Itoa(i + 1), f.Package, f.Resource, strconv.FormatBool(f.Reachable), strings.Join(f.IncludeChain, " > ")}
	}

	return out
}

// diagnosticInfo mirrors diagnostic.Diagnostic with encoder tags.
type diagnosticInfo struct {
	Severity    string   `json:"severity"              yaml:"severity"              cbor:"severity"`
	Code        string   `json:"code"                  yaml:"code"                  cbor:"code"`
	Message     string   `json:"message"               yaml:"message"               cbor:"message"`
	Path        string   `json:"path,omitempty"        yaml:"path,omitempty"        cbor:"path,omitempty"`
	Source      string   `json:"source,omitempty"      yaml:"source,omitempty"      cbor:"source,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty" cbor:"suggestions,omitempty"`
}

type diagnosticReport []diagnosticInfo

func newDiagnosticReport(d diagnostic.Diagnostics) diagnosticReport {
	all := d.All()

	out := make(diagnosticReport, len(all))
	for i, x := range all {
		out[i] = diagnosticInfo{
			Severity:    x.Severity.String(),
			Code:        x.Code,
			Message:     x.Message,
			Path:        x.Path,
			Source:      x.Source,
			Suggestions: x.Suggestions,
		}
	}

	return out
}

func (diagnosticReport) header() []string { return []string{"Severity", "Code", "Path", "Source", "Message"} }

func (r diagnosticReport) rows() [][]string {
	out := make([][]string, len(r))
	for i, d := range r {
		out[i] = []string{d.Severity, d.Code, d.Path, d.Source, d.Message}
	}

	return out
}
