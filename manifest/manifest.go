// Package manifest resolves application metadata from an AndroidManifest.xml
// file: the package name, the application class, and the declared activities
// and receivers (with their intent filters).
package manifest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joeycumines/go-shadowdroid/intent"
)

// AndroidNamespace is the XML namespace of android:* attributes.
const AndroidNamespace = "http://schemas.android.com/apk/res/android"

// ErrNoPackage is returned for a manifest without a package attribute.
var ErrNoPackage = errors.New("manifest: missing package attribute")

type (
	// Manifest is the resolved application metadata.
	Manifest struct {
		Package         string
		ApplicationName string
		Activities      []Component
		Receivers       []Receiver
	}

	// Component is a declared activity.
	Component struct {
		// Name is fully qualified.
		Name string
	}

	// Receiver is a statically declared broadcast receiver.
	Receiver struct {
		// Name is fully qualified.
		Name    string
		Filters []*intent.Filter
	}
)

// xml document model

type (
	xmlManifest struct {
		XMLName     xml.Name       `xml:"manifest"`
		Package     string         `xml:"package,attr"`
		Application xmlApplication `xml:"application"`
	}

	xmlApplication struct {
		Name       string        `xml:"http://schemas.android.com/apk/res/android name,attr"`
		Activities []xmlNamed    `xml:"activity"`
		Receivers  []xmlReceiver `xml:"receiver"`
	}

	xmlNamed struct {
		Name string `xml:"http://schemas.android.com/apk/res/android name,attr"`
	}

	xmlReceiver struct {
		Name    string      `xml:"http://schemas.android.com/apk/res/android name,attr"`
		Filters []xmlFilter `xml:"intent-filter"`
	}

	xmlFilter struct {
		Priority   int        `xml:"http://schemas.android.com/apk/res/android priority,attr"`
		Actions    []xmlNamed `xml:"action"`
		Categories []xmlNamed `xml:"category"`
		Data       []xmlData  `xml:"data"`
	}

	xmlData struct {
		MimeType string `xml:"http://schemas.android.com/apk/res/android mimeType,attr"`
		Scheme   string `xml:"http://schemas.android.com/apk/res/android scheme,attr"`
	}
)

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return m, nil
}

// Parse decodes a manifest document.
func Parse(r io.Reader) (*Manifest, error) {
	var doc xmlManifest
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	pkg := strings.TrimSpace(doc.Package)
	if pkg == "" {
		return nil, ErrNoPackage
	}

	m := &Manifest{Package: pkg}
	if doc.Application.Name != "" {
		m.ApplicationName = m.QualifiedName(doc.Application.Name)
	}
	for _, a := range doc.Application.Activities {
		m.Activities = append(m.Activities, Component{Name: m.QualifiedName(a.Name)})
	}
	for _, rx := range doc.Application.Receivers {
		out := Receiver{Name: m.QualifiedName(rx.Name)}
		for _, xf := range rx.Filters {
			f := &intent.Filter{Priority: xf.Priority}
			for _, a := range xf.Actions {
				f.AddAction(a.Name)
			}
			for _, c := range xf.Categories {
				f.AddCategory(c.Name)
			}
			for _, d := range xf.Data {
				if d.MimeType != "" {
					f.AddDataType(d.MimeType)
				}
				if d.Scheme != "" {
					f.AddDataScheme(d.Scheme)
				}
			}
			out.Filters = append(out.Filters, f)
		}
		m.Receivers = append(m.Receivers, out)
	}
	return m, nil
}

// QualifiedName expands a class name relative to the package, per the
// manifest conventions: ".Main" and "Main" both become "<package>.Main",
// while names containing a dot elsewhere are already qualified.
func (m *Manifest) QualifiedName(name string) string {
	switch {
	case name == "":
		return ""
	case strings.HasPrefix(name, "."):
		return m.Package + name
	case !strings.Contains(name, "."):
		return m.Package + "." + name
	default:
		return name
	}
}
