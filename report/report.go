// Package report renders an analytics.Report as an Org-mode document, JSON
// or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/analytics"
)

type Format string

const (
	FormatOrg  Format = "org"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts org, json, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "org", "":
		return FormatOrg, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want org, json or yaml)", s)
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *analytics.Report, format Format) error {
	switch format {
	case FormatOrg:
		return WriteOrg(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown report format %q", format)
}
