package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// FormatFromPath picks a file format from the path extension. A trailing
// .xz or .lzma is skipped.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz", ".lzma":
		return FormatFromPath(strings.TrimSuffix(path, filepath.Ext(path)))
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (want .json, .yaml or .csv)", filepath.Ext(path))
	}
}

// DecodeTrades reads raw trades in the given format. Records that fail to
// decode individually are reported as skipped; only a malformed document
// returns an error.
func DecodeTrades(r io.Reader, format Format) ([]RawTrade, []Skipped, error) {
	switch format {
	case FormatJSON:
		return decodeTradesJSON(r)
	case FormatYAML:
		return decodeTradesYAML(r)
	case FormatCSV:
		return ReadTradesCSV(r)
	default:
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}
}

// LoadTradesFile decodes and normalizes a trade file, optionally xz or lzma
// compressed. Skipped records from both stages are returned together.
func LoadTradesFile(path string) ([]TradeRecord, []Skipped, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open trades: %w", err)
	}
	defer f.Close()

	raws, skipped, err := DecodeTrades(f, format)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	recs, bad := Normalize(raws)
	return recs, append(skipped, bad...), nil
}

func decodeTradesJSON(r io.Reader) ([]RawTrade, []Skipped, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	data = bytes.TrimSpace(data)

	var items []json.RawMessage
	if len(data) > 0 && data[0] == '{' {
		var doc struct {
			Trades []json.RawMessage `json:"trades"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, nil, err
		}
		items = doc.Trades
	} else if err := json.Unmarshal(data, &items); err != nil {
		return nil, nil, err
	}

	raws := make([]RawTrade, 0, len(items))
	skipped := []Skipped{}
	for i, item := range items {
		var raw RawTrade
		if err := json.Unmarshal(item, &raw); err != nil {
			skipped = append(skipped, Skipped{Index: i, Reason: err.Error()})
			continue
		}
		raw.at(i)
		raws = append(raws, raw)
	}
	return raws, skipped, nil
}

func decodeTradesYAML(r io.Reader) ([]RawTrade, []Skipped, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return []RawTrade{}, []Skipped{}, nil
		}
		return nil, nil, err
	}
	seq, err := yamlList(&doc, "trades")
	if err != nil {
		return nil, nil, err
	}

	raws := make([]RawTrade, 0, len(seq))
	skipped := []Skipped{}
	for i, item := range seq {
		var raw RawTrade
		if err := item.Decode(&raw); err != nil {
			skipped = append(skipped, Skipped{Index: i, Reason: err.Error()})
			continue
		}
		raw.at(i)
		raws = append(raws, raw)
	}
	return raws, skipped, nil
}

// yamlList returns the items of a top-level sequence, or of the sequence
// stored under key when the document is a mapping.
func yamlList(doc *yaml.Node, key string) ([]*yaml.Node, error) {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	switch n.Kind {
	case yaml.SequenceNode:
		return n.Content, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				if n.Content[i+1].Kind != yaml.SequenceNode {
					return nil, fmt.Errorf("line %d: %s must be a list", n.Content[i+1].Line, key)
				}
				return n.Content[i+1].Content, nil
			}
		}
		return nil, fmt.Errorf("no %q list in document", key)
	default:
		return nil, fmt.Errorf("line %d: expected a list of %s", n.Line, key)
	}
}

// DecodeStrategies reads a playbook: a list of strategies, or a document with
// a "strategies" list.
func DecodeStrategies(r io.Reader, format Format) ([]Strategy, error) {
	var out []Strategy
	switch format {
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '{' {
			var doc struct {
				Strategies []Strategy `json:"strategies"`
			}
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, err
			}
			out = doc.Strategies
		} else if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if err == io.EOF {
				return []Strategy{}, nil
			}
			return nil, err
		}
		seq, err := yamlList(&doc, "strategies")
		if err != nil {
			return nil, err
		}
		for _, item := range seq {
			var s Strategy
			if err := item.Decode(&s); err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	default:
		return nil, fmt.Errorf("unsupported playbook format %q", format)
	}

	for i := range out {
		if err := out[i].normalize(); err != nil {
			return nil, fmt.Errorf("strategy %d: %w", i, err)
		}
	}
	if out == nil {
		out = []Strategy{}
	}
	return out, nil
}

// LoadStrategiesFile reads a playbook file.
func LoadStrategiesFile(path string) ([]Strategy, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("open playbook: %w", err)
	}
	defer f.Close()
	return DecodeStrategies(f, format)
}

// normalize trims fields, assigns positional IDs to rules that lack one and
// rejects duplicate rule IDs.
func (s *Strategy) normalize() error {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	if s.ID == "" {
		return fmt.Errorf("strategy id is required")
	}
	if s.Name == "" {
		s.Name = s.ID
	}
	if s.Rules == nil {
		s.Rules = []StrategyRule{}
	}
	seen := make(map[string]bool, len(s.Rules))
	for i := range s.Rules {
		r := &s.Rules[i]
		r.ID = strings.TrimSpace(r.ID)
		r.Text = strings.TrimSpace(r.Text)
		if r.ID == "" {
			r.ID = fmt.Sprintf("%s-%d", s.ID, i+1)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q in %s", r.ID, s.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
