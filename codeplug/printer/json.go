package printer

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

func (p *Printer) printJSON(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) printYAML(v any) error {
	enc := yaml.NewEncoder(p.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
