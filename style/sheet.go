package style

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Stylesheet file shape:
//
//	classes:
//	  card:
//	    width: 200
//	    padding: [8, 12, 8, 12]
//	    background-color: "#202830"
//	    hover:
//	      background-color: "#2a3440"
//	  title:
//	    font-size: 22
//	    text-color: "#e8e8e8"
type sheetFile struct {
	Classes map[string]classDef `yaml:"classes"`
}

type classDef struct {
	Partial `yaml:",inline"`
	Hover   *Partial `yaml:"hover,omitempty"`
	Focus   *Partial `yaml:"focus,omitempty"`
	Press   *Partial `yaml:"press,omitempty"`
}

// ParseSheet builds a Sheet from YAML stylesheet bytes.
func ParseSheet(data []byte) (*Sheet, error) {
	var file sheetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}
	sheet := NewSheet()
	for name, def := range file.Classes {
		sheet.classes[name] = Class{
			Base:  def.Partial,
			Hover: def.Hover,
			Focus: def.Focus,
			Press: def.Press,
		}
	}
	return sheet, nil
}

// LoadSheet reads and parses a YAML stylesheet file.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet %s: %w", path, err)
	}
	return ParseSheet(data)
}
