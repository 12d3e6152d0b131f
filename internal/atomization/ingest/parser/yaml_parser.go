package parser

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"
)

// NetworkSpec is the on-disk form of a reaction network.
type NetworkSpec struct {
	Name          string                         `yaml:"name,omitempty" json:"name,omitempty"`
	Species       []string                       `yaml:"species,omitempty" json:"species,omitempty" validate:"dive,required"`
	Reactions     []ReactionSpec                 `yaml:"reactions,omitempty" json:"reactions,omitempty" validate:"dive"`
	ReactionsText string                         `yaml:"reactions_text,omitempty" json:"reactions_text,omitempty"`
	Equivalences  map[string][][]string          `yaml:"equivalences,omitempty" json:"equivalences,omitempty" validate:"dive,dive,len=2,dive,required"`
	Sites         map[string]SiteSpec            `yaml:"sites,omitempty" json:"sites,omitempty" validate:"dive"`
	Definitions   map[string][]string            `yaml:"definitions,omitempty" json:"definitions,omitempty" validate:"dive,dive,required"`
	Annotations   map[string]map[string][]string `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	Interactions  [][]string                     `yaml:"interactions,omitempty" json:"interactions,omitempty" validate:"dive,len=2,dive,required"`
	Binding       BindingSpec                    `yaml:"binding,omitempty" json:"binding,omitempty"`
}

type ReactionSpec struct {
	ID             string   `yaml:"id,omitempty" json:"id,omitempty"`
	Reactants      []string `yaml:"reactants,omitempty" json:"reactants,omitempty" validate:"dive,required"`
	Products       []string `yaml:"products,omitempty" json:"products,omitempty" validate:"dive,required"`
	Classification string   `yaml:"classification,omitempty" json:"classification,omitempty"`
	Rate           string   `yaml:"rate,omitempty" json:"rate,omitempty"`
	Reversible     bool     `yaml:"reversible,omitempty" json:"reversible,omitempty"`
}

type SiteSpec struct {
	Component string `yaml:"component" json:"component" validate:"required"`
	State     string `yaml:"state" json:"state" validate:"required"`
}

type BindingSpec struct {
	Seeds      [][]string `yaml:"seeds,omitempty" json:"seeds,omitempty" validate:"dive,len=2,dive,required"`
	Exclusions [][]string `yaml:"exclusions,omitempty" json:"exclusions,omitempty" validate:"dive,len=2,dive,required"`
}

func ParseYAML(path string) (*NetworkSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAMLBytes(b)
}

func ParseYAMLBytes(b []byte) (*NetworkSpec, error) {
	var s NetworkSpec
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func ParseYAMLString(s string) (*NetworkSpec, error) {
	return ParseYAMLBytes([]byte(s))
}

// Parse accepts either encoding; documents starting with '{' are JSON.
func Parse(b []byte) (*NetworkSpec, error) {
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] == '{' {
		return ParseJSONBytes(b)
	}
	return ParseYAMLBytes(b)
}

// ParseFile reads path and dispatches on its content.
func ParseFile(path string) (*NetworkSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}
