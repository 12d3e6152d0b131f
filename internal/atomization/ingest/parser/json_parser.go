package parser

import (
	"encoding/json"
	"os"
)

func ParseJSON(path string) (*NetworkSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSONBytes(b)
}

func ParseJSONBytes(b []byte) (*NetworkSpec, error) {
	var s NetworkSpec
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func ParseJSONString(s string) (*NetworkSpec, error) {
	return ParseJSONBytes([]byte(s))
}
