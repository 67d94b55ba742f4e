package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	cif "github.com/Scinformatic/CIFFile"
)

// Config is cifcheck.yaml's shape: per-invocation defaults so repeated
// runs over the same project don't need every flag spelled out.
type Config struct {
	Variant           string `yaml:"variant"`            // "mmcif" or "cif1"
	CaseNormalization string `yaml:"case_normalization"`  // "lower", "upper", "none"
	RaiseLevel        int    `yaml:"raise_level"`
	DictionaryPath    string `yaml:"dictionary"`
}

// LoadConfig reads path if present, returning zero-value defaults
// (resolved by readOptions below) if it does not exist —
// cifcheck is useful without any config file at all.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) readOptions() cif.ReadOptions {
	opts := cif.DefaultReadOptions()
	switch c.Variant {
	case "cif1":
		opts.Variant = cif.VariantCIF1
	case "mmcif", "":
		opts.Variant = cif.VariantMMCIF
	}
	switch c.CaseNormalization {
	case "upper":
		opts.CaseNormalization = cif.CaseUpper
	case "none":
		opts.CaseNormalization = cif.CaseNone
	case "lower", "":
		opts.CaseNormalization = cif.CaseLower
	}
	if c.RaiseLevel > 0 {
		opts.RaiseLevel = cif.Severity(c.RaiseLevel)
	}
	return opts
}
