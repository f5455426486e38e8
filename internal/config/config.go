// Package config loads DNUDS run configuration: a named profile overlaid
// by an optional JSON or YAML document, itself overlaid by CLI flags.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/DNAi-inc/DNUDS/internal/privacy"
	"github.com/DNAi-inc/DNUDS/internal/sampling"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// PrivacyRuleDoc is the on-disk shape of one privacy rule, in the list
// form; FileDoc also accepts the map form (column -> mask kind, or
// column -> {type, params}) via PrivacyRules' custom unmarshalers below.
type PrivacyRuleDoc struct {
	Column     string            `yaml:"column" json:"column"`
	MaskType   string            `yaml:"mask_type" json:"mask_type"`
	MaskParams map[string]string `yaml:"mask_params" json:"mask_params"`
}

// PrivacyRules is the on-disk privacy_rules field. It accepts either the
// list form (a sequence of {column, mask_type, mask_params} records) or
// the map form (a mapping from column name to a mask-kind string, or to
// {type, params}), mirroring the two shapes the original Python config
// loader accepted.
type PrivacyRules []PrivacyRuleDoc

// UnmarshalYAML accepts both the sequence and mapping node shapes.
func (p *PrivacyRules) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*p = nil
		return nil
	case yaml.SequenceNode:
		var list []PrivacyRuleDoc
		if err := value.Decode(&list); err != nil {
			return err
		}
		*p = list
		return nil
	case yaml.MappingNode:
		raw := map[string]yaml.Node{}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		columns := make([]string, 0, len(raw))
		for col := range raw {
			columns = append(columns, col)
		}
		sort.Strings(columns)

		list := make([]PrivacyRuleDoc, 0, len(columns))
		for _, col := range columns {
			node := raw[col]
			if node.Kind == yaml.ScalarNode {
				list = append(list, PrivacyRuleDoc{Column: col, MaskType: node.Value})
				continue
			}
			var entry struct {
				Type   string            `yaml:"type"`
				Params map[string]string `yaml:"params"`
			}
			if err := node.Decode(&entry); err != nil {
				return err
			}
			list = append(list, PrivacyRuleDoc{Column: col, MaskType: entry.Type, MaskParams: entry.Params})
		}
		*p = list
		return nil
	default:
		return fmt.Errorf("privacy_rules: unsupported YAML shape")
	}
}

// UnmarshalJSON accepts both the array and object shapes.
func (p *PrivacyRules) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*p = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []PrivacyRuleDoc
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*p = list
		return nil
	case '{':
		raw := map[string]json.RawMessage{}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		columns := make([]string, 0, len(raw))
		for col := range raw {
			columns = append(columns, col)
		}
		sort.Strings(columns)

		list := make([]PrivacyRuleDoc, 0, len(columns))
		for _, col := range columns {
			var maskType string
			if err := json.Unmarshal(raw[col], &maskType); err == nil {
				list = append(list, PrivacyRuleDoc{Column: col, MaskType: maskType})
				continue
			}
			var entry struct {
				Type   string            `json:"type"`
				Params map[string]string `json:"params"`
			}
			if err := json.Unmarshal(raw[col], &entry); err != nil {
				return err
			}
			list = append(list, PrivacyRuleDoc{Column: col, MaskType: entry.Type, MaskParams: entry.Params})
		}
		*p = list
		return nil
	default:
		return fmt.Errorf("privacy_rules: unsupported JSON shape")
	}
}

// FileDoc is the on-disk shape of a `--config` document.
type FileDoc struct {
	SamplingMode string       `yaml:"sampling_mode" json:"sampling_mode"`
	TargetRows   int          `yaml:"target_rows" json:"target_rows"`
	KeyColumns   []string     `yaml:"key_columns" json:"key_columns"`
	Seed         *int64       `yaml:"seed" json:"seed"`
	Table        string       `yaml:"table" json:"table"`
	PrivacyRules PrivacyRules `yaml:"privacy_rules" json:"privacy_rules"`
}

// SamplerConfig is the fully resolved, validated configuration for one
// sampling run.
type SamplerConfig struct {
	SamplingMode sampling.Strategy
	TargetRows   int
	KeyColumns   []string
	Seed         *int64
	Table        string
	PrivacyRules []privacy.Rule
}

// LoadFile reads a JSON or YAML configuration document by extension.
func LoadFile(path string) (*FileDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to read config file")
	}

	var doc FileDoc
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, util.WrapErrorAs(util.KindInvalidConfig, err, "failed to parse YAML config")
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, util.WrapErrorAs(util.KindInvalidConfig, err, "failed to parse JSON config")
		}
	default:
		return nil, util.NewError(util.KindInvalidConfig, "unknown config file extension: "+ext)
	}
	return &doc, nil
}

// Overrides carries CLI-flag values, the last and highest-precedence
// overlay. Zero values mean "not set by the user" and do not override.
type Overrides struct {
	SamplingMode string
	TargetRows   int
	KeyColumns   []string
	Seed         *int64
	Table        string
}

// Resolve builds a SamplerConfig from a profile, an optional loaded file
// document, and CLI overrides, in that precedence order (profile <
// file < flags), then validates the result.
func Resolve(profileName ProfileName, file *FileDoc, overrides Overrides) (*SamplerConfig, error) {
	profile, err := GetProfile(profileName)
	if err != nil {
		return nil, err
	}

	cfg := &SamplerConfig{
		SamplingMode: sampling.Strategy(profile.SamplingMode),
		TargetRows:   profile.TargetRows,
		KeyColumns:   profile.KeyColumns,
		Seed:         profile.Seed,
	}

	if file != nil {
		if file.SamplingMode != "" {
			cfg.SamplingMode = sampling.Strategy(file.SamplingMode)
		}
		if file.TargetRows != 0 {
			cfg.TargetRows = file.TargetRows
		}
		if len(file.KeyColumns) > 0 {
			cfg.KeyColumns = file.KeyColumns
		}
		if file.Seed != nil {
			cfg.Seed = file.Seed
		}
		if file.Table != "" {
			cfg.Table = file.Table
		}
		for _, rd := range file.PrivacyRules {
			rule, err := privacy.NewRule(rd.Column, privacy.Kind(rd.MaskType), rd.MaskParams)
			if err != nil {
				return nil, err
			}
			cfg.PrivacyRules = append(cfg.PrivacyRules, rule)
		}
	}

	if overrides.SamplingMode != "" {
		cfg.SamplingMode = sampling.Strategy(overrides.SamplingMode)
	}
	if overrides.TargetRows != 0 {
		cfg.TargetRows = overrides.TargetRows
	}
	if len(overrides.KeyColumns) > 0 {
		cfg.KeyColumns = overrides.KeyColumns
	}
	if overrides.Seed != nil {
		cfg.Seed = overrides.Seed
	}
	if overrides.Table != "" {
		cfg.Table = overrides.Table
	}

	if cfg.TargetRows < 1 {
		return nil, util.NewError(util.KindInvalidConfig, "target_rows must be at least 1")
	}
	switch cfg.SamplingMode {
	case sampling.Random, sampling.Stratified, sampling.TimeAware, sampling.OutlierAware, sampling.Composite:
	default:
		return nil, util.NewError(util.KindInvalidConfig, "unknown sampling_mode: "+string(cfg.SamplingMode))
	}
	if cfg.SamplingMode == sampling.Stratified && len(cfg.KeyColumns) == 0 {
		return nil, util.NewError(util.KindInvalidConfig, "stratified sampling requires key_columns")
	}

	return cfg, nil
}
