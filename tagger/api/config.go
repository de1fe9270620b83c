package api

import (
	"os"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned (wrapped) by Config.Validate.
var ErrInvalidConfig = errors.New("invalid tagger configuration")

// DefaultColumns is the number of tag columns emitted per token if not configured.
const DefaultColumns = 1

// Config holds the process-wide tagger configuration.
//
// Create it with NewConfig, adjust with the With... methods or by loading a YAML file, and call Validate once
// before processing any document. Encoders take a copy: changes after an encoder was created have no effect.
type Config struct {
	DuplicateRemoval   DuplicateRemoval `yaml:"duplicate_removal"`
	DuplicateTypeMatch TypeMatch        `yaml:"duplicate_type_match"`
	IOB                IOBMode          `yaml:"iob"`
	Strategy           Strategy         `yaml:"strategy"`
	Columns            int              `yaml:"columns"`
	Layering           Layering         `yaml:"layering"`
	Containment        Containment      `yaml:"containment"`
	LabelSource        LabelSource      `yaml:"label_source"`

	// TypeColumns is the ordered list of type names, one column each, for the FixedTypeColumns strategy.
	TypeColumns []string `yaml:"type_columns"`
	// OnlyPresentTypes restricts TypeColumns to the types present in each document, sorted by name.
	OnlyPresentTypes bool `yaml:"only_present_types"`

	// EmitFlags appends the abstract/metaphor/metonym markers to every tag.
	EmitFlags bool `yaml:"emit_flags"`

	// TagAllAs, if set, replaces every label.
	TagAllAs string `yaml:"tag_all_as"`

	tagPolicy         TagPolicy
	containmentPolicy ContainmentPolicy
}

// NewConfig returns a configuration with the defaults: duplicates removed under any containment, IOB2,
// breadth-first layering, one max-coverage column and labels from the type names.
func NewConfig() *Config {
	return &Config{
		DuplicateRemoval: DuplicatesAny,
		IOB:              IOB2,
		Strategy:         MaxCoverage,
		Columns:          DefaultColumns,
		Layering:         BreadthFirst,
		LabelSource:      LabelFromType,
	}
}

// LoadConfigFile reads a YAML configuration on top of the defaults. The result is not yet validated.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tagger configuration %q", path)
	}
	c := NewConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tagger configuration %q", path)
	}
	return c, nil
}

// Clone returns a copy of the configuration that shares nothing mutable with c.
func (c *Config) Clone() *Config {
	clone := *c
	clone.TypeColumns = slices.Clone(c.TypeColumns)
	return &clone
}

// WithDuplicateRemoval sets the duplicate removal constraint and how types are matched.
func (c *Config) WithDuplicateRemoval(removal DuplicateRemoval, match TypeMatch) *Config {
	c.DuplicateRemoval = removal
	c.DuplicateTypeMatch = match
	return c
}

// WithIOB sets the BIO scheme.
func (c *Config) WithIOB(mode IOBMode) *Config {
	c.IOB = mode
	return c
}

// WithStrategy sets the column selection strategy and the number of columns.
func (c *Config) WithStrategy(strategy Strategy, columns int) *Config {
	c.Strategy = strategy
	c.Columns = columns
	return c
}

// WithTypeColumns configures the FixedTypeColumns strategy.
func (c *Config) WithTypeColumns(onlyPresent bool, typeNames ...string) *Config {
	c.Strategy = FixedTypeColumns
	c.TypeColumns = typeNames
	c.OnlyPresentTypes = onlyPresent
	return c
}

// WithLayering sets the level construction algorithm.
func (c *Config) WithLayering(layering Layering) *Config {
	c.Layering = layering
	return c
}

// WithFlags enables or disables the flag markers on tags.
func (c *Config) WithFlags(emit bool) *Config {
	c.EmitFlags = emit
	return c
}

// WithLabelSource sets where labels come from.
func (c *Config) WithLabelSource(source LabelSource) *Config {
	c.LabelSource = source
	return c
}

// WithTagAllAs replaces every label by the given one. An empty label disables it.
func (c *Config) WithTagAllAs(label string) *Config {
	c.TagAllAs = label
	return c
}

// WithTagPolicy installs a custom label policy, overriding LabelSource and TagAllAs.
func (c *Config) WithTagPolicy(policy TagPolicy) *Config {
	c.tagPolicy = policy
	return c
}

// WithContainment selects one of the built-in containment policies.
func (c *Config) WithContainment(containment Containment) *Config {
	c.Containment = containment
	return c
}

// WithContainmentPolicy installs a custom containment policy, overriding Containment.
func (c *Config) WithContainmentPolicy(policy ContainmentPolicy) *Config {
	c.containmentPolicy = policy
	return c
}

// TagPolicy returns the label policy: a custom one if installed, else TagAllAs or LabelSource.
func (c *Config) TagPolicy() TagPolicy {
	switch {
	case c.tagPolicy != nil:
		return c.tagPolicy
	case c.TagAllAs != "":
		return FixedLabel(c.TagAllAs)
	case c.LabelSource == LabelFromValue:
		return ValueLabel{}
	default:
		return TypeLabel{}
	}
}

// ContainmentPolicy returns the containment policy used for ranking.
func (c *Config) ContainmentPolicy() ContainmentPolicy {
	switch {
	case c.containmentPolicy != nil:
		return c.containmentPolicy
	case c.Containment == ContainWithinCategory:
		return SameCategoryPairs()
	default:
		return AllCategoryPairs()
	}
}

// Validate checks the configuration. It is meant to be called once, before any document is processed:
// an invalid configuration is a programming error, not a data error.
func (c *Config) Validate() error {
	switch {
	case c.DuplicateRemoval < 0 || c.DuplicateRemoval >= DuplicateRemovalCount:
		return errors.Wrapf(ErrInvalidConfig, "duplicate removal %s", c.DuplicateRemoval)
	case c.DuplicateTypeMatch < 0 || c.DuplicateTypeMatch >= TypeMatchCount:
		return errors.Wrapf(ErrInvalidConfig, "duplicate type match %s", c.DuplicateTypeMatch)
	case c.IOB < 0 || c.IOB >= IOBModeCount:
		return errors.Wrapf(ErrInvalidConfig, "IOB mode %s", c.IOB)
	case c.Strategy < 0 || c.Strategy >= StrategyCount:
		return errors.Wrapf(ErrInvalidConfig, "strategy %s", c.Strategy)
	case c.Layering < 0 || c.Layering >= LayeringCount:
		return errors.Wrapf(ErrInvalidConfig, "layering %s", c.Layering)
	case c.Containment < 0 || c.Containment >= ContainmentCount:
		return errors.Wrapf(ErrInvalidConfig, "containment %s", c.Containment)
	case c.LabelSource < 0 || c.LabelSource >= LabelSourceCount:
		return errors.Wrapf(ErrInvalidConfig, "label source %s", c.LabelSource)
	}
	if c.Strategy == FixedTypeColumns {
		if len(c.TypeColumns) == 0 {
			return errors.Wrapf(ErrInvalidConfig, "strategy %s requires a list of type columns", c.Strategy)
		}
		seen := make(map[string]bool, len(c.TypeColumns))
		for _, name := range c.TypeColumns {
			if name == "" {
				return errors.Wrapf(ErrInvalidConfig, "empty type name in type columns")
			}
			if seen[name] {
				return errors.Wrapf(ErrInvalidConfig, "type %q listed twice in type columns", name)
			}
			seen[name] = true
		}
		return nil
	}
	if c.Columns < 1 {
		return errors.Wrapf(ErrInvalidConfig, "column count must be positive, got %d", c.Columns)
	}
	return nil
}
