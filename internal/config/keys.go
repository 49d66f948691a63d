package config

import (
	"fmt"
	"sort"
	"strconv"
)

// Keys returns the settable config keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type fieldAccess struct {
	get func(*GlobalConfig) string
	set func(*GlobalConfig, string) error
}

var fields = map[string]fieldAccess{
	"taxonomy_base_url": {
		get: func(c *GlobalConfig) string { return c.TaxonomyBaseURL },
		set: func(c *GlobalConfig, v string) error { c.TaxonomyBaseURL = v; return nil },
	},
	"pubs_base_url": {
		get: func(c *GlobalConfig) string { return c.PubsBaseURL },
		set: func(c *GlobalConfig, v string) error { c.PubsBaseURL = v; return nil },
	},
	"pubs_api_key": {
		get: func(c *GlobalConfig) string { return c.PubsAPIKey },
		set: func(c *GlobalConfig, v string) error { c.PubsAPIKey = v; return nil },
	},
	"max_retries": {
		get: func(c *GlobalConfig) string { return intString(c.MaxRetries) },
		set: func(c *GlobalConfig, v string) error { return setInt(&c.MaxRetries, v) },
	},
	"retry_delay_ms": {
		get: func(c *GlobalConfig) string { return intString(c.RetryDelayMilli) },
		set: func(c *GlobalConfig, v string) error { return setInt(&c.RetryDelayMilli, v) },
	},
	"default_taxonomy_type": {
		get: func(c *GlobalConfig) string { return c.DefaultTaxonomyType },
		set: func(c *GlobalConfig, v string) error { c.DefaultTaxonomyType = v; return nil },
	},
	"default_display_type": {
		get: func(c *GlobalConfig) string { return c.DefaultDisplayType },
		set: func(c *GlobalConfig, v string) error { c.DefaultDisplayType = v; return nil },
	},
	"theme": {
		get: func(c *GlobalConfig) string { return c.Theme },
		set: func(c *GlobalConfig, v string) error { c.Theme = v; return nil },
	},
	"data_dir": {
		get: func(c *GlobalConfig) string { return c.DataDir },
		set: func(c *GlobalConfig, v string) error { c.DataDir = ExpandTilde(v); return nil },
	},
	"pdf_dir": {
		get: func(c *GlobalConfig) string { return c.PDFDir },
		set: func(c *GlobalConfig, v string) error { c.PDFDir = ExpandTilde(v); return nil },
	},
}

// Get returns the value of a config key as a string.
func (c *GlobalConfig) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q (valid: %v)", key, Keys())
	}
	return f.get(c), nil
}

// Set assigns a config key from a string value. Enum-valued keys are
// validated; the caller still needs Save to persist the change.
func (c *GlobalConfig) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %v)", key, Keys())
	}
	if err := f.set(c, value); err != nil {
		return err
	}
	return c.Validate()
}

func intString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func setInt(p **int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("not an integer: %q", v)
	}
	if n < 0 {
		return fmt.Errorf("must not be negative: %d", n)
	}
	*p = &n
	return nil
}
