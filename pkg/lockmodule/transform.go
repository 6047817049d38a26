package lockmodule

import (
	"github.com/sheinsight/lockmodule/pkg/uast/pkg/node"
)

// ConfigSource supplies the raw configuration payload of one transform call,
// typically read from the metadata the host attaches to a file.
type ConfigSource interface {
	// PluginConfig returns the raw payload and whether one was provided.
	PluginConfig() (string, bool)
}

// RawConfig is a ConfigSource backed by a payload string. The zero value
// carries no payload.
type RawConfig struct {
	Payload string
	Present bool
}

// Payload returns a ConfigSource carrying raw.
func Payload(raw string) RawConfig {
	return RawConfig{Payload: raw, Present: true}
}

// PluginConfig implements ConfigSource.
func (raw RawConfig) PluginConfig() (string, bool) {
	return raw.Payload, raw.Present
}

// ResolveConfig turns the payload offered by meta into a Config. An absent
// payload resolves to DisabledConfig without being parsed.
func ResolveConfig(meta ConfigSource) Config {
	if meta == nil {
		return DisabledConfig()
	}

	raw, ok := meta.PluginConfig()
	if !ok {
		return DisabledConfig()
	}

	return ParseConfig(raw)
}

// Transform rewrites program in place according to the payload offered by
// meta and returns the same tree.
func Transform(program *node.Node, meta ConfigSource) *node.Node {
	cfg := ResolveConfig(meta)

	rewriter := &ImportRewriter{Config: &cfg}
	rewriter.Visit(program)

	return program
}
