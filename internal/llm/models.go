// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import "sort"

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// ModelSpec names a model and the provider that serves it.
type ModelSpec struct {
	// Model is the identifier sent in requests_data.model.
	Model string `json:"model"`

	// Provider is the identifier sent in the top-level provider field.
	Provider string `json:"provider"`

	// Name is the human-readable display name.
	Name string `json:"name"`
}

// DefaultModelKey is the registry entry used when a saved model key is not
// recognized. Falling back by name keeps the choice stable when entries are
// added or removed.
const DefaultModelKey = "qwen-235b"

// Models is the registry of known model/provider pairs. It is data rather
// than a closed type so new entries can be added without touching any other
// code.
var Models = map[string]ModelSpec{
	"deepseek-v3": {
		Model:    "deepseek-chat",
		Provider: "deepseek",
		Name:     "DeepSeek V3",
	},
	"deepseek-r1": {
		Model:    "DeepSeek-R1",
		Provider: "deepseek",
		Name:     "DeepSeek R1",
	},
	"qwen-plus": {
		Model:    "qwen-plus",
		Provider: "qwen",
		Name:     "Qwen Plus",
	},
	"qwen-235b": {
		Model:    "qwen3-235b-a22b-instruct-2507",
		Provider: "qwen",
		Name:     "Qwen3 235B",
	},
	"doubao-1.6": {
		Model:    "doubao-seed-1-6-250615",
		Provider: "doubao",
		Name:     "Doubao Seed 1.6",
	},
	"doubao-1.5": {
		Model:    "doubao-1-5-pro-32k-250115",
		Provider: "doubao",
		Name:     "Doubao 1.5 Pro 32K",
	},
	"doubao-vision-1.6": {
		Model:    "doubao-seed-1-6-251015",
		Provider: "doubao",
		Name:     "Doubao Seed 1.6 Vision",
	},
	"doubao-1.6-flash": {
		Model:    "doubao-seed-1-6-flash-250828",
		Provider: "doubao",
		Name:     "Doubao Seed 1.6 Flash",
	},
}

// GetModel looks up a registry entry by key, then by model identifier.
func GetModel(key string) (ModelSpec, bool) {
	if spec, ok := Models[key]; ok {
		return spec, true
	}
	for _, spec := range Models {
		if spec.Model == key {
			return spec, true
		}
	}
	return ModelSpec{}, false
}

// ResolveModel looks up a registry entry by key and falls back to the named
// default entry when the key is unknown.
func ResolveModel(key string) ModelSpec {
	if spec, ok := GetModel(key); ok {
		return spec
	}
	return Models[DefaultModelKey]
}

// ModelKeys returns the registry keys in sorted order, for stable display.
func ModelKeys() []string {
	keys := make([]string, 0, len(Models))
	for key := range Models {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
