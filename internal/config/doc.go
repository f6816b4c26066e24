// Package config provides configuration for the drag-and-drop engine.
//
// Configuration is resolved in three layers, lowest priority first:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, selected by extension
//  3. Environment variables prefixed with BLOCKDROP_
//
// Usage:
//
//	cfg, err := config.Load("blockdrop.toml")
//	if err != nil {
//	    return err
//	}
//	threshold := cfg.Drag.ActivationThreshold
//
// A missing file is not an error; the defaults and environment still apply.
package config
