// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config loads bot configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvFileEnv     = "BOTKIT_ENV_FILE"
	LogLevelEnv    = "BOTKIT_LOG_LEVEL"
	GSUtilPyEnv    = "BOTKIT_GSUTIL_PY_PATH"
	HMACAccessEnv  = "BOTKIT_GS_HMAC_ACCESS_ID"
	HMACSecretEnv  = "BOTKIT_GS_HMAC_SECRET"
	GSEndpointEnv  = "BOTKIT_GS_ENDPOINT"
	defaultEnvFile = ".botkit.env"
)

// LoadEnvFile loads environment variables from the env file named by
// BOTKIT_ENV_FILE, or .botkit.env if it exists.
// Variables already set are not overridden.
func LoadEnvFile() error {
	fname := os.Getenv(EnvFileEnv)
	explicit := fname != ""
	if !explicit {
		fname = defaultEnvFile
	}
	err := godotenv.Load(fname)
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load env file %s: %w", fname, err)
	}
	log.Debugf("loaded env file %s", fname)
	return nil
}

// SetupLog sets log level from BOTKIT_LOG_LEVEL.
func SetupLog() error {
	v := os.Getenv(LogLevelEnv)
	if v == "" {
		log.SetLevel(log.InfoLevel)
		return nil
	}
	level, err := log.ParseLevel(v)
	if err != nil {
		return fmt.Errorf("bad %s=%q: %w", LogLevelEnv, v, err)
	}
	log.SetLevel(level)
	return nil
}

// Interop holds settings of the Google Storage XML API.
type Interop struct {
	AccessID string
	Secret   string
	Endpoint string
}

// Enabled reports whether HMAC keys are configured.
func (i Interop) Enabled() bool {
	return i.AccessID != "" && i.Secret != ""
}

// InteropFromEnv returns Interop settings from environment variables.
func InteropFromEnv() Interop {
	return Interop{
		AccessID: os.Getenv(HMACAccessEnv),
		Secret:   os.Getenv(HMACSecretEnv),
		Endpoint: os.Getenv(GSEndpointEnv),
	}
}
