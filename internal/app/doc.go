// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package app contains the application root. It wires configuration, logging,
// the manifest and the shell run loop together and starts the bootstrap
// sequence, decoupled from any specific entrypoint like a CLI.
package app
