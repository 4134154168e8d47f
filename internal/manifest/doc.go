// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package manifest loads the application manifest: the configuration payload
// the run loop receives alongside the builder. It describes the application
// identity, where the frontend assets live, and the windows the shell should
// present.
//
// Manifests are HCL files:
//
//	app {
//	  product_name = "Shortcut Trainer"
//	  identifier   = "com.example.shortcuts"
//	  version      = "0.3.1"
//	}
//
//	build {
//	  frontend_dist = "./dist"
//	  dev_url       = build_mode == "debug" ? "http://localhost:5173" : ""
//	}
//
//	window "main" {
//	  title  = "Shortcut Trainer"
//	  width  = 1200
//	  height = 800
//	}
//
// Two variables are available to expressions: `build_mode` ("debug" or
// "release") and `env`, a map of the process environment.
//
// The bootstrap sequencer never looks inside a Manifest; only the run loop
// does.
package manifest
