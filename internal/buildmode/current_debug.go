// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

//go:build debug

package buildmode

// Current is the mode this binary was built with.
const Current = Debug
