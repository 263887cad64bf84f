// Copyright © 2024 The XCTLint authors

// Package docs embeds the xctlint user guides for use by the CLI.
package docs

import _ "embed"

//go:embed configuration.md
var ConfigurationGuide string
