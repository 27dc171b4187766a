// Package templates embeds the HTML templates rendered by the server.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
