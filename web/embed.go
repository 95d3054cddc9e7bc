package web

import "embed"

// TemplatesFS embeds the HTML templates of the admin console.
//
//go:embed templates/*.html
var TemplatesFS embed.FS
