// Package web holds the kiosk landing page served at "/".
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
