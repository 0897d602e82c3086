package server

import _ "embed"

// indexHTML is the development console served at the root path.
//
//go:embed index.html
var indexHTML []byte
