// Package mcp exposes bound Valu modules as Model Context Protocol tools.
//
// A ToolServer keeps a registry of tools whose handlers invoke functions on a
// module handle. The registry can be called directly, or mounted on an
// official MCP SDK server and served over any MCP transport.
package mcp
