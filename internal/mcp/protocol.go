// mcp/protocol.go
// Definisi struktur dasar MCP protocol

package mcp

import "encoding/json"

// ToolRequest envelope POST /mcp/call. Params diteruskan apa adanya
// sebagai body JSON ke handler tool.
type ToolRequest struct {
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params,omitempty"`
}

type ToolResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
