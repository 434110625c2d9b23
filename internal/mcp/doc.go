// Package mcp serves the number scanner over the Model Context Protocol.
//
// Two tools are registered with the MCP SDK
// (github.com/modelcontextprotocol/go-sdk/mcp):
//
//   - sum_numbers scans selection text and returns the formatted sum together
//     with the structured summary.
//   - check_token reports, per token, whether it would be counted and which
//     stage rejected it.
//
// Tool calls are traced and counted through the telemetry package when one
// is configured; token outcomes feed the Prometheus collectors in metrics.
package mcp
