// Package server implements the MCP (Model Context Protocol) server that
// exposes the dithering engine as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - notifications/*: Accepted silently
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Dithering:
//   - dither_apply: Dither an image file and write the result
//   - dither_bayer_matrix: Show the Bayer threshold matrix of an order
//   - dither_nearest_color: Nearest palette entry for a colour
//
// Catalogues:
//   - dither_list_colors: Named colours
//   - dither_list_kernels: Error diffusion kernels
//   - dither_list_algorithms: Algorithms and their parameters
//
// Inspection:
//   - dither_image_info: Image metadata
//   - dither_dominant_palette: Most frequent colours of an image
//   - dither_sample_color: Colour and luma at a pixel
//
// # Image Caching
//
// Source images are decoded once and cached by path for the lifetime of
// the server process.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code -32700: the request line is not valid JSON
//   - code -32601: unknown method
//   - code -32602: malformed or missing tool arguments
//   - code -32000: unknown tool, or the tool ran and failed (unknown colour,
//     missing file, ...)
//
// The error data field carries the Go error string.
//
// # Usage
//
//	srv := server.New(config.Load(), version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
