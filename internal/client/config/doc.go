// Package config loads runtime configuration for the Quill CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-w string   websocket URL of the notification stream
//	-d string   path of the local token database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8000/api/v1",
//	  "notifications_url": "ws://127.0.0.1:8000/ws/notifications/",
//	  "token_db_path": "quill.db",
//	  "request_timeout": "15s"
//	}
package config
