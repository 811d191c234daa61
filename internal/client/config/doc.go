// Package config loads runtime configuration for the timecheck CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/-config or TIMECHECK_CONFIG.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-f string   local SQLite database path
//	-i int      request timeout (seconds)
//	-o int      online check interval (seconds)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "timecheck.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "15s"
//	}
package config
