// Package config handles configuration loading for todo-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from TODO_GATEWAY_CONFIG environment variable
//  2. ./config.yaml (current directory)
//  3. ~/.config/todo-gateway/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${TODO_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  shutdown_timeout: "5s"
//
// Database:
//
//	database:
//	  path: "/var/lib/todo-gateway/tasks.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${TODO_JWT_SECRET}"  # min 32 bytes
//
// Chat model:
//
//	openai:
//	  model: "gpt-4o-mini"
//	  api_key: "${OPENAI_API_KEY}"
//	  base_url: ""  # optional, for compatible gateways
//
// Browser frontends:
//
//	cors:
//	  allowed_origins:
//	    - "http://localhost:3000"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - HTTP listen address presence
//   - Database path presence
//   - JWT secret minimum length (32 bytes)
//   - Duration format validity
package config
