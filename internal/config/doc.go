// Package config loads the dashboard configuration.
//
// Values are layered, later layers winning:
//
//  1. Default()
//  2. a YAML file: $BLINKIT_CONFIG, else config.yaml or configs/config.yaml
//  3. environment variables prefixed BLINKIT_
//
// Environment variables follow the struct nesting:
//
//	BLINKIT_SERVER_PORT=9090
//	BLINKIT_DATASET_FILE=/data/blinkit_data.csv
//	BLINKIT_DATASET_WATCH=false
//	BLINKIT_SECURITY_ALLOWED_ORIGINS=http://a.example,http://b.example
//	BLINKIT_TELEMETRY_TRACE_EXPORTER=stdout
//
// A file only needs the keys it changes:
//
//	server:
//	  port: 9090
//	dataset:
//	  path: data/blinkit_data.xlsx
//	  watch_debounce: 1s
package config
