// Package config provides configuration management for s3bridge.
//
// It loads an optional .env file with godotenv, then reads environment
// variables through Viper. Defaults come from the `default` struct tags of each
// partial configuration.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, body limit
//   - Storage: client driver (aws, minio), transport timeout, retries
//   - Bridge: per-operation timeout
//   - Log: level and format
//   - Metrics: prometheus toggle, namespace, scrape path
//
// Nested keys map to upper-case variables: storage.driver is STORAGE_DRIVER.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Driver)
package config
