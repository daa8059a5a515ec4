// Package config provides configuration management for media-offload.
//
// It utilizes Viper for loading configuration from environment variables
// and a local .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: admin HTTP server settings (port, API key)
//   - Database: MySQL connection details for the attachment metadata store
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Offload: library root, remote key prefix, walk batch size
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Bucket)
package config
