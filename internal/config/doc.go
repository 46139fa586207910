// Package config loads runtime configuration from the environment and an
// optional .env file. The upstream URL and browser User-Agent live here so
// tests can point every component at an httptest server.
package config
