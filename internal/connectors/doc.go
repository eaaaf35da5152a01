// Package connectors provides identity provider implementations.
// Each provider knows how to run the authorization-code grant and fetch
// the user profile for one identity service (currently Google).
//
// Providers are created with NewProvider at startup.
package connectors
