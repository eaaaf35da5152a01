// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - SessionStore: Session persistence (memory, SQLite)
//   - OAuthClient: Authorization URL and code exchange
//   - ProfileFetcher: Userinfo lookup, signed through a TokenGetter
//   - ConfigStore: Application configuration (TOML)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
