// Package domain defines the core business entities for signin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Session: Per-browser state carried by the session cookie
//   - SessionToken: The access token tuple stored after login
//   - UserInfo: The profile returned by the identity provider
//   - OAuthProviderConfig: OAuth client registration and endpoints
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
