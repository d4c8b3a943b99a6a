/*
Package x contains some standard extensions

Extensions implement common functionality (wallet administration,
authentication) and can be combined together to construct an
application.

Each extension defines its own models, messages and handlers. All
blockchain specific rules belong in an extension, the framework
packages stay business logic free.
*/
package x
