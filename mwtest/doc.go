/*
Package mwtest provides mocks and helpers for testing both the
framework packages and extensions built on top of them.

Keep this package free of dependencies on any extension so that every
package can import it.
*/
package mwtest
