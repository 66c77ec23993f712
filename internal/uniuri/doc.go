// Package uniuri generates cryptographically secure random strings suitable
// for use as unique identifiers and group invite codes.
package uniuri
