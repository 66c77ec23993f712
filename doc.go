// Package main provides the entry point for the HowUFeelin application.
// It initializes and runs a web server using the Fiber framework where users
// record daily mood ratings inside private groups, manage group memberships
// with role-based permissions, and link their Spotify profile. The application
// uses gorm for data persistence and serves HTML pages from embedded templates.
package main
