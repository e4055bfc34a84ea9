// Package testutil provides scripted collaborator implementations shared by
// tests: a judge and a verifier driven by canned decisions, and a helper for
// building mock worker registries.
package testutil
