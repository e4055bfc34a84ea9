// Package core defines the shared domain vocabulary of DebateMesh: skills,
// candidates and the error kinds surfaced by the orchestration loop. It has
// no dependencies and is imported by every other package in the module.
package core
