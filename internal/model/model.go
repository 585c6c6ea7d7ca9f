package model

// Package model contains domain models shared by the HTTP, service and
// persistence layers. Models carry JSON tags only; no database coupling.
