// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

// Package client implements the headless sync agent runtime.
//
// It wires the local vault, client services, the connectivity monitor, and
// the background sync worker into a single process lifecycle. The agent has
// no user interface of its own; an embedding application talks to the vault
// through the record service while the agent keeps it reconciled with the
// remote store.
package client
