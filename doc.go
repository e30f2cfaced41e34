// Package fhirresources models FHIR R4 Account and Patient resources on top
// of validated primitive types, and holds the issue, result and metrics
// types shared by its subpackages.
//
// # Layout
//
//   - primitive: Code and URI, string-backed values checked at construction
//   - datatype: composite values (Identifier, Period, Money, HumanName, ...)
//   - resource: Account and Patient with their backbone elements
//   - codec: FHIR JSON encoding and all-or-nothing decoding
//   - constraint: FHIRPath invariants over encoded resources
//   - terminology: required value set bindings
//   - ndjson, worker: bulk decoding on a worker pool
//   - stream: Bundle entries, streamed or decoded in parallel
//   - store: memory, bolt and PostgreSQL persistence
//   - interop: conversion to and from github.com/gofhir/fhir/r4
//   - metrics: Prometheus export of Metrics
//
// # Quick Start
//
//	import (
//	    "github.com/gofhir/resources/codec"
//	    "github.com/gofhir/resources/primitive"
//	    "github.com/gofhir/resources/resource"
//	)
//
//	status, err := primitive.NewCode("active")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	account := resource.NewAccount()
//	account.Status = &status
//	data, err := codec.Encode(account)
//
// Checks that go beyond decoding report their findings as a Result of
// Issues shaped like FHIR OperationOutcome entries:
//
//	result, err := constraint.New().Validate(ctx, patient)
//	for _, iss := range result.Errors() {
//	    fmt.Println(iss)
//	}
package fhirresources
